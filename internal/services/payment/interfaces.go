package payment

import (
	"context"
	"time"

	"greekpay/internal/models"
	"greekpay/internal/services/fees"
)

// Service defines the payment service interface
type Service interface {
	// Fee previews
	QuoteFees(amount float64, method string) (*fees.Breakdown, error)

	// Stripe payments
	CreateDuesIntent(ctx context.Context, memberID uint, req models.DuesPaymentRequest, idempotencyKey string) (*IntentResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error

	// Treasurer operations
	RecordManualPayment(ctx context.Context, chapterID uint, req models.ManualPaymentRequest) (*PaymentView, error)
	ListChapterPayments(ctx context.Context, chapterID uint, limit, offset int) ([]PaymentView, int64, error)
}

// IdempotencyStore remembers intent responses and de-duplicates webhook
// deliveries.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}
