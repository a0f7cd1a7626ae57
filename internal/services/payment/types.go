package payment

import (
	"time"

	"greekpay/internal/models"
	"greekpay/internal/services/fees"
)

// Config tunes the payment service.
type Config struct {
	Currency        string
	IdempotencyTTL  time.Duration
	LockTTL         time.Duration
	WebhookEventTTL time.Duration
}

// Default configuration values
const (
	DefaultCurrency        = "usd"
	DefaultIdempotencyTTL  = 24 * time.Hour
	DefaultLockTTL         = 30 * time.Second
	DefaultWebhookEventTTL = 72 * time.Hour
)

// IntentResponse is returned to the payer's client to confirm the payment.
type IntentResponse struct {
	PaymentID    uint            `json:"payment_id"`
	Reference    string          `json:"reference"`
	ClientSecret string          `json:"client_secret"`
	Status       string          `json:"status"`
	Breakdown    *fees.Breakdown `json:"breakdown"`
}

// PaymentView is a ledger row shaped for display.
type PaymentView struct {
	ID              uint               `json:"id"`
	MemberID        uint               `json:"member_id"`
	DuesID          *uint              `json:"dues_id,omitempty"`
	Reference       string             `json:"reference"`
	Amount          float64            `json:"amount"`
	ProcessorFee    float64            `json:"processor_fee"`
	PlatformFee     float64            `json:"platform_fee"`
	TotalCharged    float64            `json:"total_charged"`
	ChapterReceives float64            `json:"chapter_receives"`
	PaymentMethod   string             `json:"payment_method"`
	MethodLabel     string             `json:"method_label"`
	Manual          bool               `json:"manual"`
	Status          string             `json:"status"`
	StatusDisplay   fees.StatusDisplay `json:"status_display"`
	Notes           string             `json:"notes,omitempty"`
	PaidAt          *time.Time         `json:"paid_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// NewPaymentView formats a ledger row.
func NewPaymentView(p *models.Payment) PaymentView {
	return PaymentView{
		ID:              p.ID,
		MemberID:        p.MemberID,
		DuesID:          p.DuesID,
		Reference:       p.Reference,
		Amount:          p.Amount,
		ProcessorFee:    p.ProcessorFee,
		PlatformFee:     p.PlatformFee,
		TotalCharged:    p.TotalCharged,
		ChapterReceives: p.ChapterReceives,
		PaymentMethod:   p.PaymentMethod,
		MethodLabel:     fees.FormatPaymentMethod(p.PaymentMethod, p.Last4),
		Manual:          !p.IsStripe(),
		Status:          p.Status,
		StatusDisplay:   fees.FormatPaymentStatus(p.Status),
		Notes:           p.Notes,
		PaidAt:          p.PaidAt,
		CreatedAt:       p.CreatedAt,
	}
}
