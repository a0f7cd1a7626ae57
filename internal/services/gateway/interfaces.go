package gateway

import "context"

// Gateway is the payment processor as seen by the payment and installment
// services.
type Gateway interface {
	// CreatePaymentIntent starts an on-session payment confirmed by the payer.
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*IntentResult, error)
	// ChargeSavedMethod confirms an off-session payment with a saved method.
	ChargeSavedMethod(ctx context.Context, req IntentRequest) (*IntentResult, error)
	// ParseWebhook verifies and decodes a processor event.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
