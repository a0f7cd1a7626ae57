package gateway

// Processor event types the payment service reacts to
const (
	EventIntentSucceeded  = "payment_intent.succeeded"
	EventIntentProcessing = "payment_intent.processing"
	EventIntentFailed     = "payment_intent.payment_failed"
	EventIntentCanceled   = "payment_intent.canceled"
)

// IntentRequest describes a destination charge: the gross amount is paid to
// the chapter's connected account minus the application fee.
type IntentRequest struct {
	AmountCents         int64
	ApplicationFeeCents int64
	Currency            string
	Method              string
	CustomerID          string
	PaymentMethodID     string
	DestinationAccount  string
	Description         string
	IdempotencyKey      string
	Metadata            map[string]string
}

// IntentResult is the processor's view of a payment intent.
type IntentResult struct {
	ID            string            `json:"id"`
	ClientSecret  string            `json:"client_secret,omitempty"`
	Status        string            `json:"status"`
	Last4         string            `json:"last4,omitempty"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// WebhookEvent is a verified processor event. Intent is nil for event types
// that do not carry a payment intent.
type WebhookEvent struct {
	ID     string
	Type   string
	Intent *IntentResult
}
