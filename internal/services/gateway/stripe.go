package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	apperrors "greekpay/internal/errors"
	"greekpay/internal/models"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
	"github.com/stripe/stripe-go/v72/webhook"
)

// StripeGateway talks to Stripe with the platform's secret key. Charges are
// Connect destination charges routed to the chapter's account.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req IntentRequest) (*IntentResult, error) {
	params := intentParams(ctx, req)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent failed: %w", err)
	}
	return resultFromIntent(pi), nil
}

func (g *StripeGateway) ChargeSavedMethod(ctx context.Context, req IntentRequest) (*IntentResult, error) {
	params := intentParams(ctx, req)
	params.PaymentMethod = stripe.String(req.PaymentMethodID)
	params.OffSession = stripe.Bool(true)
	params.Confirm = stripe.Bool(true)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		// Declines come back as card errors carrying the failed intent.
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard && stripeErr.PaymentIntent != nil {
			result := resultFromIntent(stripeErr.PaymentIntent)
			result.Status = models.PaymentStatusFailed
			result.FailureReason = stripeErr.Msg
			return result, nil
		}
		return nil, fmt.Errorf("stripe off-session charge failed: %w", err)
	}
	return resultFromIntent(pi), nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		log.Printf("Stripe webhook verification failed: %v", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidWebhook, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	switch out.Type {
	case EventIntentSucceeded, EventIntentProcessing, EventIntentFailed, EventIntentCanceled:
		if event.Data == nil {
			return nil, fmt.Errorf("%w: event %s has no data", apperrors.ErrInvalidWebhook, event.ID)
		}
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidWebhook, err)
		}
		out.Intent = resultFromIntent(&pi)
	}
	return out, nil
}

func intentParams(ctx context.Context, req IntentRequest) *stripe.PaymentIntentParams {
	params := &stripe.PaymentIntentParams{
		Amount:               stripe.Int64(req.AmountCents),
		Currency:             stripe.String(req.Currency),
		PaymentMethodTypes:   stripe.StringSlice([]string{req.Method}),
		ApplicationFeeAmount: stripe.Int64(req.ApplicationFeeCents),
		TransferData: &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(req.DestinationAccount),
		},
	}
	if req.CustomerID != "" {
		params.Customer = stripe.String(req.CustomerID)
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}
	params.Context = ctx
	return params
}

func resultFromIntent(pi *stripe.PaymentIntent) *IntentResult {
	result := &IntentResult{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Metadata:     pi.Metadata,
	}
	if pi.LastPaymentError != nil {
		result.FailureReason = pi.LastPaymentError.Msg
	}
	result.Status = PaymentStatus(string(pi.Status), result.FailureReason != "")

	if pi.Charges != nil {
		for _, ch := range pi.Charges.Data {
			if last4 := methodLast4(ch.PaymentMethodDetails); last4 != "" {
				result.Last4 = last4
			}
		}
	}
	return result
}

// methodLast4 returns the last four digits of the card or bank account
// a charge was paid with.
func methodLast4(d *stripe.ChargePaymentMethodDetails) string {
	switch {
	case d == nil:
		return ""
	case d.Card != nil:
		return d.Card.Last4
	case d.USBankAccount != nil:
		return d.USBankAccount.Last4
	case d.AchDebit != nil:
		return d.AchDebit.Last4
	default:
		return ""
	}
}

// PaymentStatus maps a Stripe payment intent status onto a ledger status.
// An intent waiting for a new payment method after an error has failed;
// one that never had a method attached is still pending.
func PaymentStatus(intentStatus string, hasError bool) string {
	switch stripe.PaymentIntentStatus(intentStatus) {
	case stripe.PaymentIntentStatusSucceeded:
		return models.PaymentStatusSucceeded
	case stripe.PaymentIntentStatusProcessing:
		return models.PaymentStatusProcessing
	case stripe.PaymentIntentStatusCanceled:
		return models.PaymentStatusCanceled
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		if hasError {
			return models.PaymentStatusFailed
		}
		return models.PaymentStatusPending
	default:
		return models.PaymentStatusPending
	}
}
