package validation

import (
	"greekpay/internal/models"
)

// Stripe method types accepted from clients.
var processorMethods = []string{"card", "us_bank_account"}

// Methods a treasurer can record by hand.
var manualMethods = []string{
	models.PaymentMethodCash,
	models.PaymentMethodCheck,
	models.PaymentMethodVenmo,
	models.PaymentMethodZelle,
	models.PaymentMethodOther,
}

// FeeQuote validates a fee preview request. Zero is a valid amount to quote.
func (v *Validator) FeeQuote(req *models.FeeQuoteRequest) {
	v.Range("amount", req.Amount, 0, MaxPaymentAmount)
	v.Cents("amount", req.Amount)
	v.Required("method", req.Method)
	v.OneOf("method", req.Method, processorMethods...)
}

// DuesPayment validates a member's request to pay dues. A zero amount pays
// the outstanding balance.
func (v *Validator) DuesPayment(req *models.DuesPaymentRequest) {
	v.Required("dues_id", req.DuesID)
	v.Required("method", req.Method)
	v.OneOf("method", req.Method, processorMethods...)
	if req.Amount != 0 {
		v.Range("amount", req.Amount, MinPaymentAmount, MaxPaymentAmount)
		v.Cents("amount", req.Amount)
	}
}

// ManualPayment validates a treasurer-recorded payment.
func (v *Validator) ManualPayment(req *models.ManualPaymentRequest) {
	v.Required("member_id", req.MemberID)
	v.Required("dues_id", req.DuesID)
	v.Required("amount", req.Amount)
	v.Range("amount", req.Amount, MinPaymentAmount, MaxPaymentAmount)
	v.Cents("amount", req.Amount)
	v.Required("method", req.Method)
	v.OneOf("method", req.Method, manualMethods...)
	v.MaxLength("notes", req.Notes, MaxNotesLength)
}
