package models

// FeeQuoteRequest is the body of a fee preview request.
type FeeQuoteRequest struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method"`
}

// DuesPaymentRequest asks for a Stripe payment against a dues assignment.
// A zero Amount pays the outstanding balance.
type DuesPaymentRequest struct {
	DuesID uint    `json:"dues_id"`
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// ManualPaymentRequest records money the treasurer collected outside Stripe.
type ManualPaymentRequest struct {
	MemberID uint    `json:"member_id"`
	DuesID   uint    `json:"dues_id"`
	Amount   float64 `json:"amount"`
	Method   string  `json:"method"`
	Notes    string  `json:"notes"`
}
