package validation

const (
	// Amount limits; the fee schedule enforces its own maximum.
	MinPaymentAmount = 0.01
	MaxPaymentAmount = 999999.99

	// String lengths
	MaxNotesLength = 500
	MaxNameLength  = 200
)
