package errors

var (
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
	ErrInvalidMethod = &DomainError{
		Code:    "INVALID_METHOD",
		Message: "unsupported payment method",
	}
	ErrRoundingOverflow = &DomainError{
		Code:    "ROUNDING_OVERFLOW",
		Message: "amount exceeds the largest settleable value",
	}
	ErrInvalidFeeSchedule = &DomainError{
		Code:    "INVALID_FEE_SCHEDULE",
		Message: "invalid fee schedule",
	}
)
