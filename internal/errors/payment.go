package errors

var (
	ErrChapterNotFound = &DomainError{
		Code:    "CHAPTER_NOT_FOUND",
		Message: "chapter not found",
	}
	ErrChapterNotOnboarded = &DomainError{
		Code:    "CHAPTER_NOT_ONBOARDED",
		Message: "chapter has no connected payout account",
	}
	ErrMemberNotFound = &DomainError{
		Code:    "MEMBER_NOT_FOUND",
		Message: "member not found",
	}
	ErrDuesNotFound = &DomainError{
		Code:    "DUES_NOT_FOUND",
		Message: "dues assignment not found",
	}
	ErrPaymentNotFound = &DomainError{
		Code:    "PAYMENT_NOT_FOUND",
		Message: "payment not found",
	}
	ErrBelowMinimumCharge = &DomainError{
		Code:    "BELOW_MINIMUM_CHARGE",
		Message: "amount is below the minimum charge",
	}
	ErrAmountExceedsBalance = &DomainError{
		Code:    "AMOUNT_EXCEEDS_BALANCE",
		Message: "amount exceeds the outstanding dues balance",
	}
	ErrDuesAlreadyPaid = &DomainError{
		Code:    "DUES_ALREADY_PAID",
		Message: "dues are already paid in full",
	}
	ErrDuplicateRequest = &DomainError{
		Code:    "DUPLICATE_REQUEST",
		Message: "request is already being processed",
	}
	ErrInvalidWebhook = &DomainError{
		Code:    "INVALID_WEBHOOK",
		Message: "invalid webhook payload or signature",
	}
	ErrNoSavedPaymentMethod = &DomainError{
		Code:    "NO_SAVED_PAYMENT_METHOD",
		Message: "member has no saved payment method",
	}
	ErrInvalidManualMethod = &DomainError{
		Code:    "INVALID_MANUAL_METHOD",
		Message: "manual payments must be cash, check, venmo, zelle or other",
	}
	ErrInvalidPeriod = &DomainError{
		Code:    "INVALID_PERIOD",
		Message: "report period end must be after its start",
	}
)
