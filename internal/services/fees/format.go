package fees

import "greekpay/internal/models"

// Display colors for payment statuses
const (
	ColorYellow = "yellow"
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorRed    = "red"
	ColorGray   = "gray"
)

// StatusDisplay is a payment status as shown to treasurers and members.
type StatusDisplay struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// FormatPaymentMethod returns the label for a ledger payment-method code,
// followed by " ****<last4>" when last4 is not empty. Unknown codes are
// shown as stored.
func FormatPaymentMethod(code, last4 string) string {
	var label string
	switch code {
	case models.PaymentMethodStripeACH:
		label = "Bank Account"
	case models.PaymentMethodStripeCard:
		label = "Card"
	case models.PaymentMethodCash:
		label = "Cash"
	case models.PaymentMethodCheck:
		label = "Check"
	case models.PaymentMethodVenmo:
		label = "Venmo"
	case models.PaymentMethodZelle:
		label = "Zelle"
	case models.PaymentMethodOther:
		label = "Other"
	default:
		label = code
	}

	if last4 != "" {
		label += " ****" + last4
	}
	return label
}

// FormatPaymentStatus returns the label and color for a payment status.
// Unknown statuses are shown as stored, in gray.
func FormatPaymentStatus(status string) StatusDisplay {
	switch status {
	case models.PaymentStatusPending:
		return StatusDisplay{Text: "Pending", Color: ColorYellow}
	case models.PaymentStatusProcessing:
		return StatusDisplay{Text: "Processing", Color: ColorBlue}
	case models.PaymentStatusSucceeded:
		return StatusDisplay{Text: "Completed", Color: ColorGreen}
	case models.PaymentStatusFailed:
		return StatusDisplay{Text: "Failed", Color: ColorRed}
	case models.PaymentStatusCanceled:
		return StatusDisplay{Text: "Canceled", Color: ColorGray}
	default:
		return StatusDisplay{Text: status, Color: ColorGray}
	}
}
