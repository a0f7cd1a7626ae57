package fees

import (
	"fmt"
	"math"

	apperrors "greekpay/internal/errors"

	"github.com/shopspring/decimal"
)

// centsPlaces is the precision every returned amount is rounded to.
const centsPlaces = 2

// Breakdown is the full settlement split for one charge.
type Breakdown struct {
	Amount          float64 `json:"amount"`
	Method          Method  `json:"method"`
	ProcessorFee    float64 `json:"processor_fee"`
	PlatformFee     float64 `json:"platform_fee"`
	TotalCharge     float64 `json:"total_charge"`
	ChapterReceives float64 `json:"chapter_receives"`
	// ApplicationFee is what the platform keeps from the gross charge
	// (TotalCharge - ChapterReceives). Stripe's own fee is paid out of it.
	ApplicationFee float64 `json:"application_fee"`
}

// TotalChargeCents returns the gross charge in minor units.
func (b *Breakdown) TotalChargeCents() int64 {
	return ToCents(b.TotalCharge)
}

// ApplicationFeeCents returns the platform's share of the charge in minor units.
func (b *Breakdown) ApplicationFeeCents() int64 {
	return ToCents(b.TotalCharge) - ToCents(b.ChapterReceives)
}

// Calculator computes fees for a fixed Schedule. It holds no mutable state
// and is safe for concurrent use.
type Calculator struct {
	schedule Schedule
}

// NewCalculator validates the schedule and returns a calculator for it.
func NewCalculator(schedule Schedule) (*Calculator, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{schedule: schedule}, nil
}

// Schedule returns the rates in effect.
func (c *Calculator) Schedule() Schedule {
	return c.schedule
}

// StripeFee returns the processor fee for amount paid with method.
func (c *Calculator) StripeFee(amount float64, method Method) (float64, error) {
	a, err := c.parseAmount(amount)
	if err != nil {
		return 0, err
	}
	fee, err := c.stripeFee(a, method)
	if err != nil {
		return 0, err
	}
	return fee.InexactFloat64(), nil
}

// PlatformFee returns the platform's take-rate on amount, for any method.
func (c *Calculator) PlatformFee(amount float64) (float64, error) {
	a, err := c.parseAmount(amount)
	if err != nil {
		return 0, err
	}
	return c.platformFee(a).InexactFloat64(), nil
}

// TotalCharge returns what the payer is billed. ACH amounts are returned
// unchanged; card amounts carry the processor fee.
func (c *Calculator) TotalCharge(amount float64, method Method) (float64, error) {
	a, err := c.parseAmount(amount)
	if err != nil {
		return 0, err
	}
	total, err := c.totalCharge(a, method)
	if err != nil {
		return 0, err
	}
	if method == MethodACH {
		return amount, nil
	}
	return total.InexactFloat64(), nil
}

// ChapterReceives returns the chapter's net after every fee that is not
// passed to the payer.
func (c *Calculator) ChapterReceives(amount float64, method Method) (float64, error) {
	a, err := c.parseAmount(amount)
	if err != nil {
		return 0, err
	}
	net, err := c.chapterReceives(a, method)
	if err != nil {
		return 0, err
	}
	return net.InexactFloat64(), nil
}

// Breakdown computes every settlement value for one charge in a single call.
func (c *Calculator) Breakdown(amount float64, method Method) (*Breakdown, error) {
	a, err := c.parseAmount(amount)
	if err != nil {
		return nil, err
	}

	processorFee, err := c.stripeFee(a, method)
	if err != nil {
		return nil, err
	}
	total, err := c.totalCharge(a, method)
	if err != nil {
		return nil, err
	}
	net, err := c.chapterReceives(a, method)
	if err != nil {
		return nil, err
	}

	return &Breakdown{
		Amount:          amount,
		Method:          method,
		ProcessorFee:    processorFee.InexactFloat64(),
		PlatformFee:     c.platformFee(a).InexactFloat64(),
		TotalCharge:     total.InexactFloat64(),
		ChapterReceives: net.InexactFloat64(),
		ApplicationFee:  total.Sub(net).InexactFloat64(),
	}, nil
}

// MeetsMinimum reports whether amount can be charged through the processor.
func (c *Calculator) MeetsMinimum(amount float64) bool {
	if !finite(amount) {
		return false
	}
	return decimal.NewFromFloat(amount).GreaterThanOrEqual(c.schedule.MinCharge)
}

func (c *Calculator) parseAmount(amount float64) (decimal.Decimal, error) {
	if !finite(amount) {
		return decimal.Zero, fmt.Errorf("%w: amount must be finite", apperrors.ErrInvalidAmount)
	}
	if amount < 0 {
		return decimal.Zero, fmt.Errorf("%w: %v is negative", apperrors.ErrInvalidAmount, amount)
	}
	a := decimal.NewFromFloat(amount)
	if a.GreaterThan(c.schedule.MaxAmount) {
		return decimal.Zero, fmt.Errorf("%w: %s > %s", apperrors.ErrRoundingOverflow, a, c.schedule.MaxAmount)
	}
	return a, nil
}

func (c *Calculator) stripeFee(a decimal.Decimal, method Method) (decimal.Decimal, error) {
	switch method {
	case MethodCard:
		// Gross up so that gross - (gross*pct + fixed) == a.
		gross := a.Add(c.schedule.CardFixed).Div(decimal.NewFromInt(1).Sub(c.schedule.CardPercentage))
		return gross.Sub(a).Round(centsPlaces), nil
	case MethodACH:
		return decimal.Min(a.Mul(c.schedule.ACHPercentage), c.schedule.ACHCap).Round(centsPlaces), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrInvalidMethod, string(method))
	}
}

func (c *Calculator) platformFee(a decimal.Decimal) decimal.Decimal {
	return a.Mul(c.schedule.PlatformPercentage).Round(centsPlaces)
}

func (c *Calculator) totalCharge(a decimal.Decimal, method Method) (decimal.Decimal, error) {
	switch method {
	case MethodCard:
		fee, err := c.stripeFee(a, method)
		if err != nil {
			return decimal.Zero, err
		}
		return a.Add(fee).Round(centsPlaces), nil
	case MethodACH:
		return a, nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrInvalidMethod, string(method))
	}
}

func (c *Calculator) chapterReceives(a decimal.Decimal, method Method) (decimal.Decimal, error) {
	switch method {
	case MethodCard:
		return a.Sub(c.platformFee(a)).Round(centsPlaces), nil
	case MethodACH:
		fee, err := c.stripeFee(a, method)
		if err != nil {
			return decimal.Zero, err
		}
		return a.Sub(fee).Sub(c.platformFee(a)).Round(centsPlaces), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrInvalidMethod, string(method))
	}
}

// ToCents converts a major-unit amount to minor units, rounding half-up.
// NaN and infinities convert to 0.
func ToCents(amount float64) int64 {
	if !finite(amount) {
		return 0
	}
	return decimal.NewFromFloat(amount).Shift(centsPlaces).Round(0).IntPart()
}

// FromCents converts minor units back to a major-unit amount.
func FromCents(cents int64) float64 {
	return decimal.New(cents, -centsPlaces).InexactFloat64()
}

func finite(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0)
}
