package fees

import (
	"fmt"

	"greekpay/internal/config"
	apperrors "greekpay/internal/errors"

	"github.com/shopspring/decimal"
)

// Schedule is the set of rates the calculator applies.
type Schedule struct {
	CardPercentage     decimal.Decimal `json:"card_percentage"`
	CardFixed          decimal.Decimal `json:"card_fixed"`
	ACHPercentage      decimal.Decimal `json:"ach_percentage"`
	ACHCap             decimal.Decimal `json:"ach_cap"`
	PlatformPercentage decimal.Decimal `json:"platform_percentage"`
	MaxAmount          decimal.Decimal `json:"max_amount"`
	MinCharge          decimal.Decimal `json:"min_charge"`
}

// DefaultSchedule returns Stripe's standard US pricing with a 1% platform fee.
func DefaultSchedule() Schedule {
	return ScheduleFromConfig(config.DefaultFeeConfig())
}

// ScheduleFromConfig converts configured float rates into decimals.
func ScheduleFromConfig(cfg config.FeeConfig) Schedule {
	return Schedule{
		CardPercentage:     decimal.NewFromFloat(cfg.CardPercentage),
		CardFixed:          decimal.NewFromFloat(cfg.CardFixed),
		ACHPercentage:      decimal.NewFromFloat(cfg.ACHPercentage),
		ACHCap:             decimal.NewFromFloat(cfg.ACHCap),
		PlatformPercentage: decimal.NewFromFloat(cfg.PlatformPercentage),
		MaxAmount:          decimal.NewFromFloat(cfg.MaxAmount),
		MinCharge:          decimal.NewFromFloat(cfg.MinCharge),
	}
}

// Validate checks that every rate is usable. Percentages must lie in [0, 1);
// a card percentage of 1 would make the reverse calculation divide by zero.
func (s Schedule) Validate() error {
	percentages := []struct {
		name  string
		value decimal.Decimal
	}{
		{"card_percentage", s.CardPercentage},
		{"ach_percentage", s.ACHPercentage},
		{"platform_percentage", s.PlatformPercentage},
	}
	for _, p := range percentages {
		if p.value.IsNegative() || p.value.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: %s must be in [0, 1), got %s", apperrors.ErrInvalidFeeSchedule, p.name, p.value)
		}
	}

	amounts := []struct {
		name  string
		value decimal.Decimal
	}{
		{"card_fixed", s.CardFixed},
		{"ach_cap", s.ACHCap},
		{"min_charge", s.MinCharge},
	}
	for _, a := range amounts {
		if a.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative, got %s", apperrors.ErrInvalidFeeSchedule, a.name, a.value)
		}
	}

	if !s.MaxAmount.IsPositive() {
		return fmt.Errorf("%w: max_amount must be positive, got %s", apperrors.ErrInvalidFeeSchedule, s.MaxAmount)
	}
	return nil
}
