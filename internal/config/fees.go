package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// FeeConfig holds the processor and platform rates used by the fee calculator.
// Percentages are fractions (0.029 means 2.9%), amounts are USD major units.
type FeeConfig struct {
	CardPercentage     float64 `yaml:"card_percentage"`
	CardFixed          float64 `yaml:"card_fixed"`
	ACHPercentage      float64 `yaml:"ach_percentage"`
	ACHCap             float64 `yaml:"ach_cap"`
	PlatformPercentage float64 `yaml:"platform_percentage"`
	MaxAmount          float64 `yaml:"max_amount"`
	MinCharge          float64 `yaml:"min_charge"`
}

// DefaultFeeConfig returns Stripe's standard US pricing and a 1% platform fee.
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		CardPercentage:     0.029,
		CardFixed:          0.30,
		ACHPercentage:      0.008,
		ACHCap:             5.00,
		PlatformPercentage: 0.01,
		MaxAmount:          999999.99,
		MinCharge:          0.50,
	}
}

// LoadFeeConfig resolves the fee configuration: defaults, then the YAML file
// named by FEE_SCHEDULE_FILE, then individual FEE_* environment overrides.
func LoadFeeConfig() (FeeConfig, error) {
	cfg := DefaultFeeConfig()

	if path := GetEnv("FEE_SCHEDULE_FILE", ""); path != "" {
		if err := LoadFeeConfigFile(path, &cfg); err != nil {
			return cfg, err
		}
		log.Printf("Fee schedule loaded from %s", path)
	}

	cfg.CardPercentage = GetFloatEnv("FEE_CARD_PERCENTAGE", cfg.CardPercentage)
	cfg.CardFixed = GetFloatEnv("FEE_CARD_FIXED", cfg.CardFixed)
	cfg.ACHPercentage = GetFloatEnv("FEE_ACH_PERCENTAGE", cfg.ACHPercentage)
	cfg.ACHCap = GetFloatEnv("FEE_ACH_CAP", cfg.ACHCap)
	cfg.PlatformPercentage = GetFloatEnv("FEE_PLATFORM_PERCENTAGE", cfg.PlatformPercentage)
	cfg.MaxAmount = GetFloatEnv("FEE_MAX_AMOUNT", cfg.MaxAmount)
	cfg.MinCharge = GetFloatEnv("FEE_MIN_CHARGE", cfg.MinCharge)

	return cfg, nil
}

// LoadFeeConfigFile overlays the values present in a YAML file onto cfg.
// Keys missing from the file keep their current value.
func LoadFeeConfigFile(path string, cfg *FeeConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fee schedule: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse fee schedule %s: %w", path, err)
	}
	return nil
}
