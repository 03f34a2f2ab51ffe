package lending

// Config captures the host-supplied defaults for the lending module.
type Config struct {
	MinimumCollateralRatioPct uint64 `toml:"MinimumCollateralRatioPct"`
	LiquidationThresholdPct   uint64 `toml:"LiquidationThresholdPct"`
	FeeRatePct                uint64 `toml:"FeeRatePct"`
	// ScaledAdmission switches the loan admission check to the /100 scaled
	// formula instead of the literal one. See Engine.SetScaledAdmission.
	ScaledAdmission bool `toml:"ScaledAdmission"`
}

// DefaultConfig returns the platform parameters applied when the host config
// leaves them unset.
func DefaultConfig() Config {
	return Config{
		MinimumCollateralRatioPct: 150,
		LiquidationThresholdPct:   120,
		FeeRatePct:                1,
	}
}

// EnsureDefaults fills zero-valued ratio parameters from DefaultConfig.
func (c *Config) EnsureDefaults() {
	defaults := DefaultConfig()
	if c.MinimumCollateralRatioPct == 0 {
		c.MinimumCollateralRatioPct = defaults.MinimumCollateralRatioPct
	}
	if c.LiquidationThresholdPct == 0 {
		c.LiquidationThresholdPct = defaults.LiquidationThresholdPct
	}
	if c.FeeRatePct == 0 {
		c.FeeRatePct = defaults.FeeRatePct
	}
}
