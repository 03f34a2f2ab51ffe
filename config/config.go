package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"stxlend/crypto"
	"stxlend/native/lending"

	"github.com/BurntSushi/toml"
)

// Config is the host-side configuration for a lending engine deployment.
type Config struct {
	// OwnerAddress is the identity allowed to call admin-gated operations.
	OwnerAddress string `toml:"OwnerAddress"`
	DataDir      string `toml:"DataDir"`
	LogFile      string `toml:"LogFile"`
	Env          string `toml:"Env"`

	Lending lending.Config `toml:"lending"`
}

// Load reads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./data"
	}
	cfg.Lending.EnsureDefaults()

	return cfg, nil
}

// Validate checks the host configuration before the engine is wired. The
// threshold ordering is enforced here, at the host boundary; the admin
// gateway itself accepts any positive values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OwnerAddress) == "" {
		return fmt.Errorf("config: OwnerAddress is required")
	}
	if _, err := crypto.DecodeAddress(c.OwnerAddress); err != nil {
		return fmt.Errorf("config: invalid OwnerAddress: %w", err)
	}
	if c.Lending.LiquidationThresholdPct >= c.Lending.MinimumCollateralRatioPct {
		return fmt.Errorf("config: LiquidationThresholdPct (%d) must be below MinimumCollateralRatioPct (%d)",
			c.Lending.LiquidationThresholdPct, c.Lending.MinimumCollateralRatioPct)
	}
	return nil
}

// Owner returns the decoded owner identity. Validate must have passed.
func (c *Config) Owner() (crypto.Address, error) {
	return crypto.DecodeAddress(c.OwnerAddress)
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir: "./data",
		Lending: lending.DefaultConfig(),
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
