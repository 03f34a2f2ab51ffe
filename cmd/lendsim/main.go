package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"

	"stxlend/config"
	"stxlend/core/state"
	"stxlend/crypto"
	"stxlend/native/lending"
	"stxlend/observability/logging"
	"stxlend/observability/metrics"
	"stxlend/storage"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	backend := flag.String("db", "mem", "State backend: mem or leveldb")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup("lendsim", cfg.Env, cfg.LogFile)

	if cfg.OwnerAddress == "" {
		// A fresh default config carries no owner; run the scenario with a
		// synthetic one.
		cfg.OwnerAddress = makeAddress(0x01).String()
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "err", err)
		os.Exit(1)
	}
	owner, err := cfg.Owner()
	if err != nil {
		logger.Error("invalid owner address", "err", err)
		os.Exit(1)
	}

	var db storage.Database
	switch *backend {
	case "leveldb":
		ldb, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "lending"))
		if err != nil {
			logger.Error("failed to open leveldb", "err", err)
			os.Exit(1)
		}
		db = ldb
	default:
		db = storage.NewMemDB()
	}
	defer db.Close()

	engine := lending.NewEngine(owner, cfg.Lending)
	engine.SetState(state.NewKVState(db))

	if err := run(engine, owner, logger); err != nil {
		logger.Error("scenario failed", "err", err)
		os.Exit(1)
	}
	dumpMetrics(logger)
}

// run drives a deterministic lending day: initialization, pricing, an
// originate/accrue/repay cycle and a price-drop liquidation sweep.
func run(engine *lending.Engine, owner crypto.Address, logger *slog.Logger) error {
	m := metrics.Lending()
	borrower := makeAddress(0x42)

	engine.SetClock(100)
	if err := engine.Initialize(owner); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if err := engine.UpdatePrice(owner, "BTC", big.NewInt(50_000)); err != nil {
		return fmt.Errorf("set BTC price: %w", err)
	}
	logger.Info("platform initialized", "assets", engine.ValidAssets())

	if err := engine.DepositCollateral(borrower, big.NewInt(3)); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	loanID, err := engine.RequestLoan(borrower, big.NewInt(2), big.NewInt(500))
	if err != nil {
		return fmt.Errorf("request loan: %w", err)
	}
	m.ObserveLoanIssued()
	logger.Info("loan originated", "loan_id", loanID, "borrower", borrower.String())

	// Two accounting periods pass before settlement.
	engine.SetClock(100 + 2*144)
	if err := engine.RepayLoan(borrower, loanID, big.NewInt(600)); err != nil {
		return fmt.Errorf("repay loan: %w", err)
	}
	m.ObserveRepayment()
	logger.Info("loan repaid", "loan_id", loanID)

	secondID, err := engine.RequestLoan(borrower, big.NewInt(1), big.NewInt(300))
	if err != nil {
		return fmt.Errorf("request second loan: %w", err)
	}
	m.ObserveLoanIssued()

	// Collateral price collapses; the sweep liquidates the position.
	engine.SetClock(100 + 3*144)
	if err := engine.UpdatePrice(owner, "BTC", big.NewInt(300)); err != nil {
		return fmt.Errorf("drop BTC price: %w", err)
	}
	if err := engine.EvaluateLiquidation(secondID); err != nil {
		return fmt.Errorf("evaluate liquidation: %w", err)
	}
	details, err := engine.LoanDetails(secondID)
	if err != nil {
		return fmt.Errorf("loan details: %w", err)
	}
	if details.Status == lending.StatusLiquidated {
		m.ObserveLiquidation()
	}
	logger.Info("liquidation sweep complete", "loan_id", secondID, "status", string(details.Status))

	stats, err := engine.PlatformStats()
	if err != nil {
		return fmt.Errorf("platform stats: %w", err)
	}
	m.SetCollateralLocked(stats.TotalCollateralLocked)
	logger.Info("platform stats",
		"loans_issued", stats.TotalLoansIssued,
		"collateral_locked", stats.TotalCollateralLocked.String(),
		"min_ratio", stats.MinimumCollateralRatio,
		"liq_threshold", stats.LiquidationThreshold,
	)
	return nil
}

func dumpMetrics(logger *slog.Logger) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		logger.Error("gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				logger.Info("metric", "name", mf.GetName(), "value", metric.GetCounter().GetValue())
			case metric.GetGauge() != nil:
				logger.Info("metric", "name", mf.GetName(), "value", metric.GetGauge().GetValue())
			}
		}
	}
}

func makeAddress(suffix byte) crypto.Address {
	raw := make([]byte, crypto.AddressLength)
	raw[len(raw)-1] = suffix
	return crypto.NewAddress(crypto.STXPrefix, raw)
}
