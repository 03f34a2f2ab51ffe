package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type LendingMetrics struct {
	loansIssued      prometheus.Counter
	repayments       prometheus.Counter
	liquidations     prometheus.Counter
	rejections       *prometheus.CounterVec
	collateralLocked prometheus.Gauge
}

var (
	lendingOnce     sync.Once
	lendingRegistry *LendingMetrics
)

func Lending() *LendingMetrics {
	lendingOnce.Do(func() {
		lendingRegistry = &LendingMetrics{
			loansIssued: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lending_loans_issued_total",
				Help: "Count of loans originated.",
			}),
			repayments: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lending_repayments_total",
				Help: "Count of loans repaid in full.",
			}),
			liquidations: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lending_liquidations_total",
				Help: "Count of loans closed by liquidation.",
			}),
			rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lending_rejections_total",
				Help: "Count of rejected lending operations by reason.",
			}, []string{"reason"}),
			collateralLocked: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "lending_collateral_locked",
				Help: "Current platform-wide locked collateral total.",
			}),
		}
		prometheus.MustRegister(
			lendingRegistry.loansIssued,
			lendingRegistry.repayments,
			lendingRegistry.liquidations,
			lendingRegistry.rejections,
			lendingRegistry.collateralLocked,
		)
	})
	return lendingRegistry
}

func (m *LendingMetrics) ObserveLoanIssued() {
	if m == nil {
		return
	}
	m.loansIssued.Inc()
}

func (m *LendingMetrics) ObserveRepayment() {
	if m == nil {
		return
	}
	m.repayments.Inc()
}

func (m *LendingMetrics) ObserveLiquidation() {
	if m == nil {
		return
	}
	m.liquidations.Inc()
}

func (m *LendingMetrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "unknown"
	}
	m.rejections.WithLabelValues(reason).Inc()
}

// SetCollateralLocked records the platform collateral total. Precision beyond
// float64 is acceptable to lose here; the ledger remains the source of truth.
func (m *LendingMetrics) SetCollateralLocked(total *big.Int) {
	if m == nil || total == nil {
		return
	}
	value, _ := new(big.Float).SetInt(total).Float64()
	m.collateralLocked.Set(value)
}
