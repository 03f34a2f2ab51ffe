package lending

import "math/big"

var (
	ratioScale = big.NewInt(100)
	// ticksPerPeriod is the logical-clock grid for one accounting period.
	ticksPerPeriodInt = big.NewInt(ticksPerPeriod)
)

// CollateralRatio computes (collateral * price * 100) / loanAmount with
// truncating integer division. The caller must guarantee loanAmount > 0.
func CollateralRatio(collateralAmount, loanAmount, price *big.Int) *big.Int {
	value := new(big.Int).Mul(collateralAmount, price)
	value.Mul(value, ratioScale)
	return value.Quo(value, loanAmount)
}

// AccruedInterest computes the interest owed on principal at the given
// percentage rate over elapsedTicks logical ticks. The per-tick amount is
// truncated before multiplying by the elapsed ticks; the two-step truncation
// is part of the accounting contract and must not be reordered.
func AccruedInterest(principal *big.Int, rate uint64, elapsedTicks uint64) *big.Int {
	if principal == nil || principal.Sign() <= 0 || rate == 0 || elapsedTicks == 0 {
		return big.NewInt(0)
	}
	perTick := new(big.Int).Mul(principal, new(big.Int).SetUint64(rate))
	denom := new(big.Int).Mul(ratioScale, ticksPerPeriodInt)
	perTick.Quo(perTick, denom)
	return perTick.Mul(perTick, new(big.Int).SetUint64(elapsedTicks))
}
