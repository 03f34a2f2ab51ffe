package lending

import (
	"math/big"

	"stxlend/crypto"
)

// LoanStatus enumerates the lifecycle states of a loan record. A loan starts
// active and moves to exactly one of the terminal states.
type LoanStatus string

const (
	StatusActive     LoanStatus = "active"
	StatusRepaid     LoanStatus = "repaid"
	StatusLiquidated LoanStatus = "liquidated"
)

// Terminal reports whether the status permits no further transitions.
func (s LoanStatus) Terminal() bool {
	return s == StatusRepaid || s == StatusLiquidated
}

// PlatformConfig is the singleton parameter record for the lending platform.
// It is mutated only through the admin gateway after a one-time initialization.
type PlatformConfig struct {
	// Initialized guards all lending operations; once set it is never reset.
	Initialized bool
	// MinimumCollateralRatio is the admission ratio expressed as a percentage
	// (150 means 150%).
	MinimumCollateralRatio uint64
	// LiquidationThreshold is the percentage ratio at or below which a
	// position becomes unsafe.
	LiquidationThreshold uint64
	// FeeRate is a reserved percentage parameter, carried but never applied.
	FeeRate uint64
	// TotalCollateralLocked aggregates deposited collateral platform-wide. It
	// increases on deposit and decreases only when repayment releases a loan's
	// collateral, never on liquidation.
	TotalCollateralLocked *big.Int
	// TotalLoansIssued counts originated loans and doubles as the loan id
	// sequence source.
	TotalLoansIssued uint64
}

// Clone returns a deep copy of the platform configuration.
func (c *PlatformConfig) Clone() *PlatformConfig {
	if c == nil {
		return nil
	}
	clone := &PlatformConfig{
		Initialized:            c.Initialized,
		MinimumCollateralRatio: c.MinimumCollateralRatio,
		LiquidationThreshold:   c.LiquidationThreshold,
		FeeRate:                c.FeeRate,
		TotalLoansIssued:       c.TotalLoansIssued,
	}
	if c.TotalCollateralLocked != nil {
		clone.TotalCollateralLocked = new(big.Int).Set(c.TotalCollateralLocked)
	}
	return clone
}

// Loan captures a single collateralized position. Borrower, amounts, rate and
// start clock are immutable after origination; only LastInterestClock and
// Status may change.
type Loan struct {
	ID               uint64
	Borrower         crypto.Address
	CollateralAmount *big.Int
	LoanAmount       *big.Int
	// InterestRate is the percentage rate fixed at origination.
	InterestRate uint64
	// StartClock is the logical tick at origination.
	StartClock uint64
	// LastInterestClock is the logical tick interest was last settled at.
	LastInterestClock uint64
	Status            LoanStatus
}

// Clone returns a deep copy of the loan record.
func (l *Loan) Clone() *Loan {
	if l == nil {
		return nil
	}
	clone := &Loan{
		ID:                l.ID,
		Borrower:          l.Borrower,
		InterestRate:      l.InterestRate,
		StartClock:        l.StartClock,
		LastInterestClock: l.LastInterestClock,
		Status:            l.Status,
	}
	if l.CollateralAmount != nil {
		clone.CollateralAmount = new(big.Int).Set(l.CollateralAmount)
	}
	if l.LoanAmount != nil {
		clone.LoanAmount = new(big.Int).Set(l.LoanAmount)
	}
	return clone
}

// BorrowerAccount tracks the bounded list of a borrower's active loan ids in
// insertion order.
type BorrowerAccount struct {
	Address     crypto.Address
	ActiveLoans []uint64
}

// Clone returns a deep copy of the borrower account.
func (b *BorrowerAccount) Clone() *BorrowerAccount {
	if b == nil {
		return nil
	}
	clone := &BorrowerAccount{Address: b.Address}
	if b.ActiveLoans != nil {
		clone.ActiveLoans = append([]uint64(nil), b.ActiveLoans...)
	}
	return clone
}

// PlatformStats is the read-only projection of the platform totals and
// parameters.
type PlatformStats struct {
	Initialized            bool
	MinimumCollateralRatio uint64
	LiquidationThreshold   uint64
	FeeRate                uint64
	TotalCollateralLocked  *big.Int
	TotalLoansIssued       uint64
}
