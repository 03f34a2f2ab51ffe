package lending

import (
	"math/big"

	"stxlend/crypto"
)

// LoanDetails returns a copy of the loan record for the given id.
func (e *Engine) LoanDetails(loanID uint64) (*Loan, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	loan, err := e.state.Loan(loanID)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	return loan.Clone(), nil
}

// UserLoans returns the borrower's active loan ids in insertion order. A
// borrower with no entry yields an empty list.
func (e *Engine) UserLoans(addr crypto.Address) ([]uint64, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	account, err := e.state.BorrowerAccount(addr)
	if err != nil {
		return nil, err
	}
	if account == nil || len(account.ActiveLoans) == 0 {
		return []uint64{}, nil
	}
	return append([]uint64(nil), account.ActiveLoans...), nil
}

// PlatformStats projects the platform totals and parameters.
func (e *Engine) PlatformStats() (*PlatformStats, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	cfg, err := e.ensureConfig()
	if err != nil {
		return nil, err
	}
	return &PlatformStats{
		Initialized:            cfg.Initialized,
		MinimumCollateralRatio: cfg.MinimumCollateralRatio,
		LiquidationThreshold:   cfg.LiquidationThreshold,
		FeeRate:                cfg.FeeRate,
		TotalCollateralLocked:  new(big.Int).Set(cfg.TotalCollateralLocked),
		TotalLoansIssued:       cfg.TotalLoansIssued,
	}, nil
}

// ValidAssets lists the symbols the price registry recognizes.
func (e *Engine) ValidAssets() []string {
	return []string{collateralAsset, secondaryAsset}
}
