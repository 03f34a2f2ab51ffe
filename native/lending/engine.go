package lending

import (
	"math/big"

	"stxlend/crypto"
	nativecommon "stxlend/native/common"
)

const moduleName = "lending"

const (
	// collateralAsset is the only symbol the lending logic prices. STX is
	// recognized by the registry but never financed.
	collateralAsset = "BTC"
	secondaryAsset  = "STX"

	// ticksPerPeriod is the number of logical-clock ticks per accounting
	// period used by interest accrual.
	ticksPerPeriod = 144

	// originationRate is the percentage interest rate fixed on every new loan.
	originationRate = 5

	// maxActiveLoans bounds the per-borrower active loan list.
	maxActiveLoans = 10
)

// maxAssetPrice is the sanity ceiling admin price updates must stay below.
var maxAssetPrice = big.NewInt(1_000_000_000_000)

type engineState interface {
	Config() (*PlatformConfig, error)
	PutConfig(cfg *PlatformConfig) error
	Price(asset string) (*big.Int, error)
	PutPrice(asset string, price *big.Int) error
	Loan(id uint64) (*Loan, error)
	PutLoan(loan *Loan) error
	BorrowerAccount(addr crypto.Address) (*BorrowerAccount, error)
	PutBorrowerAccount(account *BorrowerAccount) error
}

// Engine orchestrates the state transitions for the lending platform: loan
// origination, repayment, admin parameter updates and the liquidation
// procedure. Every public operation is an atomic transaction against the
// wired state: all validation and arithmetic completes before the first
// write, so a failed call leaves state untouched. The engine performs no
// locking; the host serializes calls and supplies caller identity and the
// logical clock explicitly.
type Engine struct {
	state           engineState
	owner           crypto.Address
	params          Config
	clock           uint64
	scaledAdmission bool
	pauses          nativecommon.PauseView
}

// NewEngine constructs a lending engine bound to the designated owner
// identity for admin-gated operations. The config supplies the ratio
// parameters seeded into platform state at initialization.
func NewEngine(owner crypto.Address, params Config) *Engine {
	params.EnsureDefaults()
	return &Engine{owner: owner, params: params, scaledAdmission: params.ScaledAdmission}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) { e.state = state }

func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

// SetClock records the host-supplied logical clock used for interest accrual
// and loan aging. The engine never reads wall-clock time.
func (e *Engine) SetClock(tick uint64) {
	if e == nil {
		return
	}
	e.clock = tick
}

// Clock returns the currently configured logical clock value.
func (e *Engine) Clock() uint64 {
	if e == nil {
		return 0
	}
	return e.clock
}

// SetScaledAdmission switches the loan admission check from the literal
// required = loanAmount * minimumCollateralRatio formula to the /100 scaled
// form that matches the liquidation ratio scale. The literal formula is the
// default.
func (e *Engine) SetScaledAdmission(enabled bool) {
	if e == nil {
		return
	}
	e.scaledAdmission = enabled
}

// Initialize marks the platform live. Only the owner may call it, and only
// once.
func (e *Engine) Initialize(caller crypto.Address) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if !caller.Equal(e.owner) {
		return ErrNotAuthorized
	}
	cfg, err := e.ensureConfig()
	if err != nil {
		return err
	}
	if cfg.Initialized {
		return ErrAlreadyInitialized
	}
	cfg.Initialized = true
	cfg.MinimumCollateralRatio = e.params.MinimumCollateralRatioPct
	cfg.LiquidationThreshold = e.params.LiquidationThresholdPct
	cfg.FeeRate = e.params.FeeRatePct
	return e.state.PutConfig(cfg)
}

// UpdateMinimumCollateralRatio replaces the admission ratio percentage.
func (e *Engine) UpdateMinimumCollateralRatio(caller crypto.Address, ratio uint64) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if !caller.Equal(e.owner) {
		return ErrNotAuthorized
	}
	cfg, err := e.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Initialized {
		return ErrNotInitialized
	}
	if ratio == 0 {
		return ErrInvalidAmount
	}
	cfg.MinimumCollateralRatio = ratio
	return e.state.PutConfig(cfg)
}

// UpdateLiquidationThreshold replaces the liquidation threshold percentage.
func (e *Engine) UpdateLiquidationThreshold(caller crypto.Address, threshold uint64) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if !caller.Equal(e.owner) {
		return ErrNotAuthorized
	}
	cfg, err := e.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Initialized {
		return ErrNotInitialized
	}
	if threshold == 0 {
		return ErrInvalidAmount
	}
	cfg.LiquidationThreshold = threshold
	return e.state.PutConfig(cfg)
}

// UpdatePrice writes the oracle price for a recognized asset symbol.
func (e *Engine) UpdatePrice(caller crypto.Address, asset string, price *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if !caller.Equal(e.owner) {
		return ErrNotAuthorized
	}
	cfg, err := e.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Initialized {
		return ErrNotInitialized
	}
	if asset != collateralAsset && asset != secondaryAsset {
		return ErrInvalidAsset
	}
	if price == nil || price.Sign() <= 0 || price.Cmp(maxAssetPrice) >= 0 {
		return ErrInvalidPrice
	}
	return e.state.PutPrice(asset, new(big.Int).Set(price))
}

// DepositCollateral records a platform-level collateral deposit. Collateral
// is not attached to a specific loan at this point; the total is a protocol
// counter, not a per-account escrow.
func (e *Engine) DepositCollateral(caller crypto.Address, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	cfg, err := e.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Initialized {
		return ErrNotInitialized
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	cfg.TotalCollateralLocked = new(big.Int).Add(cfg.TotalCollateralLocked, amount)
	return e.state.PutConfig(cfg)
}

// RequestLoan originates a new loan for the caller against the stated
// collateral and returns the assigned loan id.
func (e *Engine) RequestLoan(caller crypto.Address, collateralAmount, loanAmount *big.Int) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}
	cfg, err := e.ensureConfig()
	if err != nil {
		return 0, err
	}
	if !cfg.Initialized {
		return 0, ErrNotInitialized
	}
	if collateralAmount == nil || collateralAmount.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}
	if loanAmount == nil || loanAmount.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}

	price, err := e.assetPrice(collateralAsset)
	if err != nil {
		return 0, err
	}

	collateralValue := new(big.Int).Mul(collateralAmount, price)
	required := new(big.Int).Mul(loanAmount, new(big.Int).SetUint64(cfg.MinimumCollateralRatio))
	if e.scaledAdmission {
		required.Quo(required, ratioScale)
	}
	if collateralValue.Cmp(required) < 0 {
		return 0, ErrInsufficientCollateral
	}

	account, err := e.ensureBorrowerAccount(caller)
	if err != nil {
		return 0, err
	}
	if len(account.ActiveLoans) >= maxActiveLoans {
		return 0, ErrInvalidAmount
	}

	loanID := cfg.TotalLoansIssued + 1
	loan := &Loan{
		ID:                loanID,
		Borrower:          caller,
		CollateralAmount:  new(big.Int).Set(collateralAmount),
		LoanAmount:        new(big.Int).Set(loanAmount),
		InterestRate:      originationRate,
		StartClock:        e.clock,
		LastInterestClock: e.clock,
		Status:            StatusActive,
	}
	account.ActiveLoans = append(account.ActiveLoans, loanID)
	cfg.TotalLoansIssued = loanID

	if err := e.state.PutLoan(loan); err != nil {
		return 0, err
	}
	if err := e.state.PutBorrowerAccount(account); err != nil {
		return 0, err
	}
	if err := e.state.PutConfig(cfg); err != nil {
		return 0, err
	}
	return loanID, nil
}

// RepayLoan settles an active loan in full, including interest accrued since
// the last settlement tick. The payment must cover the entire amount due.
func (e *Engine) RepayLoan(caller crypto.Address, loanID uint64, amount *big.Int) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	cfg, err := e.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Initialized {
		return ErrNotInitialized
	}
	if loanID == 0 {
		return ErrInvalidLoanID
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}

	loan, err := e.state.Loan(loanID)
	if err != nil {
		return err
	}
	if loan == nil {
		return ErrLoanNotFound
	}
	if loan.Status != StatusActive {
		return ErrLoanNotActive
	}

	var elapsed uint64
	if e.clock > loan.LastInterestClock {
		elapsed = e.clock - loan.LastInterestClock
	}
	interest := AccruedInterest(loan.LoanAmount, loan.InterestRate, elapsed)
	totalDue := new(big.Int).Add(loan.LoanAmount, interest)
	if amount.Cmp(totalDue) < 0 {
		return ErrInsufficientCollateral
	}

	account, err := e.ensureBorrowerAccount(loan.Borrower)
	if err != nil {
		return err
	}

	loan.Status = StatusRepaid
	loan.LastInterestClock = e.clock
	account.ActiveLoans = removeLoanID(account.ActiveLoans, loanID)
	cfg.TotalCollateralLocked = new(big.Int).Sub(cfg.TotalCollateralLocked, loan.CollateralAmount)

	if err := e.state.PutLoan(loan); err != nil {
		return err
	}
	if err := e.state.PutBorrowerAccount(account); err != nil {
		return err
	}
	return e.state.PutConfig(cfg)
}

// EvaluateLiquidation checks a loan against the liquidation threshold and
// liquidates it when the collateral ratio has fallen to or below it. The
// decision itself never surfaces as an error; only the lookup and price
// preconditions can fail.
func (e *Engine) EvaluateLiquidation(loanID uint64) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	cfg, err := e.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Initialized {
		return ErrNotInitialized
	}
	if loanID == 0 {
		return ErrInvalidLoanID
	}

	loan, err := e.state.Loan(loanID)
	if err != nil {
		return err
	}
	if loan == nil {
		return ErrLoanNotFound
	}
	if loan.Status != StatusActive {
		return ErrLoanNotActive
	}

	price, err := e.assetPrice(collateralAsset)
	if err != nil {
		return err
	}

	ratio := CollateralRatio(loan.CollateralAmount, loan.LoanAmount, price)
	if ratio.Cmp(new(big.Int).SetUint64(cfg.LiquidationThreshold)) > 0 {
		return nil
	}
	return e.liquidate(loan)
}

// liquidate marks the loan liquidated and clears the borrower's entire active
// list. Collateral is seized, not released: TotalCollateralLocked is left
// untouched. The operation is idempotent and moves no counters.
func (e *Engine) liquidate(loan *Loan) error {
	account, err := e.ensureBorrowerAccount(loan.Borrower)
	if err != nil {
		return err
	}

	loan.Status = StatusLiquidated
	// The whole entry is dropped, not just this loan id. Other active loans
	// for the borrower lose their index tracking; their ledger records stay
	// active.
	account.ActiveLoans = nil

	if err := e.state.PutLoan(loan); err != nil {
		return err
	}
	return e.state.PutBorrowerAccount(account)
}

func (e *Engine) ensureConfig() (*PlatformConfig, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	cfg, err := e.state.Config()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &PlatformConfig{}
	}
	if cfg.TotalCollateralLocked == nil {
		cfg.TotalCollateralLocked = big.NewInt(0)
	}
	return cfg, nil
}

func (e *Engine) ensureBorrowerAccount(addr crypto.Address) (*BorrowerAccount, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	account, err := e.state.BorrowerAccount(addr)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account = &BorrowerAccount{Address: addr}
	}
	return account, nil
}

func (e *Engine) assetPrice(asset string) (*big.Int, error) {
	price, err := e.state.Price(asset)
	if err != nil {
		return nil, err
	}
	if price == nil || price.Sign() <= 0 {
		return nil, ErrNotInitialized
	}
	return price, nil
}

func removeLoanID(ids []uint64, loanID uint64) []uint64 {
	out := ids[:0]
	for _, id := range ids {
		if id != loanID {
			out = append(out, id)
		}
	}
	return out
}
