package state_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"stxlend/core/state"
	"stxlend/crypto"
	"stxlend/native/lending"
	"stxlend/storage"
)

func testAddress(suffix byte) crypto.Address {
	raw := make([]byte, crypto.AddressLength)
	raw[len(raw)-1] = suffix
	return crypto.NewAddress(crypto.STXPrefix, raw)
}

func TestKVStateEmptyLookups(t *testing.T) {
	kv := state.NewKVState(storage.NewMemDB())

	cfg, err := kv.Config()
	require.NoError(t, err)
	require.Nil(t, cfg)

	price, err := kv.Price("BTC")
	require.NoError(t, err)
	require.Nil(t, price)

	loan, err := kv.Loan(1)
	require.NoError(t, err)
	require.Nil(t, loan)

	account, err := kv.BorrowerAccount(testAddress(0x01))
	require.NoError(t, err)
	require.Nil(t, account)
}

func TestKVStateConfigRoundTrip(t *testing.T) {
	kv := state.NewKVState(storage.NewMemDB())

	in := &lending.PlatformConfig{
		Initialized:            true,
		MinimumCollateralRatio: 150,
		LiquidationThreshold:   120,
		FeeRate:                1,
		TotalCollateralLocked:  big.NewInt(42),
		TotalLoansIssued:       7,
	}
	require.NoError(t, kv.PutConfig(in))

	out, err := kv.Config()
	require.NoError(t, err)
	require.Equal(t, in.Initialized, out.Initialized)
	require.Equal(t, in.MinimumCollateralRatio, out.MinimumCollateralRatio)
	require.Equal(t, in.LiquidationThreshold, out.LiquidationThreshold)
	require.Equal(t, in.FeeRate, out.FeeRate)
	require.Zero(t, in.TotalCollateralLocked.Cmp(out.TotalCollateralLocked))
	require.Equal(t, in.TotalLoansIssued, out.TotalLoansIssued)
}

func TestKVStateLoanAndBorrowerRoundTrip(t *testing.T) {
	kv := state.NewKVState(storage.NewMemDB())
	borrower := testAddress(0x42)

	loan := &lending.Loan{
		ID:                3,
		Borrower:          borrower,
		CollateralAmount:  big.NewInt(2),
		LoanAmount:        big.NewInt(500),
		InterestRate:      5,
		StartClock:        100,
		LastInterestClock: 244,
		Status:            lending.StatusActive,
	}
	require.NoError(t, kv.PutLoan(loan))

	got, err := kv.Loan(3)
	require.NoError(t, err)
	require.Equal(t, loan.ID, got.ID)
	require.True(t, loan.Borrower.Equal(got.Borrower))
	require.Zero(t, loan.CollateralAmount.Cmp(got.CollateralAmount))
	require.Zero(t, loan.LoanAmount.Cmp(got.LoanAmount))
	require.Equal(t, loan.Status, got.Status)
	require.Equal(t, loan.LastInterestClock, got.LastInterestClock)

	account := &lending.BorrowerAccount{Address: borrower, ActiveLoans: []uint64{3, 5, 9}}
	require.NoError(t, kv.PutBorrowerAccount(account))

	gotAccount, err := kv.BorrowerAccount(borrower)
	require.NoError(t, err)
	require.True(t, account.Address.Equal(gotAccount.Address))
	require.Equal(t, account.ActiveLoans, gotAccount.ActiveLoans)
}

func TestKVStatePriceRoundTrip(t *testing.T) {
	kv := state.NewKVState(storage.NewMemDB())

	require.NoError(t, kv.PutPrice("BTC", big.NewInt(50_000)))
	price, err := kv.Price("BTC")
	require.NoError(t, err)
	require.Zero(t, price.Cmp(big.NewInt(50_000)))

	// Symbols are independent keys.
	other, err := kv.Price("STX")
	require.NoError(t, err)
	require.Nil(t, other)
}

func TestKVStateDrivesEngine(t *testing.T) {
	owner := testAddress(0x01)
	borrower := testAddress(0x02)

	kv := state.NewKVState(storage.NewMemDB())
	engine := lending.NewEngine(owner, lending.Config{})
	engine.SetState(kv)
	engine.SetClock(100)

	require.NoError(t, engine.Initialize(owner))
	require.NoError(t, engine.UpdatePrice(owner, "BTC", big.NewInt(50_000)))
	require.NoError(t, engine.DepositCollateral(borrower, big.NewInt(2)))

	loanID, err := engine.RequestLoan(borrower, big.NewInt(2), big.NewInt(500))
	require.NoError(t, err)

	// A second engine over the same store observes the persisted position.
	reloaded := lending.NewEngine(owner, lending.Config{})
	reloaded.SetState(kv)
	reloaded.SetClock(100 + 144)

	details, err := reloaded.LoanDetails(loanID)
	require.NoError(t, err)
	require.Equal(t, lending.StatusActive, details.Status)

	require.NoError(t, reloaded.RepayLoan(borrower, loanID, big.NewInt(500)))

	details, err = reloaded.LoanDetails(loanID)
	require.NoError(t, err)
	require.Equal(t, lending.StatusRepaid, details.Status)
}
