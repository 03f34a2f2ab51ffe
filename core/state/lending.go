package state

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"stxlend/crypto"
	"stxlend/native/lending"
	"stxlend/storage"
)

// Key layout for the lending state inside the backing key-value store.
const (
	configKey      = "lend/config"
	pricePrefix    = "lend/price/"
	loanPrefix     = "lend/loan/"
	borrowerPrefix = "lend/user/"
)

// KVState persists the lending engine state as RLP-encoded records over a
// generic key-value database. It satisfies the engine's state interface.
type KVState struct {
	db storage.Database
}

// NewKVState wraps the given database as lending engine state.
func NewKVState(db storage.Database) *KVState {
	return &KVState{db: db}
}

type storedConfig struct {
	Initialized            bool
	MinimumCollateralRatio uint64
	LiquidationThreshold   uint64
	FeeRate                uint64
	TotalCollateralLocked  *big.Int
	TotalLoansIssued       uint64
}

type storedLoan struct {
	ID                uint64
	Borrower          []byte
	CollateralAmount  *big.Int
	LoanAmount        *big.Int
	InterestRate      uint64
	StartClock        uint64
	LastInterestClock uint64
	Status            string
}

type storedBorrower struct {
	Address     []byte
	ActiveLoans []uint64
}

func (s *KVState) Config() (*lending.PlatformConfig, error) {
	raw, err := s.db.Get([]byte(configKey))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec storedConfig
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode platform config: %w", err)
	}
	return &lending.PlatformConfig{
		Initialized:            rec.Initialized,
		MinimumCollateralRatio: rec.MinimumCollateralRatio,
		LiquidationThreshold:   rec.LiquidationThreshold,
		FeeRate:                rec.FeeRate,
		TotalCollateralLocked:  rec.TotalCollateralLocked,
		TotalLoansIssued:       rec.TotalLoansIssued,
	}, nil
}

func (s *KVState) PutConfig(cfg *lending.PlatformConfig) error {
	if cfg == nil {
		return fmt.Errorf("nil platform config")
	}
	rec := storedConfig{
		Initialized:            cfg.Initialized,
		MinimumCollateralRatio: cfg.MinimumCollateralRatio,
		LiquidationThreshold:   cfg.LiquidationThreshold,
		FeeRate:                cfg.FeeRate,
		TotalCollateralLocked:  cfg.TotalCollateralLocked,
		TotalLoansIssued:       cfg.TotalLoansIssued,
	}
	if rec.TotalCollateralLocked == nil {
		rec.TotalCollateralLocked = big.NewInt(0)
	}
	raw, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return fmt.Errorf("encode platform config: %w", err)
	}
	return s.db.Put([]byte(configKey), raw)
}

func (s *KVState) Price(asset string) (*big.Int, error) {
	raw, err := s.db.Get([]byte(pricePrefix + asset))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	price := new(big.Int)
	if err := rlp.DecodeBytes(raw, price); err != nil {
		return nil, fmt.Errorf("decode price for %s: %w", asset, err)
	}
	return price, nil
}

func (s *KVState) PutPrice(asset string, price *big.Int) error {
	if price == nil {
		return fmt.Errorf("nil price for %s", asset)
	}
	raw, err := rlp.EncodeToBytes(price)
	if err != nil {
		return fmt.Errorf("encode price for %s: %w", asset, err)
	}
	return s.db.Put([]byte(pricePrefix+asset), raw)
}

func (s *KVState) Loan(id uint64) (*lending.Loan, error) {
	raw, err := s.db.Get(loanKey(id))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec storedLoan
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode loan %d: %w", id, err)
	}
	return &lending.Loan{
		ID:                rec.ID,
		Borrower:          crypto.NewAddress(crypto.STXPrefix, rec.Borrower),
		CollateralAmount:  rec.CollateralAmount,
		LoanAmount:        rec.LoanAmount,
		InterestRate:      rec.InterestRate,
		StartClock:        rec.StartClock,
		LastInterestClock: rec.LastInterestClock,
		Status:            lending.LoanStatus(rec.Status),
	}, nil
}

func (s *KVState) PutLoan(loan *lending.Loan) error {
	if loan == nil {
		return fmt.Errorf("nil loan")
	}
	rec := storedLoan{
		ID:                loan.ID,
		Borrower:          loan.Borrower.Bytes(),
		CollateralAmount:  loan.CollateralAmount,
		LoanAmount:        loan.LoanAmount,
		InterestRate:      loan.InterestRate,
		StartClock:        loan.StartClock,
		LastInterestClock: loan.LastInterestClock,
		Status:            string(loan.Status),
	}
	raw, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return fmt.Errorf("encode loan %d: %w", loan.ID, err)
	}
	return s.db.Put(loanKey(loan.ID), raw)
}

func (s *KVState) BorrowerAccount(addr crypto.Address) (*lending.BorrowerAccount, error) {
	raw, err := s.db.Get(borrowerKey(addr))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec storedBorrower
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode borrower account: %w", err)
	}
	return &lending.BorrowerAccount{
		Address:     crypto.NewAddress(crypto.STXPrefix, rec.Address),
		ActiveLoans: rec.ActiveLoans,
	}, nil
}

func (s *KVState) PutBorrowerAccount(account *lending.BorrowerAccount) error {
	if account == nil {
		return fmt.Errorf("nil borrower account")
	}
	rec := storedBorrower{
		Address:     account.Address.Bytes(),
		ActiveLoans: account.ActiveLoans,
	}
	raw, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return fmt.Errorf("encode borrower account: %w", err)
	}
	return s.db.Put(borrowerKey(account.Address), raw)
}

func loanKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%d", loanPrefix, id))
}

func borrowerKey(addr crypto.Address) []byte {
	return append([]byte(borrowerPrefix), addr.Bytes()...)
}
