package lending

import (
	"math/big"
	"testing"

	"stxlend/crypto"
)

type mockEngineState struct {
	config    *PlatformConfig
	prices    map[string]*big.Int
	loans     map[uint64]*Loan
	borrowers map[string]*BorrowerAccount
}

func newMockEngineState() *mockEngineState {
	return &mockEngineState{
		prices:    make(map[string]*big.Int),
		loans:     make(map[uint64]*Loan),
		borrowers: make(map[string]*BorrowerAccount),
	}
}

func (m *mockEngineState) key(addr crypto.Address) string {
	return string(addr.Bytes())
}

func (m *mockEngineState) Config() (*PlatformConfig, error) {
	return m.config, nil
}

func (m *mockEngineState) PutConfig(cfg *PlatformConfig) error {
	m.config = cfg
	return nil
}

func (m *mockEngineState) Price(asset string) (*big.Int, error) {
	return m.prices[asset], nil
}

func (m *mockEngineState) PutPrice(asset string, price *big.Int) error {
	m.prices[asset] = price
	return nil
}

func (m *mockEngineState) Loan(id uint64) (*Loan, error) {
	return m.loans[id], nil
}

func (m *mockEngineState) PutLoan(loan *Loan) error {
	if loan == nil {
		return nil
	}
	m.loans[loan.ID] = loan
	return nil
}

func (m *mockEngineState) BorrowerAccount(addr crypto.Address) (*BorrowerAccount, error) {
	return m.borrowers[m.key(addr)], nil
}

func (m *mockEngineState) PutBorrowerAccount(account *BorrowerAccount) error {
	if account == nil {
		return nil
	}
	m.borrowers[m.key(account.Address)] = account
	return nil
}

func makeAddress(suffix byte) crypto.Address {
	raw := make([]byte, crypto.AddressLength)
	raw[len(raw)-1] = suffix
	return crypto.NewAddress(crypto.STXPrefix, raw)
}

// newInitializedEngine wires an engine with default parameters, an
// initialized platform and a BTC price of 50_000 at logical clock 100.
func newInitializedEngine(t *testing.T, owner crypto.Address) (*Engine, *mockEngineState) {
	t.Helper()
	engine := NewEngine(owner, Config{})
	state := newMockEngineState()
	engine.SetState(state)
	engine.SetClock(100)
	if err := engine.Initialize(owner); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := engine.UpdatePrice(owner, "BTC", big.NewInt(50_000)); err != nil {
		t.Fatalf("set BTC price: %v", err)
	}
	return engine, state
}
