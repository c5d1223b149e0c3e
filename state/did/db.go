package did

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"didsystem/engine/library"
)

// Account is one slot on the ledger. Wallets have no Owner, record accounts are owned by
// the program that created them.
type Account struct {
	Lamports library.Lamports `json:"lamports"`
	Owner    library.Account  `json:"owner,omitempty"`
	Data     []byte           `json:"data,omitempty"`
}

// Rent sizes the reclaimable deposit that backs an allocation.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  uint64
}

// accountStorageOverhead is charged on top of the data length of every account.
const accountStorageOverhead = 128

func DefaultRent() Rent {
	return Rent{LamportsPerByteYear: 3480, ExemptionThreshold: 2}
}

func (r Rent) MinimumBalance(dataLen int) library.Lamports {
	return (accountStorageOverhead + uint64(dataLen)) * r.LamportsPerByteYear * r.ExemptionThreshold
}

type db struct {
	data  map[library.Account]Account
	mutex *deadlock.Mutex
}

func newDb() db {
	return db{
		data:  make(map[library.Account]Account),
		mutex: &deadlock.Mutex{},
	}
}

func (s *db) get(address library.Account) (Account, bool) {
	a, ok := s.data[address]
	return a, ok
}

// commit writes every changed account at once. An account with no lamports and no data is
// removed from the ledger.
func (s *db) commit(changes map[library.Account]Account) {
	for address, a := range changes {
		if a.Lamports == 0 && len(a.Data) == 0 {
			delete(s.data, address)
			continue
		}
		s.data[address] = a
	}
}

// Airdrop credits lamports to a wallet, creating it if needed.
func (p *Program) Airdrop(account library.Account, lamports library.Lamports) (library.Lamports, error) {
	if _, err := library.DecodeAccount(account); err != nil {
		return 0, newError(CodeInvalidTransaction, "airdrop target: %s", err)
	}
	p.state.mutex.Lock()
	defer p.state.mutex.Unlock()
	a, _ := p.state.get(account)
	if a.Lamports+lamports < a.Lamports {
		return 0, newError(CodeInvalidTransaction, "airdrop overflows the balance of %s", account)
	}
	a.Lamports += lamports
	p.state.commit(map[library.Account]Account{account: a})
	return a.Lamports, nil
}

func (p *Program) Balance(account library.Account) library.Lamports {
	p.state.mutex.Lock()
	defer p.state.mutex.Unlock()
	a, _ := p.state.get(account)
	return a.Lamports
}

// GetAccount returns the raw ledger slot at address.
func (p *Program) GetAccount(address library.Account) (Account, bool) {
	p.state.mutex.Lock()
	defer p.state.mutex.Unlock()
	a, ok := p.state.get(address)
	if ok {
		a.Data = slices.Clone(a.Data)
	}
	return a, ok
}

// Records lists every DID record on the ledger, ordered by address.
func (p *Program) Records() []Record {
	p.state.mutex.Lock()
	defer p.state.mutex.Unlock()
	addresses := maps.Keys(p.state.data)
	slices.Sort(addresses)
	records := make([]Record, 0)
	for _, address := range addresses {
		a := p.state.data[address]
		if a.Owner != p.ID {
			continue
		}
		r, err := Decode(address, a.Data)
		if err != nil {
			library.LogCLI(err.Error(), 2)
			continue
		}
		records = append(records, r)
	}
	return records
}

// Snapshot writes the whole ledger as JSON.
func (p *Program) Snapshot(w io.Writer) error {
	p.state.mutex.Lock()
	defer p.state.mutex.Unlock()
	return json.NewEncoder(w).Encode(p.state.data)
}

// Restore replaces the ledger with a snapshot. An empty reader leaves an empty ledger.
func (p *Program) Restore(r io.Reader) error {
	data := make(map[library.Account]Account)
	if err := json.NewDecoder(r).Decode(&data); err != nil && err != io.EOF {
		return fmt.Errorf("restoring ledger: %w", err)
	}
	p.state.mutex.Lock()
	defer p.state.mutex.Unlock()
	p.state.data = data
	return nil
}
