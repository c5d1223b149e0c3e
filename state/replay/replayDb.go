package replay

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"didsystem/engine/library"
)

// Mapped is the ID of every applied transaction and the account that signed it.
type Mapped map[library.Sha256]library.Account

type db struct {
	data  Mapped
	mutex *deadlock.Mutex
}

// Ledger remembers applied transactions so none can be applied twice.
type Ledger struct {
	state db
}

func New() *Ledger {
	return &Ledger{state: db{
		data:  make(Mapped),
		mutex: &deadlock.Mutex{},
	}}
}

// Seen reports whether a transaction with this ID has already been applied.
func (l *Ledger) Seen(id library.Sha256) bool {
	l.state.mutex.Lock()
	defer l.state.mutex.Unlock()
	_, ok := l.state.data[id]
	return ok
}

// Mark records an applied transaction. It fails if the ID is already present.
func (l *Ledger) Mark(id library.Sha256, signer library.Account) error {
	l.state.mutex.Lock()
	defer l.state.mutex.Unlock()
	if _, ok := l.state.data[id]; ok {
		return fmt.Errorf("transaction %s has already been applied", id)
	}
	l.state.data[id] = signer
	return nil
}

func (l *Ledger) GetMap() Mapped {
	l.state.mutex.Lock()
	defer l.state.mutex.Unlock()
	m := make(Mapped, len(l.state.data))
	for id, signer := range l.state.data {
		m[id] = signer
	}
	return m
}

// GetStateHash is the sha256 of every applied transaction ID in sorted order.
func (l *Ledger) GetStateHash() library.Sha256 {
	l.state.mutex.Lock()
	defer l.state.mutex.Unlock()
	ids := maps.Keys(l.state.data)
	slices.Sort(ids)
	b := bytes.Buffer{}
	for _, id := range ids {
		decoded, err := hex.DecodeString(id)
		if err != nil {
			library.LogCLI(err, 1)
			continue
		}
		b.Write(decoded)
	}
	return library.Sha256Sum(b.Bytes())
}

func (l *Ledger) Snapshot(w io.Writer) error {
	l.state.mutex.Lock()
	defer l.state.mutex.Unlock()
	return json.NewEncoder(w).Encode(l.state.data)
}

func (l *Ledger) Restore(r io.Reader) error {
	data := make(Mapped)
	if err := json.NewDecoder(r).Decode(&data); err != nil && err != io.EOF {
		return fmt.Errorf("restoring replay state: %w", err)
	}
	l.state.mutex.Lock()
	defer l.state.mutex.Unlock()
	l.state.data = data
	return nil
}
