package did

import (
	"fmt"
	"strings"
	"time"

	"didsystem/engine/library"
)

// Program owns the DID records on one ledger. All handlers take the ledger lock for their
// whole run and write their effects in a single commit, so a rejected transaction leaves
// no trace.
type Program struct {
	ID    library.Account
	Rent  Rent
	Clock func() int64
	state db
}

func NewProgram(id library.Account, rent Rent) *Program {
	return &Program{
		ID:    id,
		Rent:  rent,
		Clock: func() int64 { return time.Now().Unix() },
		state: newDb(),
	}
}

// DeriveAddress returns the record address and bump for an owner key.
func (p *Program) DeriveAddress(owner [32]byte) (library.Account, uint8) {
	address, bump, err := library.FindProgramAddress([][]byte{[]byte(Seed), owner[:]}, p.ID)
	if err != nil {
		// unreachable for a valid program ID: every bump would have to land on the curve
		panic(err)
	}
	return address, bump
}

// AddressFor is DeriveAddress for a hex encoded owner key.
func (p *Program) AddressFor(owner library.Account) (library.Account, error) {
	key, err := library.DecodeAccount(owner)
	if err != nil {
		return "", err
	}
	address, _ := p.DeriveAddress(key)
	return address, nil
}

// expectedAddress parses the owner key and checks the caller supplied record address
// against the derived one.
func (p *Program) expectedAddress(accts Accounts) (library.Account, uint8, error) {
	owner, err := library.DecodeAccount(accts.Owner)
	if err != nil {
		return "", 0, newError(CodeInvalidTransaction, "owner: %s", err)
	}
	address, bump := p.DeriveAddress(owner)
	if address != accts.Record {
		return "", 0, &Error{
			Code:    CodeAddressMismatch,
			Message: fmt.Sprintf("record %s is not the derived address %s for owner %s", accts.Record, address, accts.Owner),
		}
	}
	return address, bump, nil
}

// Create allocates and funds the signer's DID record.
func (p *Program) Create(accts Accounts, args CreateArgs) (Record, error) {
	accts = accts.normalized()
	address, bump, err := p.expectedAddress(accts)
	if err != nil {
		return Record{}, err
	}
	if accts.Signer != accts.Owner {
		return Record{}, newError(CodeUnauthorized, "signer %s cannot create a record for %s", accts.Signer, accts.Owner)
	}
	p.state.mutex.Lock()
	defer p.state.mutex.Unlock()
	existing, exists := p.state.get(address)
	if exists && len(existing.Data) > 0 {
		return Record{}, newError(CodeAlreadyExists, "owner %s already has a record at %s", accts.Owner, address)
	}
	if verr := ValidateCreate(args); verr != nil {
		return Record{}, verr
	}
	payer, _ := p.state.get(accts.Signer)
	// lamports already sitting at the address count towards the deposit
	rent := p.Rent.MinimumBalance(Space)
	var due library.Lamports
	if existing.Lamports < rent {
		due = rent - existing.Lamports
	}
	if payer.Lamports < due {
		return Record{}, newError(CodeInsufficientFunds, "rent is %d lamports, %s has %d", due, accts.Signer, payer.Lamports)
	}
	now := p.Clock()
	r := Record{
		Address:   address,
		Owner:     accts.Owner,
		Username:  args.Username,
		Github:    args.Github,
		Twitter:   args.Twitter,
		IpfsHash:  args.IpfsHash,
		CreatedAt: now,
		UpdatedAt: now,
		Bump:      bump,
	}
	data, err := Encode(r)
	if err != nil {
		return Record{}, newError(CodeValidationFailed, "%s", err)
	}
	payer.Lamports -= due
	p.state.commit(map[library.Account]Account{
		accts.Signer: payer,
		address:      {Lamports: existing.Lamports + due, Owner: p.ID, Data: data},
	})
	library.LogCLI(fmt.Sprintf("DID created for user: %s", accts.Signer), 4)
	return r, nil
}

// Update replaces the fields that are set in args and refreshes UpdatedAt.
func (p *Program) Update(accts Accounts, args UpdateArgs) (Record, error) {
	accts = accts.normalized()
	p.state.mutex.Lock()
	defer p.state.mutex.Unlock()
	stored, slot, err := p.loadAuthorized(accts)
	if err != nil {
		return Record{}, err
	}
	if verr := ValidateUpdate(args); verr != nil {
		return Record{}, verr
	}
	r := stored
	r.Github = args.Github.apply(r.Github)
	r.Twitter = args.Twitter.apply(r.Twitter)
	r.IpfsHash = args.IpfsHash.apply(r.IpfsHash)
	r.UpdatedAt = p.Clock()
	if r.UpdatedAt < r.CreatedAt {
		r.UpdatedAt = r.CreatedAt
	}
	data, err := Encode(r)
	if err != nil {
		return Record{}, newError(CodeValidationFailed, "%s", err)
	}
	slot.Data = data
	p.state.commit(map[library.Account]Account{r.Address: slot})
	library.LogCLI(fmt.Sprintf("DID updated for user: %s", accts.Signer), 4)
	return r, nil
}

// Delete frees the record and returns every lamport it holds to the owner.
func (p *Program) Delete(accts Accounts) (Receipt, error) {
	accts = accts.normalized()
	p.state.mutex.Lock()
	defer p.state.mutex.Unlock()
	stored, slot, err := p.loadAuthorized(accts)
	if err != nil {
		return Receipt{}, err
	}
	owner, _ := p.state.get(stored.Owner)
	if owner.Lamports+slot.Lamports < owner.Lamports {
		return Receipt{}, newError(CodeInvalidTransaction, "refund overflows the balance of %s", stored.Owner)
	}
	owner.Lamports += slot.Lamports
	p.state.commit(map[library.Account]Account{
		stored.Owner:   owner,
		stored.Address: {},
	})
	library.LogCLI(fmt.Sprintf("DID deleted for user: %s", accts.Signer), 4)
	return Receipt{Kind: KindDelete, Address: stored.Address, Lamports: slot.Lamports}, nil
}

// Fetch reads a record. Anyone may read any record.
func (p *Program) Fetch(address library.Account) (Record, error) {
	p.state.mutex.Lock()
	defer p.state.mutex.Unlock()
	r, _, err := p.load(strings.ToLower(address))
	return r, err
}

func (p *Program) load(address library.Account) (Record, Account, error) {
	slot, ok := p.state.get(address)
	if !ok || slot.Owner != p.ID || len(slot.Data) == 0 {
		return Record{}, Account{}, newError(CodeNotFound, "no record at %s", address)
	}
	r, err := Decode(address, slot.Data)
	if err != nil {
		return Record{}, Account{}, newError(CodeNotFound, "%s", err)
	}
	return r, slot, nil
}

// loadAuthorized finds the record named by accts and runs it through authorize. The
// caller must hold the ledger lock.
func (p *Program) loadAuthorized(accts Accounts) (Record, Account, error) {
	address, _, err := p.expectedAddress(accts)
	if err != nil {
		return Record{}, Account{}, err
	}
	stored, slot, err := p.load(address)
	if err != nil {
		return Record{}, Account{}, err
	}
	if err := p.authorize(stored, accts); err != nil {
		return Record{}, Account{}, err
	}
	return stored, slot, nil
}

// authorize compares the signer with the owner persisted in the record. The owner named
// by the caller is only accepted if it is that same stored owner.
func (p *Program) authorize(stored Record, accts Accounts) error {
	if stored.Owner != accts.Owner {
		return newError(CodeUnauthorized, "record %s is owned by %s, not %s", stored.Address, stored.Owner, accts.Owner)
	}
	if stored.Owner != accts.Signer {
		return newError(CodeUnauthorized, "signer %s does not own record %s", accts.Signer, stored.Address)
	}
	// the stored bump must still reproduce the address
	owner, err := library.DecodeAccount(stored.Owner)
	if err != nil {
		return newError(CodeUnauthorized, "stored owner: %s", err)
	}
	address, err := library.CreateProgramAddress([][]byte{[]byte(Seed), owner[:], {stored.Bump}}, p.ID)
	if err != nil || address != stored.Address {
		return newError(CodeAddressMismatch, "stored bump %d does not reproduce %s", stored.Bump, stored.Address)
	}
	return nil
}
