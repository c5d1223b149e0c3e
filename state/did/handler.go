package did

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	"github.com/nbd-wtf/go-nostr"

	"didsystem/engine/library"
)

// HandleEvent applies one signed transaction. The signer is the event pubkey, and only
// after the signature and ID have been checked.
func (p *Program) HandleEvent(event nostr.Event) (Receipt, error) {
	if event.GetID() != event.ID {
		return Receipt{}, invalidTransaction(nil, "event %s has the wrong ID", event.ID)
	}
	if ok, err := event.CheckSignature(); !ok {
		return Receipt{}, invalidTransaction(err, "event %s has an invalid signature", event.ID)
	}
	accts, err := accountsFromTags(event)
	if err != nil {
		return Receipt{}, err
	}
	switch event.Kind {
	case KindCreate:
		return p.handle640800(event, accts)
	case KindUpdate:
		return p.handle640802(event, accts)
	case KindDelete:
		return p.Delete(accts)
	default:
		return Receipt{}, invalidTransaction(nil, "I am the DID program, event %s was sent to me but I don't know how to handle kind %d", event.ID, event.Kind)
	}
}

func accountsFromTags(event nostr.Event) (Accounts, error) {
	record, ok := library.GetFirstTag(event, "record")
	if !ok {
		return Accounts{}, invalidTransaction(nil, "event %s does not name a record account", event.ID)
	}
	owner, ok := library.GetFirstTag(event, "owner")
	if !ok {
		return Accounts{}, invalidTransaction(nil, "event %s does not name an owner account", event.ID)
	}
	return Accounts{
		Record: record,
		Owner:  owner,
		Signer: event.PubKey,
	}, nil
}

func (p *Program) handle640800(event nostr.Event, accts Accounts) (Receipt, error) {
	var unmarshalled Kind640800
	if err := json.Unmarshal([]byte(event.Content), &unmarshalled); err != nil {
		return Receipt{}, invalidTransaction(err, "event %s content", event.ID)
	}
	r, err := p.Create(accts, CreateArgs{
		Username: unmarshalled.Username,
		Github:   unmarshalled.Github,
		Twitter:  unmarshalled.Twitter,
		IpfsHash: unmarshalled.IpfsHash,
	})
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{Kind: KindCreate, Record: &r, Address: r.Address, Lamports: p.Rent.MinimumBalance(Space)}, nil
}

func (p *Program) handle640802(event nostr.Event, accts Accounts) (Receipt, error) {
	var unmarshalled Kind640802
	if err := json.Unmarshal([]byte(event.Content), &unmarshalled); err != nil {
		return Receipt{}, invalidTransaction(err, "event %s content", event.ID)
	}
	r, err := p.Update(accts, UpdateArgs{
		Github:   FieldFromPtr(unmarshalled.Github),
		Twitter:  FieldFromPtr(unmarshalled.Twitter),
		IpfsHash: FieldFromPtr(unmarshalled.IpfsHash),
	})
	if err != nil {
		return Receipt{}, err
	}
	return Receipt{Kind: KindUpdate, Record: &r, Address: r.Address}, nil
}

// NewTransaction builds and signs a transaction for the given kind and accounts. Every
// transaction carries a random nonce so that repeating an operation gives a new ID.
func NewTransaction(privateKey string, kind int, accts Accounts, content any, createdAt nostr.Timestamp) (nostr.Event, error) {
	nonce := make([]byte, 8)
	if _, err := rand.Read(nonce); err != nil {
		return nostr.Event{}, err
	}
	var c []byte
	if content != nil {
		var err error
		if c, err = json.Marshal(content); err != nil {
			return nostr.Event{}, err
		}
	}
	e := nostr.Event{
		PubKey:    accts.Signer,
		CreatedAt: createdAt,
		Kind:      kind,
		Tags:      nostr.Tags{nostr.Tag{"record", accts.Record}, nostr.Tag{"owner", accts.Owner}, nostr.Tag{"nonce", hex.EncodeToString(nonce)}},
		Content:   string(c),
	}
	if err := e.Sign(privateKey); err != nil {
		return nostr.Event{}, err
	}
	e.ID = e.GetID()
	return e, nil
}
