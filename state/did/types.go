package did

import (
	"strings"

	"didsystem/engine/library"
)

// Seed is the namespace salt for DID record addresses. No other record type may use it.
const Seed = "did"

const (
	MaxUsernameLength = 32
	MaxFieldLength    = 64
)

// Record is the identity stored at the derived address of its owner.
type Record struct {
	Address   library.Account `json:"address"`
	Owner     library.Account `json:"owner"`
	Username  string          `json:"username"`
	Github    string          `json:"github"`
	Twitter   string          `json:"twitter"`
	IpfsHash  string          `json:"ipfs_hash"`
	CreatedAt int64           `json:"created_at"`
	UpdatedAt int64           `json:"updated_at"`
	Bump      uint8           `json:"bump"`
}

// Accounts are the accounts a transaction names. Signer is only ever filled in from a
// verified signature, Record and Owner come from the caller and are checked.
type Accounts struct {
	Record library.Account
	Owner  library.Account
	Signer library.Account
}

func (a Accounts) normalized() Accounts {
	return Accounts{
		Record: strings.ToLower(a.Record),
		Owner:  strings.ToLower(a.Owner),
		Signer: strings.ToLower(a.Signer),
	}
}

type CreateArgs struct {
	Username string
	Github   string
	Twitter  string
	IpfsHash string
}

type UpdateArgs struct {
	Github   Field
	Twitter  Field
	IpfsHash Field
}

// Field is an optional update value. The zero Field is unset and leaves the stored value
// alone, Set("") clears it.
type Field struct {
	value string
	set   bool
}

func Set(value string) Field {
	return Field{value: value, set: true}
}

func Unset() Field {
	return Field{}
}

// FieldFromPtr maps nil to unset and anything else to a set value.
func FieldFromPtr(p *string) Field {
	if p == nil {
		return Unset()
	}
	return Set(*p)
}

func (f Field) Get() (string, bool) {
	return f.value, f.set
}

func (f Field) Ptr() *string {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

func (f Field) apply(current string) string {
	if f.set {
		return f.value
	}
	return current
}

// Receipt is the outcome of one applied transaction.
type Receipt struct {
	Kind     int              `json:"kind"`
	Record   *Record          `json:"record,omitempty"`
	Address  library.Account  `json:"address"`
	Lamports library.Lamports `json:"lamports"`
}

//Kind640800 STATUS:DRAFT
//Creates the DID record of the signer. Tags: ["record", <address>], ["owner", <signer>].
type Kind640800 struct {
	Username string `json:"username"`
	Github   string `json:"github"`
	Twitter  string `json:"twitter"`
	IpfsHash string `json:"ipfs_hash"`
}

//Kind640802 STATUS:DRAFT
//Updates the mutable fields of a DID record. A missing or null field is left unchanged,
//an empty string clears it.
type Kind640802 struct {
	Github   *string `json:"github,omitempty"`
	Twitter  *string `json:"twitter,omitempty"`
	IpfsHash *string `json:"ipfs_hash,omitempty"`
}

const (
	KindCreate = 640800
	KindUpdate = 640802
	//Kind640804 STATUS:DRAFT
	//Deletes a DID record and refunds its rent to the owner. Content is empty.
	KindDelete = 640804
)
