package library

type Wallet struct {
	PrivateKey string
	SeedWords  string
	Account    Account
}

// Account is a hex encoded 32 byte x-only public key, or a program derived address.
type Account = string

type Sha256 = string

type Lamports = uint64
