package actors

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/nbd-wtf/go-nostr/nip06"
	"github.com/sasha-s/go-deadlock"

	"didsystem/engine/library"
)

var currentWallet library.Wallet
var currentWalletMutex = &deadlock.Mutex{}

// MyWallet returns the current Wallet or creates a new one if there isn't one already
func MyWallet() (library.Wallet, error) {
	currentWalletMutex.Lock()
	defer currentWalletMutex.Unlock()
	if len(currentWallet.PrivateKey) > 0 {
		return currentWallet, nil
	}
	if w, ok := getWalletFromDisk(); ok {
		currentWallet = w
		return currentWallet, nil
	}
	library.LogCLI("Generating a new wallet, write down the seed words if you want to keep it", 4)
	w, err := makeNewWallet()
	if err != nil {
		return library.Wallet{}, err
	}
	currentWallet = w
	if err := persistCurrentWallet(); err != nil {
		return library.Wallet{}, err
	}
	fmt.Printf("\n\n~NEW WALLET~\nPublic Key: %s\nSeed Words: %s\n\n", currentWallet.Account, currentWallet.SeedWords)
	return currentWallet, nil
}

func makeNewWallet() (library.Wallet, error) {
	seedWords, err := nip06.GenerateSeedWords()
	if err != nil {
		return library.Wallet{}, err
	}
	return WalletFromSeedWords(seedWords)
}

// WalletFromSeedWords restores a wallet from its nip06 mnemonic.
func WalletFromSeedWords(seedWords string) (library.Wallet, error) {
	seed := nip06.SeedFromWords(seedWords)
	sk, err := nip06.PrivateKeyFromSeed(seed)
	if err != nil {
		return library.Wallet{}, err
	}
	pk, err := PubKey(sk)
	if err != nil {
		return library.Wallet{}, err
	}
	return library.Wallet{
		PrivateKey: sk,
		SeedWords:  seedWords,
		Account:    pk,
	}, nil
}

// PubKey returns the x-only public key for a hex private key.
func PubKey(privateKey string) (library.Account, error) {
	keyb, err := hex.DecodeString(privateKey)
	if err != nil {
		return "", fmt.Errorf("decoding key from hex: %w", err)
	}
	_, pubkey := btcec.PrivKeyFromBytes(keyb)
	return hex.EncodeToString(schnorr.SerializePubKey(pubkey)), nil
}

func walletFile() string {
	return MakeOrGetConfig().GetString("rootDir") + "wallet.dat"
}

func persistCurrentWallet() error {
	b, err := json.Marshal(currentWallet)
	if err != nil {
		return err
	}
	return os.WriteFile(walletFile(), b, 0600)
}

func getWalletFromDisk() (w library.Wallet, ok bool) {
	file, err := os.ReadFile(walletFile())
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error getting wallet file: %s", err.Error()), 3)
		return library.Wallet{}, false
	}
	err = json.Unmarshal(file, &w)
	if err != nil {
		library.LogCLI(fmt.Sprintf("Error parsing wallet file: %s", err.Error()), 2)
		return library.Wallet{}, false
	}
	return w, true
}
