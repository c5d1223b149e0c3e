// Package commands defines the did CLI.
//
// Commands
//
//   - wallet    Print the local wallet and its balance
//   - airdrop   Credit lamports to the local wallet
//   - address   Derive the DID record address of an owner
//   - create    Create the DID record of the local wallet
//   - update    Change github, twitter or ipfs hash
//   - delete    Delete the record and reclaim its rent
//   - fetch     Read any record by address
//   - list      Print every record on the ledger
//   - console   Keyboard driven state viewer
//
// Every command restores the ledger snapshot from the data directory, runs its
// transactions through the conductor and writes the snapshot back.
package commands
