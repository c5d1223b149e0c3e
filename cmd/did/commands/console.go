package commands

import (
	"fmt"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/spf13/cobra"

	"didsystem/engine/actors"
)

func consoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Keyboard driven viewer for the local ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cliListener()
		},
	}
}

// cliListener listens for keypresses and prints parts of the current state until q is pressed.
func cliListener() error {
	fmt.Println("VIEW CURRENT STATE:\ni: identity records\nw: current wallet\nc: config\nC: state change events\nr: replay state hash\nq: to quit")
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			return err
		}
		str := string(r)
		switch str {
		default:
			if k == keyboard.KeyEnter {
				fmt.Println("\n-----------------------------------")
				break
			}
			if k == keyboard.KeyCtrlC || k == keyboard.KeyEsc {
				return nil
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to anything. See console.go for more details.")
		case "q":
			return nil
		case "w":
			w, accts, err := myAccounts()
			if err != nil {
				fmt.Println(err)
				break
			}
			fmt.Printf("Current Wallet: \n%s\nBalance: %d\nRecord: %s\n", w.Account, program.Balance(w.Account), accts.Record)
		case "i":
			for _, record := range program.Records() {
				fmt.Printf("ADDRESS: %s\n%#v\n", record.Address, record)
			}
		case "r":
			fmt.Println(replayed.GetStateHash())
		case "c":
			fmt.Println("CURRENT CONFIG")
			for k, v := range actors.MakeOrGetConfig().AllSettings() {
				fmt.Printf("\nKey: %s; Value: %v\n", k, v)
			}
		case "C":
			fmt.Println("ALL STATE CHANGE EVENTS HANDLED IN THIS SESSION:")
			for _, e := range conducted.History() {
				fmt.Printf("\nID: %s Kind: %d Signed By: %s\nCreated: %s\nTags: %#v\nContent: %s\n", e.ID, e.Kind, e.PubKey, time.Unix(int64(e.CreatedAt), 0).String(), e.Tags, e.Content)
			}
		}
	}
}
