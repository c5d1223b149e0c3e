package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"didsystem/engine/actors"
	"didsystem/engine/library"
	"didsystem/messaging/conductor"
	"didsystem/messaging/relays"
	"didsystem/state/did"
	"didsystem/state/replay"
)

var (
	home      string
	publish   bool
	program   *did.Program
	replayed  *replay.Ledger
	conducted *conductor.Conductor
)

func Execute() error {
	return execute(context.Background(), newRootCmd())
}

// execute runs the command and then always stops the conductor and writes the snapshots,
// whether the command failed or not. A rejected transaction leaves the ledger unchanged so
// writing it back is harmless.
func execute(ctx context.Context, root *cobra.Command) error {
	conducted = nil
	err := root.ExecuteContext(ctx)
	if conducted == nil {
		return err
	}
	close(actors.GetTerminateChan())
	actors.GetWaitGroup().Wait()
	conducted = nil
	if perr := persist("did", program.Snapshot); perr != nil && err == nil {
		err = perr
	}
	if perr := persist("replay", replayed.Snapshot); perr != nil && err == nil {
		err = perr
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "did",
		Short:        "Decentralized identity registry",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf := viper.New()
			if home != "" {
				conf.Set("rootDir", strings.TrimSuffix(home, "/")+"/")
			}
			actors.InitConfig(conf)
			actors.SetConfig(conf)
			if cmd.Flags().Changed("publish") {
				conf.Set("publish", publish)
			}

			program = did.NewProgram(actors.ProgramID, did.Rent{
				LamportsPerByteYear: conf.GetUint64("lamportsPerByteYear"),
				ExemptionThreshold:  conf.GetUint64("exemptionThreshold"),
			})
			replayed = replay.New()
			if err := restore("did", program.Restore); err != nil {
				return err
			}
			if err := restore("replay", replayed.Restore); err != nil {
				return err
			}
			actors.SetTerminateChan(make(chan struct{}))
			conducted = conductor.New(program, replayed, actors.GetTerminateChan(), actors.GetWaitGroup())
			conducted.Start()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "data dir (default ~/didsystem)")
	root.PersistentFlags().BoolVar(&publish, "publish", false, "also broadcast transactions to the configured relays")

	root.AddCommand(walletCmd(), airdropCmd(), addressCmd(), createCmd(), updateCmd(), deleteCmd(), fetchCmd(), listCmd(), consoleCmd())
	return root
}

func restore(mind string, into func(io.Reader) error) error {
	f, ok, err := actors.Open(mind, "current")
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	defer f.Close()
	return into(f)
}

func persist(mind string, from func(io.Writer) error) error {
	var b bytes.Buffer
	if err := from(&b); err != nil {
		return err
	}
	return actors.Write(mind, "current", b.Bytes())
}

// myAccounts names the local wallet as owner and signer of its own record.
func myAccounts() (library.Wallet, did.Accounts, error) {
	w, err := actors.MyWallet()
	if err != nil {
		return w, did.Accounts{}, err
	}
	address, err := program.AddressFor(w.Account)
	if err != nil {
		return w, did.Accounts{}, err
	}
	return w, did.Accounts{Record: address, Owner: w.Account, Signer: w.Account}, nil
}

// submit signs a transaction with the local wallet and runs it.
func submit(ctx context.Context, kind int, content any) (did.Receipt, error) {
	w, accts, err := myAccounts()
	if err != nil {
		return did.Receipt{}, err
	}
	e, err := did.NewTransaction(w.PrivateKey, kind, accts, content, nostr.Timestamp(time.Now().Unix()))
	if err != nil {
		return did.Receipt{}, err
	}
	receipt, err := conducted.Submit(ctx, e)
	if err != nil {
		return did.Receipt{}, err
	}
	if actors.MakeOrGetConfig().GetBool("publish") {
		if err := relays.Publish(ctx, actors.MakeOrGetConfig().GetStringSlice("relays"), e); err != nil {
			library.LogCLI(err.Error(), 2)
		}
	}
	return receipt, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
