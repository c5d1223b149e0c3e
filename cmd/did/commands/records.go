package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"didsystem/engine/actors"
	"didsystem/state/did"
)

func walletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Print the local wallet and its balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, accts, err := myAccounts()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account: %s\nBalance: %d\nRecord: %s\n", w.Account, program.Balance(w.Account), accts.Record)
			return nil
		},
	}
}

func airdropCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "airdrop [lamports]",
		Short: "Credit lamports to the local wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lamports := actors.MakeOrGetConfig().GetUint64("airdropLamports")
			if len(args) == 1 {
				n, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					return err
				}
				lamports = n
			}
			w, err := actors.MyWallet()
			if err != nil {
				return err
			}
			balance, err := program.Airdrop(w.Account, lamports)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Balance: %d\n", balance)
			return nil
		},
	}
}

func addressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "address [owner]",
		Short: "Derive the DID record address of an owner (default: the local wallet)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := ownerArg(args)
			if err != nil {
				return err
			}
			address, err := program.AddressFor(owner)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), address)
			return nil
		},
	}
}

func createCmd() *cobra.Command {
	var content did.Kind640800
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create the DID record of the local wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content.Username = args[0]
			receipt, err := submit(cmd.Context(), did.KindCreate, content)
			if err != nil {
				return err
			}
			return printJSON(cmd, receipt)
		},
	}
	cmd.Flags().StringVar(&content.Github, "github", "", "github handle or URL")
	cmd.Flags().StringVar(&content.Twitter, "twitter", "", "twitter handle")
	cmd.Flags().StringVar(&content.IpfsHash, "ipfs", "", "IPFS content hash")
	return cmd
}

func updateCmd() *cobra.Command {
	var github, twitter, ipfs string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change github, twitter or ipfs hash. Flags that are not passed are left alone, pass an empty value to clear",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fields did.UpdateArgs
			if cmd.Flags().Changed("github") {
				fields.Github = did.Set(github)
			}
			if cmd.Flags().Changed("twitter") {
				fields.Twitter = did.Set(twitter)
			}
			if cmd.Flags().Changed("ipfs") {
				fields.IpfsHash = did.Set(ipfs)
			}
			receipt, err := submit(cmd.Context(), did.KindUpdate, did.Kind640802{
				Github:   fields.Github.Ptr(),
				Twitter:  fields.Twitter.Ptr(),
				IpfsHash: fields.IpfsHash.Ptr(),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, receipt)
		},
	}
	cmd.Flags().StringVar(&github, "github", "", "github handle or URL")
	cmd.Flags().StringVar(&twitter, "twitter", "", "twitter handle")
	cmd.Flags().StringVar(&ipfs, "ipfs", "", "IPFS content hash")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the DID record of the local wallet and reclaim its rent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			receipt, err := submit(cmd.Context(), did.KindDelete, nil)
			if err != nil {
				return err
			}
			return printJSON(cmd, receipt)
		},
	}
}

func fetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch [address]",
		Short: "Read a DID record (default: the local wallet's record)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var address string
			if len(args) == 1 {
				address = args[0]
			} else {
				_, accts, err := myAccounts()
				if err != nil {
					return err
				}
				address = accts.Record
			}
			r, err := program.Fetch(address)
			if err != nil {
				return err
			}
			return printJSON(cmd, r)
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every DID record on the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, program.Records())
		},
	}
}

func ownerArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	w, err := actors.MyWallet()
	if err != nil {
		return "", err
	}
	return w.Account, nil
}
