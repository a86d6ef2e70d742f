package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pkg.sigmaverse.dev/bridge/codec"
	"pkg.sigmaverse.dev/bridge/config"
	"pkg.sigmaverse.dev/bridge/gateway"
	"pkg.sigmaverse.dev/bridge/program"
	"pkg.sigmaverse.dev/bridge/types"
)

type queryRunner func(ctx context.Context, p *program.Program, opts []program.QueryOption, args []string) (any, error)

func newQueryCmd(cfg *config.Config) *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Query the Sigmaverse program",
	}
	var origin string
	queryCmd.PersistentFlags().StringVar(&origin, "origin", "", "actor id the query is made as")

	// queryFunc runs f against a freshly built program client and prints its result as JSON.
	queryFunc := func(f queryRunner) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			var opts []program.QueryOption
			if origin != "" {
				id, err := types.ParseActorID(origin)
				if err != nil {
					return err
				}
				opts = append(opts, program.WithOrigin(id))
			}
			p := program.New(gateway.NewClient(cfg.NodeURL), program.WithProgramID(cfg.ProgramActor()))
			res, err := f(cmd.Context(), p, opts, args)
			if err != nil {
				return err
			}
			bz, err := codec.Encode(res)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return err
		}
	}

	queryCmd.AddCommand(
		&cobra.Command{
			Use:   "cybor [token-id]",
			Short: "Show a Cybor",
			Args:  cobra.ExactArgs(1),
			RunE: queryFunc(func(ctx context.Context, p *program.Program, opts []program.QueryOption, args []string) (any, error) {
				id, err := types.ParseTokenID(args[0])
				if err != nil {
					return nil, err
				}
				return p.CyborNft.CyborInfo(ctx, id, opts...)
			}),
		},
		&cobra.Command{
			Use:   "my-cybors",
			Short: "List the Cybors owned by --origin",
			Args:  cobra.NoArgs,
			RunE: queryFunc(func(ctx context.Context, p *program.Program, opts []program.QueryOption, _ []string) (any, error) {
				return p.CyborNft.AllMyCybors(ctx, opts...)
			}),
		},
		&cobra.Command{
			Use:   "template [race]",
			Short: "Show the mint template of a race",
			Args:  cobra.ExactArgs(1),
			RunE: queryFunc(func(ctx context.Context, p *program.Program, opts []program.QueryOption, args []string) (any, error) {
				race, err := types.ParseRace(args[0])
				if err != nil {
					return nil, err
				}
				info, err := p.CyborNft.DebugInfo(ctx, race, opts...)
				if err != nil {
					return nil, err
				}
				return info.Temp, nil
			}),
		},
		&cobra.Command{
			Use:   "imprint [token-id]",
			Short: "Show an Imprint",
			Args:  cobra.ExactArgs(1),
			RunE: queryFunc(func(ctx context.Context, p *program.Program, opts []program.QueryOption, args []string) (any, error) {
				id, err := types.ParseTokenID(args[0])
				if err != nil {
					return nil, err
				}
				return p.ImprintNft.ImprintInfo(ctx, id, opts...)
			}),
		},
		&cobra.Command{
			Use:   "balance [address]",
			Short: "Show the native balance of an account",
			Args:  cobra.ExactArgs(1),
			RunE: queryFunc(func(ctx context.Context, p *program.Program, _ []program.QueryOption, args []string) (any, error) {
				addr, err := types.ParseActorID(args[0])
				if err != nil {
					return nil, err
				}
				balance, err := p.Node().Balance(ctx, addr)
				if err != nil {
					return nil, err
				}
				return map[string]string{
					"balance": balance.String(),
					"display": types.FormatAmount(balance, cfg.Decimals),
				}, nil
			}),
		},
	)
	return queryCmd
}
