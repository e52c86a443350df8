package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskease/internal/infra/credentials"
)

func addAdminCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add-admin <email>",
		Short: "Add an email to the admin allowlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			if err := e.gate.Promote(ctx, args[0], operator); err != nil {
				return err
			}
			admins, err := e.gate.List(ctx)
			if err != nil {
				return err
			}
			for _, a := range admins {
				fmt.Printf("%s\tadded by %q\n", a.Email, a.AddedBy)
			}
			return nil
		},
	}
}

func providerKeyCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider-key",
		Short: "Manage decomposition provider API keys stored in the database",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <openai|gemini> <key>",
			Short: "Store a provider key; environment variables still take precedence",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := e.ctx(cmd)
				defer cancel()
				if err := credentials.NewStore(e.runner).SetKey(ctx, args[0], args[1], operator); err != nil {
					return err
				}
				fmt.Printf("%s key stored (%s)\n", args[0], credentials.Mask(args[1]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show <openai|gemini>",
			Short: "Show the masked stored key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := e.ctx(cmd)
				defer cancel()
				key, err := credentials.NewStore(e.runner).Key(ctx, args[0])
				if err != nil {
					return err
				}
				if key == "" {
					fmt.Printf("no %s key stored\n", args[0])
					return nil
				}
				fmt.Println(credentials.Mask(key))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear <openai|gemini>",
			Short: "Remove a stored key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx, cancel := e.ctx(cmd)
				defer cancel()
				return credentials.NewStore(e.runner).DeleteKey(ctx, args[0])
			},
		},
	)
	return cmd
}
