package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskease/internal/domain"
	"taskease/internal/infra"
)

func migrateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			if err := infra.Migrate(ctx, e.pool, e.logger); err != nil {
				return err
			}
			fmt.Println("schema up to date")
			return nil
		},
	}
}

func grantCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "grant <user-id> <amount>",
		Short: "Add credits to a user's balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("amount must be an integer: %w", err)
			}
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			rec, err := e.ledger.Grant(ctx, args[0], amount)
			if err != nil {
				return err
			}
			printRecord(rec)
			return nil
		},
	}
}

func setCreditsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "set-credits <user-id> <amount>",
		Short: "Overwrite a user's balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("amount must be an integer: %w", err)
			}
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			rec, err := e.ledger.SetCredits(ctx, args[0], amount)
			if err != nil {
				return err
			}
			printRecord(rec)
			return nil
		},
	}
}

func subscribeCmd(e *env) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "subscribe <user-id>",
		Short: "Open a one-month subscription window, or close it with --off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			rec, err := e.ledger.SetSubscription(ctx, args[0], !off)
			if err != nil {
				return err
			}
			printRecord(rec)
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "end the subscription instead")
	return cmd
}

func listUsersCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List ledger records, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := e.ctx(cmd)
			defer cancel()
			records, err := e.ledger.List(ctx, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USER\tEMAIL\tCREDITS\tSUBSCRIBED UNTIL\tUPDATED")
			for _, rec := range records {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", rec.UserID, rec.Email, rec.Credits, subscriptionLabel(rec), rec.LastUpdated.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "maximum rows")
	return cmd
}

func printRecord(rec *domain.CreditRecord) {
	fmt.Printf("%s credits=%d subscription=%s\n", rec.UserID, rec.Credits, subscriptionLabel(*rec))
}

func subscriptionLabel(rec domain.CreditRecord) string {
	if !rec.SubscriptionActive(time.Now()) {
		return "-"
	}
	return rec.SubscriptionEnds.Format(time.RFC3339)
}
