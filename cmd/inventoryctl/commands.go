package main

import (
	"encoding/json"
	"fmt"
	"time"

	"go-inventory-ledger/internal/seed"
	"go-inventory-ledger/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(openDB()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema migrated")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed privileges, roles, the admin account and reference data",
	RunE: func(cmd *cobra.Command, args []string) error {
		db := openDB()
		if err := database.Migrate(db); err != nil {
			return err
		}
		if err := seed.Run(cmd.Context(), db, seed.Options{
			AdminEmail:    cfg.SeedAdminEmail,
			AdminPassword: cfg.SeedAdminPassword,
		}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Seed complete")
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Issue an API token for an existing user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET must be set")
		}
		resp, err := container(openDB()).Auth.IssueToken(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Token)
		return nil
	},
}

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Print the current low / out-of-stock alert",
	RunE: func(cmd *cobra.Command, args []string) error {
		alert, err := container(openDB()).Alerts.ComputeStockAlert(cmd.Context())
		if err != nil {
			return err
		}
		if alert == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "All products are sufficiently stocked")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), alert)
		return nil
	},
}

var reportDays int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the sales and profit report for the last N days as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		end := time.Now().UTC()
		start := end.AddDate(0, 0, -reportDays)
		report, err := container(openDB()).Reports.SalesReport(cmd.Context(), start, end)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportDays, "days", 30, "number of days to include")
}
