package main

import (
	"log"

	"go-inventory-ledger/internal/app"
	"go-inventory-ledger/internal/config"
	"go-inventory-ledger/pkg/database"
	"go-inventory-ledger/pkg/jwt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "inventoryctl",
	Short: "Maintenance commands for the inventory ledger",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeDBs()
	},
}

var (
	cfg *config.Config

	// connect is replaced in tests.
	connect = func() *gorm.DB { return database.ConnectDB(cfg.DB) }
	opened  []*gorm.DB
)

func openDB() *gorm.DB {
	db := connect()
	opened = append(opened, db)
	return db
}

func closeDBs() {
	for _, db := range opened {
		sqlDB, err := db.DB()
		if err != nil {
			continue
		}
		if err := sqlDB.Close(); err != nil {
			log.Printf("close database: %v", err)
		}
	}
	opened = nil
}

// container wires services without Redis; CLI reads go straight to the DB.
func container(db *gorm.DB) *app.Container {
	return app.Build(app.Deps{
		DB:              db,
		Tokens:          jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL),
		RestockOnReject: cfg.RestockOnReject,
	})
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, tokenCmd, alertsCmd, reportCmd)
}
