package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	accounthandlers "github.com/trustvector/scorer/app/modules/account/infrastructure/handlers"
	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	accountmigrations "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories/migrations"
	"github.com/trustvector/scorer/app/modules/registry/infrastructure/export"
	registrydb "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories"
	registrymigrations "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories/migrations"
	"github.com/trustvector/scorer/config"
)

func main() {
	cliApp := &cli.App{
		Name:  "scorerctl",
		Usage: "operational tooling for the scoring registry",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			newMigrateCommand(),
			newExportCommand(),
			newSeedCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB(c *cli.Context) (*bun.DB, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	return bun.NewDB(pgdb, pgdialect.New()), nil
}

func migrators(db *bun.DB) map[string]*migrate.Migrator {
	return map[string]*migrate.Migrator{
		"account":  migrate.NewMigrator(db, accountmigrations.Migrations),
		"registry": migrate.NewMigrator(db, registrymigrations.Migrations),
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					for moduleName, migrator := range migrators(db) {
						fmt.Printf("Initializing migrations for module: %s\n", moduleName)
						if err := migrator.Init(c.Context); err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					for moduleName, migrator := range migrators(db) {
						group, err := migrator.Migrate(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", moduleName)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					for moduleName, migrator := range migrators(db) {
						group, err := migrator.Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", moduleName)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "create_go",
				Usage: "create Go migration for a module",
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					moduleName := c.Args().First()
					migrator, ok := migrators(db)[moduleName]
					if !ok {
						return fmt.Errorf("invalid module name: %s", moduleName)
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					for moduleName, migrator := range migrators(db) {
						ms, err := migrator.MigrationsWithStatus(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
						fmt.Printf("Migrations for module: %s\n", moduleName)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				},
			},
		},
	}
}

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "export a community's scores to an XLSX workbook",
		ArgsUsage: "<community-id> <output.xlsx>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("usage: export <community-id> <output.xlsx>")
			}

			var communityID int64
			if _, err := fmt.Sscanf(c.Args().Get(0), "%d", &communityID); err != nil {
				return fmt.Errorf("invalid community id: %s", c.Args().Get(0))
			}

			db, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			exporter := export.NewExporter(
				&registrydb.ScoreDBImpl{DB: db},
				&accountdb.CommunityDBImpl{DB: db},
				logger,
			)

			return exporter.WriteCommunityScores(c.Context, communityID, c.Args().Get(1))
		},
	}
}

// newSeedCommand provisions a dev account, community and a passport with
// faked stamps, printing the API key it generated.
func newSeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "seed a development account, community and sample passport",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "stamps",
				Value: 5,
				Usage: "number of faked stamps on the sample passport",
			},
		},
		Action: func(c *cli.Context) error {
			db, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()

			return seed(c.Context, db, c.Int("stamps"))
		},
	}
}

func seed(ctx context.Context, db *bun.DB, stampCount int) error {
	accounts := &accountdb.AccountDBImpl{DB: db}
	communities := &accountdb.CommunityDBImpl{DB: db}
	passports := &registrydb.PassportDBImpl{DB: db}
	stamps := &registrydb.StampDBImpl{DB: db}

	apiKey := make([]byte, 24)
	if _, err := rand.Read(apiKey); err != nil {
		return fmt.Errorf("failed to generate API key: %w", err)
	}
	key := hex.EncodeToString(apiKey)

	account := &accountdb.Account{
		Name:       gofakeit.Company(),
		APIKeyHash: accounthandlers.HashAPIKey(key),
		Researcher: true,
	}
	if err := accounts.Create(ctx, account); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	community := &accountdb.Community{
		AccountID:   account.ID,
		Name:        gofakeit.AppName(),
		Description: gofakeit.Sentence(8),
		Weights: map[string]decimal.Decimal{
			"Google":   decimal.NewFromFloat(1.5),
			"Github":   decimal.NewFromFloat(2.25),
			"Twitter":  decimal.NewFromFloat(0.5),
			"Discord":  decimal.NewFromFloat(1.0),
			"Linkedin": decimal.NewFromFloat(1.75),
		},
	}
	if err := communities.Create(ctx, community); err != nil {
		return fmt.Errorf("failed to create community: %w", err)
	}

	address := strings.ToLower(gofakeit.HexUint(160))
	passport, err := passports.Upsert(ctx, address, community.ID)
	if err != nil {
		return fmt.Errorf("failed to create passport: %w", err)
	}

	providers := []string{"Google", "Github", "Twitter", "Discord", "Linkedin"}
	batch := make([]*registrydb.Stamp, 0, stampCount)
	for i := 0; i < stampCount; i++ {
		provider := providers[i%len(providers)]
		credential, err := json.Marshal(map[string]any{
			"type":     []string{"VerifiableCredential"},
			"provider": provider,
			"issuer":   gofakeit.URL(),
			"hash":     gofakeit.UUID(),
		})
		if err != nil {
			return fmt.Errorf("failed to build credential: %w", err)
		}

		batch = append(batch, &registrydb.Stamp{
			PassportID: passport.ID,
			Provider:   provider,
			Hash:       gofakeit.UUID(),
			Credential: credential,
		})
	}
	if err := stamps.CreateBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to create stamps: %w", err)
	}

	fmt.Printf("Account %d (%s) created\n", account.ID, account.Name)
	fmt.Printf("  API key:      %s\n", key)
	fmt.Printf("  Community:    %d (%s)\n", community.ID, community.Name)
	fmt.Printf("  Passport:     %s (%d stamps)\n", address, stampCount)
	return nil
}
