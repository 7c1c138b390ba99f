package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	accountdb "github.com/trustvector/scorer/app/modules/account/infrastructure/repositories"
	registrydb "github.com/trustvector/scorer/app/modules/registry/infrastructure/repositories"
	"github.com/trustvector/scorer/config"
)

// DBService aggregates the repository implementations over one bun.DB pool.
type DBService struct {
	AccountDB   *accountdb.AccountDBImpl
	CommunityDB *accountdb.CommunityDBImpl
	NonceDB     *accountdb.NonceDBImpl
	PassportDB  *registrydb.PassportDBImpl
	StampDB     *registrydb.StampDBImpl
	ScoreDB     *registrydb.ScoreDBImpl

	db *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// Close closes the underlying connection pool.
func (dbService *DBService) Close() error {
	return dbService.db.Close()
}

// NewBunDBService initializes a new DBService with the provided Postgres configuration.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	db.RegisterModel(
		(*accountdb.Account)(nil),
		(*accountdb.Community)(nil),
		(*accountdb.Nonce)(nil),
		(*registrydb.Passport)(nil),
		(*registrydb.Stamp)(nil),
		(*registrydb.Score)(nil),
	)

	logger.InfoContext(ctx, "database service initialized")

	return &DBService{
		AccountDB:   &accountdb.AccountDBImpl{DB: db},
		CommunityDB: &accountdb.CommunityDBImpl{DB: db},
		NonceDB:     &accountdb.NonceDBImpl{DB: db},
		PassportDB:  &registrydb.PassportDBImpl{DB: db},
		StampDB:     &registrydb.StampDBImpl{DB: db},
		ScoreDB:     &registrydb.ScoreDBImpl{DB: db},
		db:          db,
	}, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
