package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
	"github.com/vsinha/blacksmith/pkg/domain/repositories"
)

// Postgres SQLSTATE codes mapped onto domain errors
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// Config holds connection settings
type Config struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// Store is a Postgres-backed catalog.
//
// Outside a transaction every call uses the pool. Inside WithinTx the Store
// is bound to one connection, which cannot run statements concurrently, so
// calls are serialised through mu while the estimator fans out.
type Store struct {
	db   *gorm.DB
	mu   *sync.Mutex
	inTx bool
}

var _ repositories.Catalog = (*Store)(nil)

// Open connects, applies migrations and configures the pool
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := Migrate(ctx, cfg.DSN); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	logger.Info("postgres catalog ready", zap.Int("max_open_conns", cfg.MaxOpenConns))
	return NewStore(db), nil
}

// NewStore wraps an open gorm connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Close releases the pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// WithinTx runs fn inside a database transaction. Nested calls join the
// outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Catalog) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx, mu: &sync.Mutex{}, inTx: true})
	})
	if err != nil {
		return translate(err, "transaction")
	}
	return nil
}

// conn returns a session for one statement and the matching unlock
func (s *Store) conn(ctx context.Context) (*gorm.DB, func()) {
	if s.mu == nil {
		return s.db.WithContext(ctx), func() {}
	}
	s.mu.Lock()
	return s.db.WithContext(ctx), s.mu.Unlock
}

// atomic runs a multi-statement write in the current transaction, or in a
// fresh one when the store is not bound to a transaction.
func (s *Store) atomic(ctx context.Context, fn func(db *gorm.DB) error) error {
	db, unlock := s.conn(ctx)
	defer unlock()
	if s.inTx {
		return fn(db)
	}
	return db.Transaction(fn)
}

// translate maps driver errors onto the domain error taxonomy. Errors that
// already carry a domain category pass through unchanged.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	for _, domain := range []error{
		entities.ErrNotFound,
		entities.ErrInvalidRequest,
		entities.ErrConflict,
		entities.ErrCyclicBOM,
		entities.ErrInsufficientStock,
		entities.ErrStorage,
	} {
		if errors.Is(err, domain) {
			return err
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, entities.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation, codeForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.Detail, entities.ErrConflict)
		case codeCheckViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, entities.ErrInsufficientStock)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, entities.ErrStorage, err)
}
