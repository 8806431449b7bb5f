// Package storage keeps posts, comments and users in postgres through gorm.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // import postgres driver
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xImouto/imoddit/models"
)

var (
	// ErrNotFound - requested row does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate - row violates a unique constraint
	ErrDuplicate = errors.New("record already exists")
)

// ConnOptions - postgres connection settings
type ConnOptions struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConnString - returns libpq connection string
func (o *ConnOptions) ConnString() string {
	return o.connString(false)
}

// DebugConnString - returns connection string safe for logging
func (o *ConnOptions) DebugConnString() string {
	return o.connString(true)
}

func (o *ConnOptions) connString(hidePassword bool) string {
	password := o.Password
	if hidePassword && password != "" {
		password = "***"
	}
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		o.Host, o.Port, o.User, password, o.DBName, sslMode)
}

// Store - gorm backed storage of posts, comments and users
type Store struct {
	db     *gorm.DB
	sqlDB  *sql.DB
	logger *zap.SugaredLogger
}

// Open - opens the database, validates the data source and wraps it with gorm
func Open(ctx context.Context, opts *ConnOptions, log *zap.SugaredLogger) (*Store, error) {
	log.Infof("Opening database: %s", opts.DebugConnString())

	sqlDB, err := sql.Open("postgres", opts.ConnString())
	if err != nil {
		return nil, errors.Wrapf(err, "opening database failed, connString=\"%s\"", opts.DebugConnString())
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "invalid data source")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.New(zap.NewStdLog(log.Desugar()), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, "wrapping database with gorm failed")
	}

	log.Info("Database successfully opened")
	return &Store{db: db, sqlDB: sqlDB, logger: log}, nil
}

// Migrate - creates or alters tables for all models
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}); err != nil {
		return errors.Wrap(err, "migrating schema failed")
	}
	s.logger.Info("Schema migrated")
	return nil
}

// Truncate - removes every row. Used by tests
func (s *Store) Truncate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("TRUNCATE comments, posts, users").Error; err != nil {
		return errors.Wrap(err, "truncating tables failed")
	}
	return nil
}

// Ping - checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

// Close - closes the underlying connection pool
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

func orderedComments(db *gorm.DB) *gorm.DB {
	return db.Order("comments.created_at ASC, comments.id ASC")
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}
