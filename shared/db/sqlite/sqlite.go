package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"

	"github.com/dfryer1193/blogcontext/shared/db"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

type SQLiteConfig struct {
	Path string `env:"SQLITE_DB_PATH" envDefault:"./goblog.db"`
}

// pragmas are applied to every connection the pool opens.
var pragmas = []string{
	"journal_mode(WAL)",   // Write-Ahead Logging for better concurrency
	"synchronous(NORMAL)", // Balance between safety and performance
	"foreign_keys(1)",
	"busy_timeout(5000)", // Wait up to 5 seconds if database is locked
	"cache_size(-64000)", // Use 64MB cache (negative means KB)
}

// SQLiteDB implements the db.Database interface for SQLite
type SQLiteDB struct {
	dbPath string
	db     *sql.DB
}

var _ db.Database = (*SQLiteDB)(nil)

// NewSQLiteDB creates a new SQLite database instance for the configured path
func NewSQLiteDB(cfg *SQLiteConfig) *SQLiteDB {
	return &SQLiteDB{
		dbPath: cfg.Path,
	}
}

// dsn builds a modernc connection string carrying the pragmas.
func (s *SQLiteDB) dsn() string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	q.Set("_time_format", "sqlite")
	// Take the write lock at BEGIN rather than on first write
	q.Set("_txlock", "immediate")
	return "file:" + s.dbPath + "?" + q.Encode()
}

// Connect opens a connection to the SQLite database and applies pending migrations
func (s *SQLiteDB) Connect() error {
	if s.db != nil {
		return fmt.Errorf("database already connected")
	}

	conn, err := sql.Open("sqlite", s.dsn())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = conn
	log.Info().Str("path", s.dbPath).Msg("Connected to SQLite database")

	return nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the underlying *sql.DB instance
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}
