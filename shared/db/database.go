package db

import (
	"database/sql"
)

// Database is a connection the server opens at startup, migrates, and
// closes on shutdown. DB exposes the pool repositories and transactions use.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
