package db

import (
	"database/sql"
)

// Database abstracts the lifecycle of a SQL database connection so the
// application does not depend on a specific driver.
type Database interface {
	Connect() error
	Close() error
	DB() *sql.DB
}
