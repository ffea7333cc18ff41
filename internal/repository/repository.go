package repository

import (
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

// Repository bundles the raw connection with its goqu wrapper so feature
// repositories can share one pool.
type Repository struct {
	DB            *sql.DB
	GoquDBWrapper *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:            db,
		GoquDBWrapper: goqu.New("postgres", db),
	}
}

// WithTransaction runs fn inside a transaction, rolling back on error or
// panic. Unit-ID allocation depends on this to hold its row lock across the
// counter read-modify-write.
func WithTransaction(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return
}
