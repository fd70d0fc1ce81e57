package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// Common database errors
var (
	ErrNotFound = errors.New("record not found")
)

// MapNotFound converts pgx.ErrNoRows into ErrNotFound and passes other errors through.
func MapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
