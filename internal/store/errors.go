package store

import (
	"fmt"

	"github.com/ashureev/propuesta/internal/shared"
)

// StorageError reports that the datastore could not be reached or a write
// could not be committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Contended reports whether the failure was caused by another writer holding
// the database lock.
func (e *StorageError) Contended() bool {
	return shared.IsSQLiteConflictError(e.Err)
}
