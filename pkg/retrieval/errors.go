package retrieval

import (
	"errors"
	"fmt"
)

// StoreError marks a failed graph store query. It is the only condition under
// which Retrieve surfaces an error instead of degrading: without the store no
// facts can be matched at all.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("graph store query failed: %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError reports whether err stems from a graph store failure.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
