package repositories

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrStoreUnavailable marks a failed round trip to a backing store. Safe to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
