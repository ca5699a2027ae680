package services

import "errors"

var (
	// ErrUnauthenticated means the bearer credential was missing or did not verify.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden means the caller is authenticated but may not perform the write.
	ErrForbidden = errors.New("forbidden")
)
