package domain

import "errors"

var (
	// ErrInvalidFormat is returned when user text is not a product code.
	ErrInvalidFormat = errors.New("invalid product code format")
	// ErrNotFound covers both an unknown product code and a product without positive active stock.
	ErrNotFound = errors.New("product not found")
	// ErrQuery wraps document store connectivity and execution failures.
	ErrQuery = errors.New("stock query failed")
	// ErrStartup is fatal: the process does not begin serving.
	ErrStartup = errors.New("startup failed")
)
