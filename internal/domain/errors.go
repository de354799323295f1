package domain

import "errors"

var (
	ErrConfig           = errors.New("configuration error")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrSensorNotFound   = errors.New("sensor not found")
	ErrNothingDeleted   = errors.New("nothing deleted")
	// ErrCapacityExceeded is only produced by bounded id allocation, which
	// this store does not use; it is kept so the HTTP mapping stays total.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrInvalidInput     = errors.New("invalid input")
)
