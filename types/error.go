package types

import "errors"

var (
	ErrNotImplemented = errors.New("not implemented")

	ErrNotFound = errors.New("not found")

	ErrInvalidAddress = errors.New("invalid address")

	ErrInvalidSeeds = errors.New("invalid seeds")

	ErrNoValidBumpFound = errors.New("unable to find a viable program address bump seed")

	ErrMalformedBuffer = errors.New("malformed account buffer")

	ErrAccountNotFound = errors.New("account not found")

	ErrInvalidAccount = errors.New("invalid account data")

	ErrOffchainUnavailable = errors.New("off-chain metadata unavailable")

	ErrTxNotLand = errors.New("transaction did not land")

	ErrTransactionFailed = errors.New("transaction failed")
)
