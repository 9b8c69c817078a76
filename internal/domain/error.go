package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoPriceData     = errors.New("no price data for symbol")
	ErrSweepInProgress = errors.New("another sweep is already running")
	ErrMarketClosed    = errors.New("market is closed")
	ErrReadDatabaseRow = errors.New("failed to read database row")
)
