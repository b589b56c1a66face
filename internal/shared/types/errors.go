package types

import "errors"

var (
	ErrNoProfilesFound  = errors.New("no AWS profiles found. Please configure AWS CLI first")
	ErrProfileNotFound  = errors.New("specified profile was not found in AWS configuration")
	ErrTooFewMonths     = errors.New("at least two months are required for a comparison")
	ErrTooManyMonths    = errors.New("at most six months can be compared in one report")
	ErrInvalidMonth     = errors.New("months must use the YYYY-MM format")
	ErrClientNameNeeded = errors.New("a client name is required to build the report")
)
