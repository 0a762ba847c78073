// Package convert turns an activity amount into an emission amount by
// multiplying it with an emission factor. It has no state and no side
// effects; it is not part of the ledger itself.
package convert

import (
	"errors"
	"math"
)

var (
	// ErrNegative is returned when the activity or factor is negative.
	ErrNegative = errors.New("carbon: negative conversion input")
	// ErrOverflow is returned when activity x factor does not fit in an int64.
	ErrOverflow = errors.New("carbon: conversion overflow")
)

// Emissions returns activity x factor.
func Emissions(activity, factor int64) (int64, error) {
	if activity < 0 || factor < 0 {
		return 0, ErrNegative
	}
	if activity == 0 || factor == 0 {
		return 0, nil
	}
	if activity > math.MaxInt64/factor {
		return 0, ErrOverflow
	}
	return activity * factor, nil
}
