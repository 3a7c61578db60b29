package cltypes

import "errors"

var (
	// ErrLayoutMismatch is returned when an object is packed against a
	// layout that belongs to a different record type.
	ErrLayoutMismatch = errors.New("layout does not match the packed object type")

	// ErrBufferTooSmall is returned when a supplied target buffer cannot
	// hold the record.
	ErrBufferTooSmall = errors.New("target buffer too small for record")
)
