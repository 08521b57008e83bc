package store

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the services react to
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation reports a unique constraint failure
func IsUniqueViolation(err error) bool { return pqCode(err) == codeUniqueViolation }

// IsForeignKeyViolation reports a referential integrity failure
func IsForeignKeyViolation(err error) bool { return pqCode(err) == codeForeignKeyViolation }

// IsCheckViolation reports a CHECK constraint failure
func IsCheckViolation(err error) bool { return pqCode(err) == codeCheckViolation }

// IsInvalidText reports a malformed literal, e.g. a non-UUID id
func IsInvalidText(err error) bool { return pqCode(err) == codeInvalidText }
