package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"artisan-market/internal/apperr"
	"artisan-market/internal/store"
	"artisan-market/pkg/config"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Options configures the integrity rules the services enforce
type Options struct {
	DeletePolicy string
	Uniqueness   config.Uniqueness
	BcryptCost   int
}

func (o Options) cascade() bool {
	return o.DeletePolicy == config.DeleteCascade
}

var errNoRows = sql.ErrNoRows

// validID reports whether id can be a primary key. Anything else cannot exist.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// withTx runs fn in a transaction, rolling back when it fails
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// updateBuilder assembles "UPDATE t SET updated_at = NOW(), a = $1 ..." statements
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *updateBuilder) build(table, id, returning string) (string, []any) {
	query := "UPDATE " + table + " SET updated_at = NOW()"
	if len(b.sets) > 0 {
		query += ", " + strings.Join(b.sets, ", ")
	}
	args := append(b.args, id)
	query += fmt.Sprintf(" WHERE id = $%d RETURNING %s", len(args), returning)
	return query, args
}

// translate maps driver errors onto application kinds
func translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NewNotFound("%s", notFound)
	case store.IsUniqueViolation(err):
		return apperr.NewConflict("record violates a uniqueness constraint")
	case store.IsForeignKeyViolation(err):
		return apperr.NewConflict("record is still referenced or references a missing record")
	case store.IsCheckViolation(err):
		return apperr.NewBadRequest("record violates a check constraint")
	case store.IsInvalidText(err):
		return apperr.NewNotFound("%s", notFound)
	}
	return err
}

// reference turns a missing parent into a BadRequest naming the offending field
func reference(err error, field, id string) error {
	if apperr.KindOf(err) == apperr.NotFound {
		return apperr.NewBadRequest("%s %q does not reference an existing record", field, id)
	}
	return err
}

// secondaryKeyTaken reports whether another row already uses value in column.
// The key stays advisory-locked until tx ends, so writers of the same value
// run their check and write one at a time.
func secondaryKeyTaken(ctx context.Context, tx *sqlx.Tx, table, column, value, exceptID string) (bool, error) {
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", table+"."+column+":"+value); err != nil {
		return false, fmt.Errorf("lock %s.%s: %w", table, column, err)
	}
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1", table, column)
	args := []any{value}
	if exceptID != "" {
		query += " AND id <> $2"
		args = append(args, exceptID)
	}
	var count int
	if err := tx.GetContext(ctx, &count, query, args...); err != nil {
		return false, err
	}
	return count > 0, nil
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// uniqueIDs drops duplicates while keeping order
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
