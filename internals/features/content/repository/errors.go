package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Jenis error yang bisa dibedakan pemanggil (errors.Is).
var (
	ErrNotFound    = errors.New("data tidak ditemukan")
	ErrValidation  = errors.New("validasi gagal")
	ErrConflict    = errors.New("data sudah berubah atau bentrok")
	ErrUnavailable = errors.New("database tidak tersedia")
)

// ValidationError membawa pesan per field (key = nama json).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return ErrValidation.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Kind mengembalikan nama jenis error untuk metrik/log.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return "unavailable"
	}
}

// classify menerjemahkan error gorm/driver ke jenis error repository.
func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) || errors.Is(err, ErrUnavailable) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, op)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrap(ErrConflict, op)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return invalid("body", "referensi tidak ditemukan")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		field := pgErr.ColumnName
		if field == "" {
			field = "body"
		}
		switch pgErr.Code {
		case "23505":
			return errors.Wrapf(ErrConflict, "%s: %s", op, pgErr.Detail)
		case "23502", "23503", "23514", "22P02", "22001":
			return invalid(field, pgErr.Message)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errors.Wrapf(ErrUnavailable, "%s: %v", op, err)
	}
	// sqlite (dipakai di test) tidak selalu diterjemahkan gorm
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return errors.Wrap(ErrConflict, op)
	}
	return errors.Wrapf(ErrUnavailable, "%s: %v", op, err)
}
