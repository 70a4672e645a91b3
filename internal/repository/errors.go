package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/catalog-api/internal/domain"
)

// SQLSTATE codes.
const (
	uniqueViolation = "23505"
	checkViolation  = "23514"
	numericOverflow = "22003"
	stringTooLong   = "22001"
)

const (
	constraintUsersEmail    = "users_email_key"
	constraintUsersUsername = "users_username_key"
)

// mapError classifies driver errors into domain kinds. Missing rows become
// notFound, unique violations become conflicts, and values the columns reject
// are invalid input. Everything else is reported as unavailable with the
// driver error kept for logs.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			switch pgErr.ConstraintName {
			case constraintUsersEmail:
				return domain.ErrEmailTaken
			case constraintUsersUsername:
				return domain.ErrUsernameTaken
			default:
				return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
			}
		case checkViolation, numericOverflow, stringTooLong:
			return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}

	return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
}
