package errors

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps database errors to AppError instances:
//   - pgx.ErrNoRows -> NotFound
//   - unique violations -> Conflict
//   - foreign key, check and NOT NULL violations -> Validation
//   - context deadline/cancel -> Timeout/Canceled
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "database request timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "database request canceled", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

// entityOf names the row kind a constraint error refers to.
func entityOf(table string) string {
	switch table {
	case "users":
		return "user"
	case "user_sessions":
		return "session"
	default:
		return "record"
	}
}

func mapPgError(pgErr *pgconn.PgError) error {
	entity := entityOf(pgErr.TableName)
	appErr := &AppError{Field: pgErr.ColumnName, Cause: pgErr}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		appErr.Code = ErrCodeConflict
		appErr.Message = entity + " already exists"
	case pgerrcode.ForeignKeyViolation:
		appErr.Code = ErrCodeValidation
		appErr.Message = entity + " references an unknown user"
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		appErr.Code = ErrCodeValidation
		appErr.Message = "invalid " + entity + " data"
	default:
		appErr.Code = ErrCodeInternal
		appErr.Message = "database error"
		appErr.Field = ""
	}
	return appErr
}
