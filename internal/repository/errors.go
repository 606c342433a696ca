package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/yukikurage/task-scheduler/internal/models"
	"gorm.io/gorm"
)

// Error taxonomy. Every error returned by a repository matches exactly one of
// these with errors.Is, or is a context error from the caller.
var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("conflict")
	ErrReference          = errors.New("referenced record does not exist")
	ErrValidation         = errors.New("validation failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

var (
	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)
	ErrResourceNotFound = fmt.Errorf("%w: resource", ErrNotFound)
	ErrTaskNotFound     = fmt.Errorf("%w: task", ErrNotFound)

	ErrEmailTaken = fmt.Errorf("%w: email already registered", ErrConflict)

	ErrUnknownCreator  = fmt.Errorf("%w: creator user", ErrReference)
	ErrUnknownTask     = fmt.Errorf("%w: task", ErrReference)
	ErrUnknownUser     = fmt.Errorf("%w: user", ErrReference)
	ErrUnknownResource = fmt.Errorf("%w: resource", ErrReference)
)

// MySQL server error numbers
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgAdminShutdown       = "57P01"
	pgConnectionClass     = "08"
)

// classify maps a driver or gorm error onto the taxonomy. conflict and
// reference replace the generic sentinel when a more specific one applies.
func classify(err error, conflict, reference error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case isUniqueViolation(err):
		if conflict == nil {
			conflict = ErrConflict
		}
		return fmt.Errorf("%w: %w", conflict, err)
	case isForeignKeyViolation(err):
		if reference == nil {
			reference = ErrReference
		}
		return fmt.Errorf("%w: %w", reference, err)
	case isUnavailable(err):
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	case errors.Is(err, models.ErrInvalidEnum):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return err
	}
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoReferencedRow || myErr.Number == mysqlRowIsReferenced
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgConnectionClass) || pgErr.Code == pgAdminShutdown
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
