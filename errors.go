package ygggo_jdbd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors. Every typed error below matches one of them with
// errors.Is.
var (
	ErrShape            = errors.New("ygggo_jdbd: row shape mismatch")
	ErrBindIndex        = errors.New("ygggo_jdbd: bind position out of range")
	ErrUnsupportedValue = errors.New("ygggo_jdbd: unsupported parameter value")
	ErrTypeMismatch     = errors.New("ygggo_jdbd: column type mismatch")
	ErrUnboundParameter = errors.New("ygggo_jdbd: statement has unbound parameters")
	ErrNotLoaded        = errors.New("ygggo_jdbd: driver is not loaded")
	ErrDriverUnloaded   = errors.New("ygggo_jdbd: driver has already been unloaded")
	ErrLibraryLoad      = errors.New("ygggo_jdbd: failed to load driver")
	ErrSQL              = errors.New("ygggo_jdbd: sql error")
	ErrInvalidConfig    = errors.New("ygggo_jdbd: invalid config")
)

// IndexError reports a bind position outside [0, Count).
type IndexError struct {
	Pos   int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("bind position %d out of range [0, %d)", e.Pos, e.Count)
}

func (e *IndexError) Is(target error) bool { return target == ErrBindIndex }

// BindError reports a value that could not be converted to a Parameter.
type BindError struct {
	Pos int
	Err error
}

func (e *BindError) Error() string { return fmt.Sprintf("bind position %d: %v", e.Pos, e.Err) }

func (e *BindError) Unwrap() error { return e.Err }

// ShapeError reports a row built from mismatched input.
type ShapeError struct {
	Names, Values, Types int
	// Column and Err are set when a single value did not fit its declared type.
	Column string
	Err    error
}

func (e *ShapeError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row shape: column %q: %v", e.Column, e.Err)
	}
	return fmt.Sprintf("row shape: %d names, %d values, %d types", e.Names, e.Values, e.Types)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShape }

func (e *ShapeError) Unwrap() error { return e.Err }

// TypeMismatchError reports a typed accessor used on a column declared
// with another type.
type TypeMismatchError struct {
	Column    string
	Requested ColumnType
	Declared  ColumnType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %q was requested as %v, but is %v", e.Column, e.Requested, e.Declared)
}

func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// UnboundParameterError lists the empty slots of a statement handed to a driver.
type UnboundParameterError struct {
	Positions []int
}

func (e *UnboundParameterError) Error() string {
	if len(e.Positions) == 0 {
		return "not all parameters are bound"
	}
	parts := make([]string, len(e.Positions))
	for i, p := range e.Positions {
		parts[i] = strconv.Itoa(p)
	}
	return "not all parameters are bound: missing " + strings.Join(parts, ", ")
}

func (e *UnboundParameterError) Is(target error) bool { return target == ErrUnboundParameter }

// LoadError reports a failed backend initialization. The driver stays
// uninitialized, so Load may be called again.
type LoadError struct {
	Kind    DriverKind
	Message string
	Err     error
}

func (e *LoadError) Error() string { return "failed to load driver: " + e.Message }

func (e *LoadError) Is(target error) bool { return target == ErrLibraryLoad }

func (e *LoadError) Unwrap() error { return e.Err }

// SQLError is a backend-reported failure. Message is the backend's
// diagnostic text, verbatim.
type SQLError struct {
	Op      string
	Message string
	// Code is the MySQL error number or PostgreSQL SQLSTATE, when known.
	Code  string
	Class ErrorClass
	Err   error
}

func (e *SQLError) Error() string { return e.Message }

func (e *SQLError) Is(target error) bool { return target == ErrSQL }

func (e *SQLError) Unwrap() error { return e.Err }

func newSQLError(op string, err error) *SQLError {
	return &SQLError{
		Op:      op,
		Message: err.Error(),
		Code:    errorCode(err),
		Class:   Classify(err),
		Err:     err,
	}
}

// ErrorClass groups backend errors by how a caller may react to them.
type ErrorClass int

const (
	ErrClassUnknown ErrorClass = iota
	ErrClassRetryable
	ErrClassConflict
	ErrClassReadonly
	ErrClassConstraint
)

func (c ErrorClass) String() string {
	switch c {
	case ErrClassRetryable:
		return "retryable"
	case ErrClassConflict:
		return "conflict"
	case ErrClassReadonly:
		return "readonly"
	case ErrClassConstraint:
		return "constraint"
	}
	return "unknown"
}

// Classify inspects MySQL error numbers and PostgreSQL SQLSTATE codes.
// It is informational only; nothing in this package retries on it.
func Classify(err error) ErrorClass {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1213, 1205: // deadlock, lock wait timeout
			return ErrClassRetryable
		case 1290: // read-only
			return ErrClassReadonly
		case 1062, 1022:
			return ErrClassConflict
		case 1048, 1451, 1452, 3819:
			return ErrClassConstraint
		}
		return ErrClassUnknown
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		switch {
		case pe.Code == "40001", pe.Code == "40P01", pe.Code == "55P03":
			return ErrClassRetryable
		case pe.Code == "25006":
			return ErrClassReadonly
		case pe.Code == "23505":
			return ErrClassConflict
		case strings.HasPrefix(pe.Code, "23"):
			return ErrClassConstraint
		}
	}
	return ErrClassUnknown
}

func errorCode(err error) string {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return strconv.Itoa(int(me.Number))
	}
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
