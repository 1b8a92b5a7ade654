package ui

import (
	"database/sql"
	"database/sql/driver"
	"net"
	"strings"
	"syscall"

	domainerrors "greenhood/internal/domain/errors"
	"greenhood/internal/errors"
)

// Kind is the outcome class of a finished task.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindConnectivity
	KindStore
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindConnectivity:
		return "connectivity"
	case KindStore:
		return "store"
	default:
		return "unexpected"
	}
}

// connectionExceptionClass is the SQLSTATE class of connection exceptions.
const connectionExceptionClass = "08"

type sqlStateError interface {
	error
	SQLState() string
}

var connectivityMarkers = []error{
	domainerrors.ErrPoolExhausted,
	driver.ErrBadConn,
	sql.ErrConnDone,
}

// closedPoolMessage is the text of the unexported database/sql error for a closed *sql.DB.
const closedPoolMessage = "sql: database is closed"

var unreachableErrnos = []error{
	syscall.ECONNREFUSED,
	syscall.EHOSTUNREACH,
	syscall.ENETUNREACH,
}

// Classify maps a task error to the response the runner gives it.
// Rules are checked in order; the first match wins.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	if _, ok := domainerrors.IsValidationFailure(err); ok {
		return KindValidation
	}

	for _, marker := range connectivityMarkers {
		if errors.Is(err, marker) {
			return KindConnectivity
		}
	}
	if strings.Contains(err.Error(), closedPoolMessage) {
		return KindConnectivity
	}

	if stateErr, ok := errors.AsType[sqlStateError](err); ok {
		if strings.HasPrefix(stateErr.SQLState(), connectionExceptionClass) {
			return KindConnectivity
		}

		return KindStore
	}

	if isUnreachable(errors.RootCause(err)) {
		return KindConnectivity
	}

	if _, ok := errors.AsType[*domainerrors.DatabaseExecuteError](err); ok {
		return KindStore
	}

	return KindUnexpected
}

func isUnreachable(root error) bool {
	if _, ok := root.(*net.DNSError); ok { //nolint:errorlint // root is already unwrapped
		return true
	}
	for _, errno := range unreachableErrnos {
		if errors.Is(root, errno) {
			return true
		}
	}

	return false
}
