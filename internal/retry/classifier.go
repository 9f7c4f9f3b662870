package retry

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConnectClassifier treats the failures a database shows while it is starting,
// restarting or briefly unreachable as transient. Authentication and
// configuration errors are permanent.
type ConnectClassifier struct{}

var transientMessages = []string{
	"connection refused",
	"connection reset",
	"connection timed out",
	"i/o timeout",
	"network is unreachable",
	"no route to host",
	"server closed the connection",
	"unexpected eof",
	"the database system is starting up",
	"the database system is shutting down",
	"too many connections",
}

func (ConnectClassifier) IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return transientSQLState(pgErr.Code)
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// transientSQLState covers connection exceptions (08), insufficient
// resources (53) and operator intervention (57).
func transientSQLState(code string) bool {
	if len(code) < 2 {
		return false
	}
	switch code[:2] {
	case "08", "53", "57":
		return true
	}
	return false
}
