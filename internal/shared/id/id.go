// Package id generates prefixed, k-sortable identifiers for sessions and
// requests. ULIDs keep session listings in start order without extra
// timestamps.
package id

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// SessionID identifies one traced execution.
type SessionID string

// RequestID identifies one API request.
type RequestID string

const (
	sessionPrefix = "sess"
	requestPrefix = "req"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

func newULID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewSession mints a session id (sess_...).
func NewSession() SessionID {
	return SessionID(fmt.Sprintf("%s_%s", sessionPrefix, newULID()))
}

// NewRequest mints a request id (req_...).
func NewRequest() RequestID {
	return RequestID(fmt.Sprintf("%s_%s", requestPrefix, newULID()))
}
