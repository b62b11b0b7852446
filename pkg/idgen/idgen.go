package idgen

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Identifier namespaces. Unit codes and master-carton ids never share a
// prefix, so the two sets stay disjoint even if the random tails collide.
const (
	CodePrefix    = "qr_"
	MasterPrefix  = "mst_"
	RequestPrefix = "req_"
)

// Generator produces ordered sequences of unique identifiers. Injectable so
// services can run against a deterministic stub in tests.
type Generator interface {
	Sequence(n int, prefix string) ([]string, error)
}

// ULID generates ulid identifiers: a millisecond timestamp prefix plus an
// 80-bit entropy tail, monotonic within the process so a generated sequence
// sorts in generation order.
type ULID struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New constructs a ULID generator seeded from crypto/rand.
func New() *ULID {
	return &ULID{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Sequence returns n distinct identifiers carrying the given prefix, in
// non-decreasing lexicographic order. A duplicate inside the set means the
// entropy source misbehaved and is reported as an error rather than silently
// shipped to a printer.
func (g *ULID) Sequence(n int, prefix string) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("sequence length must be non-negative, got %d", n)
	}
	if n == 0 {
		return []string{}, nil
	}

	out := make([]string, n)

	g.mu.Lock()
	defer g.mu.Unlock()

	prev := ""
	for i := 0; i < n; i++ {
		id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
		if err != nil {
			return nil, fmt.Errorf("generating identifier %d of %d: %w", i+1, n, err)
		}
		s := id.String()
		if s == prev {
			return nil, fmt.Errorf("duplicate identifier %q at position %d", s, i)
		}
		prev = s
		out[i] = prefix + s
	}

	return out, nil
}

// RequestID mints a traceability id for one request/response envelope.
func RequestID() string {
	return RequestPrefix + ulid.Make().String()
}
