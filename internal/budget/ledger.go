// Package budget accumulates token/cost usage per calendar date and
// exposes an advisory daily spend-cap check.
package budget

import (
	"context"
	"sync"
)

// DayUsage is one date's cumulative usage.
type DayUsage struct {
	Tokens int
	USD    float64
}

// Ledger persists per-date usage. Add must be an atomic
// read-modify-write per date key; concurrent completions on the same
// day must not lose updates.
type Ledger interface {
	// Add increments the given date's totals.
	Add(ctx context.Context, date string, tokens int, usd float64) error

	// Day returns the given date's totals, zero when unrecorded.
	Day(ctx context.Context, date string) (DayUsage, error)
}

// MemoryLedger is a process-local ledger. Used when no Redis address is
// configured, and in tests.
type MemoryLedger struct {
	mu   sync.Mutex
	days map[string]DayUsage
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		days: make(map[string]DayUsage),
	}
}

// Add increments the given date's totals.
func (l *MemoryLedger) Add(_ context.Context, date string, tokens int, usd float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	day := l.days[date]
	day.Tokens += tokens
	day.USD += usd
	l.days[date] = day
	return nil
}

// Day returns the given date's totals.
func (l *MemoryLedger) Day(_ context.Context, date string) (DayUsage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.days[date], nil
}
