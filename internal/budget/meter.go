package budget

import (
	"context"
	"errors"
	"time"

	"github.com/davidbz/emberpost/internal/domain"
)

// DefaultDailyCapUSD is the advisory daily spend ceiling.
const DefaultDailyCapUSD = 20.0

// Meter implements domain.UsageMeter over a Ledger, approximating cost
// from the per-model pricing table when the caller did not supply one.
type Meter struct {
	ledger      Ledger
	calculator  domain.CostCalculator
	dailyCapUSD float64
	now         func() time.Time
}

// NewMeter creates a usage meter. capUSD <= 0 selects the default cap.
func NewMeter(ledger Ledger, calculator domain.CostCalculator, capUSD float64) *Meter {
	if capUSD <= 0 {
		capUSD = DefaultDailyCapUSD
	}
	return &Meter{
		ledger:      ledger,
		calculator:  calculator,
		dailyCapUSD: capUSD,
		now:         time.Now,
	}
}

// Record adds tokens to today's ledger. When usd is nil an approximate
// cost is computed from the model's registered per-1K rate.
func (m *Meter) Record(ctx context.Context, model string, tokens int, usd *float64) error {
	if tokens < 0 {
		return errors.New("tokens cannot be negative")
	}

	cost := 0.0
	if usd != nil {
		cost = *usd
	} else if m.calculator != nil && model != "" {
		cost, _ = m.calculator.Calculate(ctx, model, tokens)
	}

	return m.ledger.Add(ctx, m.today(), tokens, cost)
}

// CanSpend reports whether today's cumulative spend plus expectedUSD
// stays within the daily cap. Advisory only; this core never blocks a
// call on its result, admission control belongs to the caller.
func (m *Meter) CanSpend(ctx context.Context, expectedUSD float64) (bool, error) {
	usage, err := m.ledger.Day(ctx, m.today())
	if err != nil {
		return false, err
	}
	return usage.USD+expectedUSD <= m.dailyCapUSD, nil
}

// Today returns today's cumulative usage alongside the configured cap.
func (m *Meter) Today(ctx context.Context) (DayUsage, float64, error) {
	usage, err := m.ledger.Day(ctx, m.today())
	return usage, m.dailyCapUSD, err
}

func (m *Meter) today() string {
	return m.now().Format("2006-01-02")
}
