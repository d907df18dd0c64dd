package shortinterest

import (
	"context"
	"time"

	"github.com/nanzhong/shorts/market"
	"go.uber.org/zap"
)

// Collector fetches and normalizes short interest for tickers one at a time.
type Collector struct {
	backend market.Backend
	log     *zap.Logger
	now     func() time.Time
}

func NewCollector(backend market.Backend, log *zap.Logger) *Collector {
	return &Collector{
		backend: backend,
		log:     log,
		now:     time.Now,
	}
}

// Collect builds the payload for tickers. A ticker whose fetch fails only
// shows up in the payload errors.
func (c *Collector) Collect(ctx context.Context, tickers []string) Payload {
	payload := Payload{
		Results: []Result{},
		Errors:  []ErrorEntry{},
	}

	for _, ticker := range tickers {
		info, err := c.backend.Info(ctx, ticker)
		if err != nil {
			c.log.Warn("Fetching ticker failed", zap.String("ticker", ticker), zap.Error(err))
			payload.Errors = append(payload.Errors, ErrorEntry{Ticker: ticker, Error: err.Error()})
			continue
		}
		payload.Results = append(payload.Results, c.result(ticker, info))
	}

	payload.Timestamp = c.now().Unix()
	return payload
}

func (c *Collector) result(ticker string, info market.Info) Result {
	raw, field := Resolve(info)
	result := Result{
		Ticker:           ticker,
		ShortInterestPct: Normalize(raw),
	}
	if field != "" {
		result.SourceField = &field
	}

	logFields := []zap.Field{zap.String("ticker", ticker), zap.Any("raw", raw), zap.String("source_field", field)}
	if result.ShortInterestPct != nil {
		logFields = append(logFields, zap.Float64("short_interest_pct", *result.ShortInterestPct))
	}
	c.log.Debug("Resolved short interest", logFields...)
	return result
}
