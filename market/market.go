package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/piquette/finance-go"
)

// Quote represents a market quote for a symbol.
type Quote = finance.Quote

// Info is the flattened set of fields the data source knows about a single
// symbol. Its schema is owned by the data source, not by this program.
type Info map[string]interface{}

// ErrNotFound is returned when the data source has no data for a symbol.
var ErrNotFound = errors.New("symbol not found")

// HTTPError reports a non-2xx response from the data source.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status: %d: %s", e.StatusCode, e.Body)
}

type Backend interface {
	Info(ctx context.Context, symbol string) (Info, error)
}
