package shortinterest

// WildcardTicker marks errors that are not tied to a single ticker.
const WildcardTicker = "*"

const ErrMissingTickers = "missing_tickers"

type Result struct {
	Ticker           string   `json:"ticker"`
	ShortInterestPct *float64 `json:"short_interest_pct"`
	SourceField      *string  `json:"source_field"`
}

type ErrorEntry struct {
	Ticker string `json:"ticker"`
	Error  string `json:"error"`
}

type Payload struct {
	Timestamp int64        `json:"timestamp,omitempty"`
	Results   []Result     `json:"results"`
	Errors    []ErrorEntry `json:"errors"`
}

// FatalPayload reports a failure that prevented any ticker from being
// fetched.
func FatalPayload(msg string) Payload {
	return Payload{
		Results: []Result{},
		Errors:  []ErrorEntry{{Ticker: WildcardTicker, Error: msg}},
	}
}
