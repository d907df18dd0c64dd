package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"go.uber.org/zap"
)

const (
	DefaultYahooURL       = "https://query2.finance.yahoo.com"
	DefaultYahooCookieURL = "https://fc.yahoo.com"
)

// DefaultModules are the quoteSummary modules merged into Info. Short
// interest fields live in defaultKeyStatistics.
var DefaultModules = []string{"defaultKeyStatistics", "summaryDetail"}

const maxErrorBody = 256

type YahooOption func(*YahooBackend)

func WithBaseURL(u string) YahooOption {
	return func(y *YahooBackend) { y.baseURL = u }
}

func WithCookieURL(u string) YahooOption {
	return func(y *YahooBackend) { y.cookieURL = u }
}

func WithModules(modules ...string) YahooOption {
	return func(y *YahooBackend) { y.modules = modules }
}

// WithQuoteFunc replaces the finance-go quote lookup.
func WithQuoteFunc(fn func(ctx context.Context, symbol string) (*Quote, error)) YahooOption {
	return func(y *YahooBackend) { y.getQuote = fn }
}

func WithLogger(log *zap.Logger) YahooOption {
	return func(y *YahooBackend) { y.log = log }
}

// YahooBackend merges the finance-go quote for a symbol with the fields of
// the quoteSummary modules. quoteSummary requires a crumb bound to a session
// cookie, which is fetched on first use. The summary is authoritative; the
// quote only adds fields when it is available.
type YahooBackend struct {
	client    *http.Client
	baseURL   string
	cookieURL string
	modules   []string
	getQuote  func(ctx context.Context, symbol string) (*Quote, error)
	log       *zap.Logger

	crumb string
}

func NewYahooBackend(client *http.Client, opts ...YahooOption) (*YahooBackend, error) {
	if client == nil {
		client = &http.Client{}
	}
	c := *client
	if c.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		c.Jar = jar
	}

	y := &YahooBackend{
		client:    &c,
		baseURL:   DefaultYahooURL,
		cookieURL: DefaultYahooCookieURL,
		modules:   DefaultModules,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(y)
	}

	for _, u := range []string{y.baseURL, y.cookieURL} {
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, fmt.Errorf("parsing url %q: %w", u, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return nil, fmt.Errorf("unsupported url scheme: %q", u)
		}
	}
	y.baseURL = strings.TrimRight(y.baseURL, "/")
	if len(y.modules) == 0 {
		return nil, fmt.Errorf("no quoteSummary modules configured")
	}

	if y.getQuote == nil {
		finance.SetHTTPClient(y.client)
		y.getQuote = getQuote
	}
	return y, nil
}

func getQuote(ctx context.Context, symbol string) (*Quote, error) {
	iter := quote.ListP(&quote.Params{
		Symbols: []string{symbol},
		Params:  finance.Params{Context: &ctx},
	})
	if !iter.Next() {
		return nil, iter.Err()
	}
	return iter.Quote(), nil
}

func (y *YahooBackend) Info(ctx context.Context, symbol string) (Info, error) {
	summary, err := y.summary(ctx, symbol)
	if err != nil {
		return nil, err
	}

	info := Info{}
	q, err := y.getQuote(ctx, symbol)
	switch {
	case err != nil:
		y.log.Warn("Getting quote failed, using summary only", zap.String("symbol", symbol), zap.Error(err))
	case q == nil:
		y.log.Debug("No quote for symbol, using summary only", zap.String("symbol", symbol))
	default:
		if info, err = quoteInfo(q); err != nil {
			y.log.Warn("Converting quote failed, using summary only", zap.String("symbol", symbol), zap.Error(err))
			info = Info{}
		}
	}
	for k, v := range summary {
		info[k] = v
	}
	return info, nil
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]map[string]interface{} `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (y *YahooBackend) summary(ctx context.Context, symbol string) (Info, error) {
	if err := y.ensureCrumb(ctx); err != nil {
		return nil, err
	}

	u, err := url.Parse(y.baseURL + "/v10/finance/quoteSummary/" + url.PathEscape(symbol))
	if err != nil {
		return nil, fmt.Errorf("building quoteSummary url: %w", err)
	}
	q := u.Query()
	q.Set("modules", strings.Join(y.modules, ","))
	q.Set("crumb", y.crumb)
	u.RawQuery = q.Encode()

	body, status, err := y.get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("requesting quoteSummary: %w", err)
	}

	var resp quoteSummaryResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		if status/100 != 2 {
			return nil, &HTTPError{StatusCode: status, Body: excerpt(body)}
		}
		return nil, fmt.Errorf("decoding quoteSummary: %w", err)
	}
	if e := resp.QuoteSummary.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, fmt.Errorf("%s: %w", e.Description, ErrNotFound)
		}
		return nil, fmt.Errorf("quoteSummary error %s: %s", e.Code, e.Description)
	}
	if status/100 != 2 {
		return nil, &HTTPError{StatusCode: status, Body: excerpt(body)}
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quoteSummary for %s: %w", symbol, ErrNotFound)
	}

	info := Info{}
	result := resp.QuoteSummary.Result[0]
	for _, module := range y.modules {
		for k, v := range result[module] {
			if k == "maxAge" {
				continue
			}
			info[k] = flatten(v)
		}
	}
	return info, nil
}

func (y *YahooBackend) ensureCrumb(ctx context.Context) error {
	if y.crumb != "" {
		return nil
	}

	// The cookie endpoint answers 404 but still sets the session cookie.
	if _, _, err := y.get(ctx, y.cookieURL); err != nil {
		return fmt.Errorf("requesting session cookie: %w", err)
	}

	body, status, err := y.get(ctx, y.baseURL+"/v1/test/getcrumb")
	if err != nil {
		return fmt.Errorf("requesting crumb: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("requesting crumb: %w", &HTTPError{StatusCode: status, Body: excerpt(body)})
	}
	crumb := strings.TrimSpace(string(body))
	if crumb == "" {
		return fmt.Errorf("requesting crumb: empty crumb")
	}
	y.crumb = crumb
	return nil
}

func (y *YahooBackend) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; shorts)")
	req.Header.Set("Accept", "application/json")

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// quoteInfo converts a quote into Info using the quote's JSON field names.
func quoteInfo(q *Quote) (Info, error) {
	raw, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encoding quote: %w", err)
	}
	info := Info{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&info); err != nil {
		return nil, fmt.Errorf("decoding quote: %w", err)
	}
	return info, nil
}

// flatten unwraps Yahoo's {"raw": ..., "fmt": ...} values. An empty object
// means the field has no value.
func flatten(v interface{}) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	if raw, ok := m["raw"]; ok {
		return raw
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody]
	}
	return s
}
