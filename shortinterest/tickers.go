package shortinterest

import "strings"

// ParseTickers splits a comma separated ticker list. Entries are trimmed and
// uppercased, empty entries dropped. Order and duplicates are kept.
func ParseTickers(arg string) []string {
	var tickers []string
	for _, t := range strings.Split(arg, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		tickers = append(tickers, t)
	}
	return tickers
}
