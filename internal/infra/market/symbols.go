package market

import "strings"

// PatchSymbol appends the exchange suffix when the symbol carries none
// (assumes NSE by default, e.g. "RELIANCE" -> "RELIANCE.NS").
func PatchSymbol(symbol, defaultSuffix string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + defaultSuffix
}

// StripSuffix removes a trailing exchange suffix for display and comparison.
func StripSuffix(symbol string) string {
	if i := strings.LastIndex(symbol, "."); i > 0 {
		return symbol[:i]
	}
	return symbol
}
