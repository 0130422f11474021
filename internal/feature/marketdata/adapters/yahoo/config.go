// Package yahoo is a QuoteProvider backed by Yahoo Finance's v10 quoteSummary API.
package yahoo

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL   string // API host (e.g., "https://query2.finance.yahoo.com")
	CookieURL string // page that issues the session cookie (e.g., "https://fc.yahoo.com")
	UserAgent string // browser-like User-Agent; Yahoo rejects default Go agents
}
