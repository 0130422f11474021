package dto

// SnapshotResponse is one stored daily_market_data row.
type SnapshotResponse struct {
	Symbol     string         `json:"symbol"`
	Date       string         `json:"date"`
	Price      *float64       `json:"price"`
	MarketCap  *float64       `json:"market_cap"`
	VolumeAvg  *float64       `json:"volume_avg"`
	PERatio    *float64       `json:"pe_ratio"`
	EPS        *float64       `json:"eps"`
	Sector     *string        `json:"sector"`
	Industry   *string        `json:"industry"`
	Source     string         `json:"source"`
	RawProfile map[string]any `json:"raw_profile"`
}

// SymbolsResponse lists the configured symbols.
type SymbolsResponse struct {
	Symbols []string `json:"symbols"`
}
