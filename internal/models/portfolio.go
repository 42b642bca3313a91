package models

// PortfolioRecord is one normalized row of the client holdings workbook.
type PortfolioRecord struct {
	Identifier  string  `json:"cusip"`
	Shares      int64   `json:"shares"`
	MarketValue int64   `json:"market_value"`
	FIGI        *string `json:"figi,omitempty"`        // nil when the cell is empty or the column is absent
	PutOrCall   *string `json:"put_or_call,omitempty"` // nil when the cell is empty or the column is absent
}

// HasFIGI reports whether the holding carries a FIGI value.
func (p PortfolioRecord) HasFIGI() bool {
	return p.FIGI != nil
}

// HasPutOrCall reports whether the holding carries an option type value.
func (p PortfolioRecord) HasPutOrCall() bool {
	return p.PutOrCall != nil
}
