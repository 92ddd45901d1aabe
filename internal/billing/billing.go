package billing

// PriceTable resolves a wire model identifier to its price in USD per 1000 tokens.
type PriceTable interface {
	PricePerKTokens(wireID string) (float64, bool)
}

// UsageRecord summarises one upstream call. It is logged and attached to the
// trace span, never stored.
type UsageRecord struct {
	RequestID  string
	Operation  string
	Model      string
	TokensUsed int
	CostUSD    float64
	LatencyMs  int64
}

// Estimate returns (tokens/1000) * pricePerK. Negative inputs count as zero.
func Estimate(tokens int, pricePerK float64) float64 {
	if tokens <= 0 || pricePerK <= 0 {
		return 0
	}
	return float64(tokens) / 1000 * pricePerK
}

// EstimateFor prices tokens for wireID, treating models missing from the table as free.
func EstimateFor(prices PriceTable, wireID string, tokens int) float64 {
	if prices == nil {
		return 0
	}
	price, ok := prices.PricePerKTokens(wireID)
	if !ok {
		return 0
	}
	return Estimate(tokens, price)
}
