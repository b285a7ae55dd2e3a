package domain

// ModelPricing holds USD-per-million-token rates for one model.
type ModelPricing struct {
	ID                   string
	InputPerMillion      float64
	OutputPerMillion     float64
	CacheReadPerMillion  float64
	CacheWritePerMillion float64
}

// CalculateCost prices a token breakdown against this model's rates.
func (p ModelPricing) CalculateCost(input, output, cacheRead, cacheWrite int64) float64 {
	cost := float64(input) * p.InputPerMillion / 1_000_000
	cost += float64(output) * p.OutputPerMillion / 1_000_000
	cost += float64(cacheRead) * p.CacheReadPerMillion / 1_000_000
	cost += float64(cacheWrite) * p.CacheWritePerMillion / 1_000_000
	return cost
}

// DefaultPricing is applied when the backend reports tokens but no cost.
// Cache read is 0.1x the input rate, cache write 1.25x.
var DefaultPricing = ModelPricing{
	ID:                   "claude-sonnet-4-20250514",
	InputPerMillion:      3.0,
	OutputPerMillion:     15.0,
	CacheReadPerMillion:  0.30,
	CacheWritePerMillion: 3.75,
}
