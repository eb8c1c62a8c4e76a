package ai

// Published per-token rates in USD for the fast-path model
// (claude-sonnet-4-5: $3 per million input tokens, $15 per million output).
const (
	inputCostPerToken  = 3.0 / 1_000_000
	outputCostPerToken = 15.0 / 1_000_000
)

func costUSD(inputTokens, outputTokens int64) float64 {
	return float64(inputTokens)*inputCostPerToken + float64(outputTokens)*outputCostPerToken
}
