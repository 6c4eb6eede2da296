package usage

import (
	"math"
	"strings"
)

// Price is the dollar cost per one million tokens.
type Price struct {
	Input  float64
	Output float64
}

// Pricing maps model names to per-1M-token prices. Unknown models cost nothing.
var Pricing = map[string]Price{
	"gpt-4.1":          {Input: 2.00, Output: 8.00},
	"gpt-4.1-mini":     {Input: 0.40, Output: 1.60},
	"gpt-4.1-nano":     {Input: 0.10, Output: 0.40},
	"gpt-4o":           {Input: 2.50, Output: 10.00},
	"gpt-4o-mini":      {Input: 0.15, Output: 0.60},
	"gpt-3.5-turbo":    {Input: 0.50, Output: 1.50},
	"gemini-1.5-pro":   {Input: 1.25, Output: 5.00},
	"gemini-1.5-flash": {Input: 0.075, Output: 0.30},
}

// CostFor prices a call. Model names are matched case-insensitively, ignoring a
// "models/" prefix.
func CostFor(model string, promptTokens, completionTokens int64) Cost {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(model)), "models/")
	p, ok := Pricing[name]
	if !ok {
		return Cost{}
	}
	in := round6(float64(promptTokens) / 1_000_000 * p.Input)
	out := round6(float64(completionTokens) / 1_000_000 * p.Output)
	return Cost{Input: in, Output: out, Total: round6(in + out)}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
