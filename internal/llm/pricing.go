package llm

import (
	"fmt"

	"github.com/calder-ai/llmgate/internal/llm/transport"
)

// Pricing constants. Costs are tracked in milli-cents (1/1000 of a cent)
// so that token-level arithmetic stays integral.
const (
	milliCentsPerCent  = 1000
	tokensPerPriceUnit = 1000
)

// pricingEntry contains per-1000-token rates in milli-cents for one model.
type pricingEntry struct {
	promptCostPer1000 int64
	outputCostPer1000 int64
}

// pricingTable holds static rates keyed by "provider/model". Unknown models
// cost zero: cost accounting is best-effort and must not fail an otherwise
// successful invocation.
var pricingTable = map[string]pricingEntry{
	"openai/gpt-4-turbo-preview":         {promptCostPer1000: 1000, outputCostPer1000: 3000},
	"openai/gpt-4-vision-preview":        {promptCostPer1000: 1000, outputCostPer1000: 3000},
	"openai/gpt-4o":                      {promptCostPer1000: 500, outputCostPer1000: 1500},
	"anthropic/claude-3-opus-20240229":   {promptCostPer1000: 1500, outputCostPer1000: 7500},
	"anthropic/claude-3-sonnet-20240229": {promptCostPer1000: 300, outputCostPer1000: 1500},
	"anthropic/claude-3-haiku-20240307":  {promptCostPer1000: 25, outputCostPer1000: 125},
}

// CompletionCost estimates the monetary cost of one completion in
// milli-cents from its token usage.
//
// Rounding rules:
//  1. All calculations use integer arithmetic to avoid floating-point errors.
//  2. Division by 1000 happens last to minimize rounding loss.
//  3. Results are truncated to the nearest milli-cent.
//  4. Zero usage results in zero cost.
func CompletionCost(provider, model string, usage transport.CompletionUsage) int64 {
	entry, ok := pricingTable[fmt.Sprintf("%s/%s", provider, model)]
	if !ok {
		return 0
	}

	promptCost := usage.PromptTokens * entry.promptCostPer1000 / tokensPerPriceUnit
	outputCost := usage.CompletionTokens * entry.outputCostPer1000 / tokensPerPriceUnit
	return promptCost + outputCost
}

// CostCents converts a milli-cent amount to whole cents, truncating.
func CostCents(milliCents int64) int64 {
	return milliCents / milliCentsPerCent
}
