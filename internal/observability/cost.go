package observability

import (
	"strconv"

	"github.com/openai/openai-go/responses"
)

// Pricing constants
const (
	tokensPerKilo       = 1000.0
	costFormatPrecision = 6

	gpt51InputPrice  = 0.001
	gpt51OutputPrice = 0.003

	gpt51MiniInputPrice  = 0.0005
	gpt51MiniOutputPrice = 0.0015

	gpt4oInputPrice  = 0.005
	gpt4oOutputPrice = 0.015

	gpt4oMiniInputPrice  = 0.00015
	gpt4oMiniOutputPrice = 0.0006
)

// ModelPricing contains pricing information per 1K tokens
type ModelPricing struct {
	InputPricePer1K  float64 // Price per 1K input tokens in USD
	OutputPricePer1K float64 // Price per 1K output tokens in USD
}

// PricingTable contains pricing for all models
var PricingTable = map[string]ModelPricing{
	"gpt-5.1": {
		InputPricePer1K:  gpt51InputPrice,
		OutputPricePer1K: gpt51OutputPrice,
	},
	"gpt-5.1-mini": {
		InputPricePer1K:  gpt51MiniInputPrice,
		OutputPricePer1K: gpt51MiniOutputPrice,
	},
	"gpt-4o": {
		InputPricePer1K:  gpt4oInputPrice,
		OutputPricePer1K: gpt4oOutputPrice,
	},
	"gpt-4o-mini": {
		InputPricePer1K:  gpt4oMiniInputPrice,
		OutputPricePer1K: gpt4oMiniOutputPrice,
	},
}

// CalculateOpenAICost calculates the cost in USD for an OpenAI API call
func CalculateOpenAICost(model string, usage responses.ResponseUsage) float64 {
	pricing, exists := PricingTable[model]
	if !exists {
		pricing = PricingTable["gpt-5.1"]
	}

	inputCost := (float64(usage.InputTokens) / tokensPerKilo) * pricing.InputPricePer1K
	outputCost := (float64(usage.OutputTokens) / tokensPerKilo) * pricing.OutputPricePer1K

	// Reasoning tokens bill at the input rate
	reasoningCost := 0.0
	if usage.OutputTokensDetails.ReasoningTokens > 0 {
		reasoningCost = (float64(usage.OutputTokensDetails.ReasoningTokens) / tokensPerKilo) * pricing.InputPricePer1K
	}

	return inputCost + outputCost + reasoningCost
}

// FormatCost formats a cost value as a USD string
func FormatCost(cost float64) string {
	return "$" + strconv.FormatFloat(cost, 'f', costFormatPrecision, 64)
}
