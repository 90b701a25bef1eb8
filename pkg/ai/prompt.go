package ai

import (
	"fmt"
	"strings"
)

type GenerationType string

const (
	TypeThinking    = GenerationType("thinking")
	TypeStrategy    = GenerationType("strategy")
	TypePerformance = GenerationType("performance")
)

const (
	DefaultMarketData = "SOL price: $142.3, RSI: 28 (oversold), Volume: +340% spike, 24h trend: bearish"
	DefaultStrategy   = "Aggressive meme coin trading"
)

const (
	ThinkingSystemPrompt = `You are an expert crypto trading AI assistant. Generate concise, actionable chain-of-thought reasoning for trading decisions. Focus on technical indicators, market sentiment, and risk management. Keep responses under 100 words.`

	// to use: fmt.Sprintf(ThinkingUserPrompt, marketData, strategy)
	ThinkingUserPrompt = `Given this market scenario:
%s

Current strategy: %s

Generate a brief trading thought/decision in this format:
"🤖 [Indicator analysis] → [Action] at [Price]"

Example: "🤖 RSI=28 (oversold) + volume +340%% → Buying SOL at $142.3"`

	StrategySystemPrompt = `You are a crypto trading strategy analyzer. Analyze trading strategies and provide a concise 2-3 word classification like "Aggressive Scalping", "Conservative DCA", "Momentum Trading", etc. Always answer with a JSON object matching the StrategyClassification schema.`

	// to use: fmt.Sprintf(StrategyUserPrompt, prompt)
	StrategyUserPrompt = `Analyze this trading strategy and classify it in 2-3 words:
"%s"

Respond with a JSON object only, e.g. {"Classification": "Momentum Trading"}`

	PerformanceSystemPrompt = `You are a trading performance analyst. Provide concise analysis of bot performance with specific insights about wins, losses, and suggestions. Keep under 150 words.`

	// to use: fmt.Sprintf(PerformanceUserPrompt, prompt, marketData)
	PerformanceUserPrompt = `Analyze this bot's performance:
Strategy: %s
%s

Provide a brief analysis covering:
1. What's working well
2. Areas of concern
3. One specific suggestion`
)

// buildPrompts returns the system and user messages for a request.
func buildPrompts(req Request) (string, string, error) {
	switch req.Type {
	case TypeThinking:
		marketData := orDefault(req.MarketData, DefaultMarketData)
		strategy := orDefault(req.Prompt, DefaultStrategy)
		return ThinkingSystemPrompt, fmt.Sprintf(ThinkingUserPrompt, marketData, strategy), nil
	case TypeStrategy:
		return StrategySystemPrompt, fmt.Sprintf(StrategyUserPrompt, req.Prompt), nil
	case TypePerformance:
		return PerformanceSystemPrompt, fmt.Sprintf(PerformanceUserPrompt, req.Prompt, req.MarketData), nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownType, req.Type)
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// Placeholder is what callers show when generation fails.
func Placeholder(t GenerationType) string {
	switch t {
	case TypeStrategy:
		return "Custom Strategy"
	case TypePerformance:
		return "Performance analysis unavailable"
	default:
		return "🤖 Analyzing market conditions..."
	}
}
