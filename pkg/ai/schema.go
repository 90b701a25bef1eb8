package ai

import (
	"botleague/pkg/utils"

	"github.com/openai/openai-go"
)

type StrategyClassification struct {
	Classification string `json:"Classification" jsonschema_description:"The 2-3 word classification of the trading strategy, e.g. Aggressive Scalping"`
}

var StrategyClassificationSchema, _ = utils.GenerateSchema[StrategyClassification]()

var strategySchemaParam = openai.ResponseFormatJSONSchemaJSONSchemaParam{
	Name:        openai.F("StrategyClassification"),
	Description: openai.F("The classification of the trading strategy"),
	Schema:      openai.F(StrategyClassificationSchema),
}
