package utils

import (
	"fmt"

	"github.com/invopop/jsonschema"
)

// GenerateSchema reflects T into a strict, inlined JSON schema suitable for
// structured chat completion responses.
func GenerateSchema[T any]() (interface{}, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(new(T))
	if schema == nil {
		return nil, fmt.Errorf("fail to reflect schema for %T", *new(T))
	}
	return schema, nil
}
