package utils

import (
	"os"
	"strconv"
	"strings"
)

// LoadEnvWithDefault returns the trimmed value of key, or def when unset/empty.
func LoadEnvWithDefault(key string, def string) string {
	value, valid := os.LookupEnv(key)
	if !valid || strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func LoadBoolEnvWithDefault(key string) bool {
	value, valid := os.LookupEnv(key)
	if !valid || value == "" {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}
