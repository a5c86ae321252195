package config

import (
	"fmt"
	"os"
	"strings"
)

type EnvLoader struct {
	prefix string
}

func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix}
}

// GetString retrieves a string value from environment variable
// Returns defaultValue if not found
func (e *EnvLoader) GetString(key, defaultValue string) string {
	envKey := e.buildKey(key)
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return defaultValue
}

// buildKey constructs the full environment variable key with prefix
// Example: prefix="FIRSTBLOOD", key="CONFIG_PATH" -> "FIRSTBLOOD_CONFIG_PATH"
func (e *EnvLoader) buildKey(key string) string {
	if e.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s_%s", e.prefix, key)
}

// newEnvKeyReplacer maps nested viper keys such as output.path onto
// FIRSTBLOOD_OUTPUT_PATH.
func newEnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}
