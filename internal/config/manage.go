package config

import (
	"fmt"
	"strconv"
)

// KeyInfo describes a config key for display purposes.
type KeyInfo struct {
	Key    string
	EnvVar string
	Value  string
}

// ShowAll returns all config key/value pairs from the current config.
func ShowAll(cfg Config) []KeyInfo {
	var result []KeyInfo
	for _, s := range specs {
		result = append(result, KeyInfo{
			Key:    s.key,
			EnvVar: s.env,
			Value:  fmt.Sprintf("%v", s.extract(cfg)),
		})
	}
	return result
}

// SetKey writes a config key to the file backend. Boolean values are
// validated and stored normalized.
func SetKey(key, value string) error {
	for _, s := range specs {
		if s.key != key {
			continue
		}
		if s.typ == kBool {
			v, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean value for %s: %w", key, err)
			}
			value = strconv.FormatBool(v)
		}
		return newFileBackend().SetString(key, value)
	}
	return fmt.Errorf("unknown config key: %q", key)
}

// UnsetKey removes a key from the file backend so its default applies
// again.
func UnsetKey(key string) error {
	for _, s := range specs {
		if s.key == key {
			return newFileBackend().Delete(key)
		}
	}
	return fmt.Errorf("unknown config key: %q", key)
}

// ValidKeys returns the list of valid config key names.
func ValidKeys() []string {
	keys := make([]string, len(specs))
	for i, s := range specs {
		keys[i] = s.key
	}
	return keys
}
