package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// secretKeys lists the dot-separated keys whose values should be masked.
var secretKeys = map[string]bool{
	"llm.api_key":    true,
	"smtp.password":  true,
	"telegram.token": true,
}

// IsSecretKey returns true if the given dot-separated key is a secret.
func IsSecretKey(key string) bool {
	return secretKeys[key]
}

// Flatten converts a nested map into a flat map with dot-separated keys.
// For example, {"llm": {"model": "gpt-4"}} becomes {"llm.model": "gpt-4"}.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	flatten("", m, out)
	return out
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch child := v.(type) {
		case map[string]any:
			flatten(key, child, out)
		default:
			out[key] = v
		}
	}
}

// Unflatten converts a flat map with dot-separated keys back into a nested map.
// For example, {"llm.model": "gpt-4"} becomes {"llm": {"model": "gpt-4"}}.
func Unflatten(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range flat {
		parts := strings.Split(k, ".")
		current := out
		for i, part := range parts {
			if i == len(parts)-1 {
				current[part] = v
			} else {
				next, ok := current[part]
				if !ok {
					next = make(map[string]any)
					current[part] = next
				}
				m, ok := next.(map[string]any)
				if !ok {
					m = make(map[string]any)
					current[part] = m
				}
				current = m
			}
		}
	}
	return out
}

// MaskSecrets returns a copy of the flat map with secret values masked.
// Secret keys (llm.api_key, smtp.password, telegram.token) are shown as
// "***xxxx" where xxxx is the last 4 characters of the value. Empty
// values are left empty.
func MaskSecrets(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for k, v := range flat {
		if secretKeys[k] {
			s, ok := v.(string)
			if ok && s != "" {
				if len(s) <= 4 {
					out[k] = "***" + s
				} else {
					out[k] = "***" + s[len(s)-4:]
				}
			} else {
				out[k] = v
			}
		} else {
			out[k] = v
		}
	}
	return out
}

// toFlatMap round-trips a Config through JSON into a flat key map.
func toFlatMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return Flatten(nested), nil
}

// ListValues returns every config key and value as a flat map. With mask set,
// secret values are obscured for display.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	flat, err := toFlatMap(cfg)
	if err != nil {
		return nil, err
	}
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue loads the config at path and returns the value for the
// dot-separated key. Secret values are masked.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	flat, err := ListValues(cfg, true)
	if err != nil {
		return nil, err
	}
	val, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return val, nil
}

// SetValue loads the config at path, sets the dot-separated key to value,
// and saves it back. The value is parsed as JSON where possible so numbers
// and booleans keep their type; otherwise it is stored as a string.
func SetValue(path, key, value string) error {
	cfg, err := Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flat, err := toFlatMap(cfg)
	if err != nil {
		return err
	}
	if _, ok := flat[key]; !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}

	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		parsed = value
	}
	flat[key] = parsed

	nested := Unflatten(flat)
	data, err := json.Marshal(nested)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var updated Config
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("apply config value: %w", err)
	}
	return Save(path, &updated)
}
