package config

import (
	"fmt"
	"math"
	"strconv"
)

// FlattenEnvValue converts a raw JSON-decoded config value into the string
// form an OS environment variable requires (spec §6: "booleans -> true/false,
// numbers -> decimal").
func FlattenEnvValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// MergedEnv flattens global and per-server env maps into a single
// string-keyed, string-valued map, with per-server entries overriding
// global ones of the same name (spec §6).
func MergedEnv(global, perServer map[string]any) map[string]string {
	out := make(map[string]string, len(global)+len(perServer))
	for k, v := range global {
		out[k] = FlattenEnvValue(v)
	}
	for k, v := range perServer {
		out[k] = FlattenEnvValue(v)
	}
	return out
}
