package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

const envTargetPrefix = "PINGTARGETS__"

// targetsFromEnv collects PINGTARGETS__<index>__<FIELD> variables, ordered by
// index. It returns nil when no such variable is set.
func targetsFromEnv(environ []string) ([]TargetConfig, error) {
	byIndex := make(map[int]*TargetConfig)

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(strings.ToUpper(key), envTargetPrefix) {
			continue
		}

		parts := strings.Split(key[len(envTargetPrefix):], "__")
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed target variable %q", key)
		}

		index, err := cast.ToIntE(parts[0])
		if err != nil || index < 0 {
			return nil, fmt.Errorf("invalid target index in %q", key)
		}

		tc, exists := byIndex[index]
		if !exists {
			tc = &TargetConfig{}
			byIndex[index] = tc
		}

		switch strings.ToUpper(parts[1]) {
		case "NAME":
			tc.Name = value
		case "ADDRESS":
			tc.Address = value
		case "INTERVALMINUTES", "INTERVAL_MINUTES":
			minutes, err := cast.ToIntE(value)
			if err != nil {
				return nil, fmt.Errorf("invalid interval in %q: %w", key, err)
			}
			tc.IntervalMinutes = minutes
		default:
			return nil, fmt.Errorf("unknown target field in %q", key)
		}
	}

	if len(byIndex) == 0 {
		return nil, nil
	}

	indexes := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	targets := make([]TargetConfig, 0, len(indexes))
	for _, i := range indexes {
		targets = append(targets, *byIndex[i])
	}

	return targets, nil
}
