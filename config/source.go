// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// flatten walks a decoded document and collects its scalar values into m.
// Nested keys are joined with an underscore, e.g. {"db": {"url": x}}
// becomes "db_url", and lists become comma separated strings.
func flatten(m Map, prefix string, doc map[string]any) {
	for k, v := range doc {
		name := k
		if prefix != "" {
			name = prefix + "_" + k
		}
		switch x := v.(type) {
		case map[string]any:
			flatten(m, name, x)
		default:
			m[name] = stringify(x)
		}
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		ss := make([]string, len(x))
		for i, e := range x {
			ss[i] = stringify(e)
		}
		return strings.Join(ss, ",")
	default:
		return fmt.Sprint(x)
	}
}
