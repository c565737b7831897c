package main

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-yaml"
)

// flattenYAML decodes a YAML document of variable definitions. Nested
// mappings produce names joined with dots, and sequence elements are named by
// their index. Null values are left undefined.
func flattenYAML(b []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	r := make(map[string]string)
	for k, v := range doc {
		flatten(r, k, v)
	}
	return r, nil
}

func flatten(r map[string]string, name string, v any) {
	switch v := v.(type) {
	case nil:
	case map[string]any:
		for k, w := range v {
			flatten(r, name+"."+k, w)
		}
	case map[any]any:
		for k, w := range v {
			flatten(r, name+"."+fmt.Sprint(k), w)
		}
	case []any:
		for i, w := range v {
			flatten(r, name+"."+strconv.Itoa(i), w)
		}
	case string:
		r[name] = v
	default:
		r[name] = fmt.Sprint(v)
	}
}
