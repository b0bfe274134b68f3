package bcf

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ParseAndValidateYAML parses a YAML rendition of a document and validates
// it. A parse failure yields a single schema error at "/". YAML mappings
// cannot repeat keys, so duplicate keys surface as parse failures.
func ParseAndValidateYAML(text []byte, opts ...ValidateOptions) Result {
	var raw any
	if err := yaml.Unmarshal(text, &raw); err != nil {
		return invalid(schemaError("/", CodeParseError, "Invalid YAML: "+err.Error()))
	}
	return Validate(yamlNormalize(raw), opts...)
}

// yamlNormalize converts YAML-decoded values into the JSON value tree the
// grammar expects: mappings become map[string]any and timestamps strings.
func yamlNormalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = yamlNormalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			out[ks] = yamlNormalize(vv)
		}
		return out
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = yamlNormalize(t[i])
		}
		return arr
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}
