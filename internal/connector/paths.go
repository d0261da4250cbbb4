package connector

import (
	"errors"
	"fmt"
)

const pathInConnectorConfig = "path_in_connector_config"

// ErrMalformedSchema indicates an advanced-auth schema fragment that cannot
// be interpreted. This is a validation failure and aborts the operation.
var ErrMalformedSchema = errors.New("malformed advanced-auth schema")

// ExtractConfigPaths reads the declared OAuth input fields out of an
// advanced-auth schema fragment. Each property is expected to carry a
// path_in_connector_config entry listing the ordered object keys that locate
// the field inside a connector configuration:
//
//	{"properties": {"client_id": {"path_in_connector_config": ["credentials", "client_id"]}}}
//
// A nil schema or one without properties yields an empty map. A property
// whose path entry is missing or not a list of strings is a hard error.
func ExtractConfigPaths(schema map[string]any) (map[string][]string, error) {
	fields := make(map[string][]string)
	if schema == nil {
		return fields, nil
	}

	props, ok := schema["properties"]
	if !ok {
		return fields, nil
	}
	propsMap, ok := props.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: properties is %T, want object", ErrMalformedSchema, props)
	}

	for name, prop := range propsMap {
		propMap, ok := prop.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: property %s is %T, want object", ErrMalformedSchema, name, prop)
		}
		segments, err := stringList(propMap[pathInConnectorConfig])
		if err != nil {
			return nil, fmt.Errorf("%w: property %s: %v", ErrMalformedSchema, name, err)
		}
		fields[name] = segments
	}
	return fields, nil
}

func stringList(v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s is %T, want list of strings", pathInConnectorConfig, v)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s contains %T, want string", pathInConnectorConfig, item)
		}
		out = append(out, s)
	}
	return out, nil
}
