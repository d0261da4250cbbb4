package oauth

import "fmt"

// Reserved keys lifted out of a raw provider result into structured fields.
const (
	keyRequestSucceeded = "request_succeeded"
	keyRequestError     = "request_error"
)

// Response is the uniform shape every provider exchange result is normalized
// into. AuthPayload holds whatever the provider returned minus the reserved
// status keys, values untouched.
type Response struct {
	RequestSucceeded bool           `json:"request_succeeded"`
	RequestError     string         `json:"request_error,omitempty"`
	AuthPayload      map[string]any `json:"auth_payload"`
}

// NormalizeResult lifts the reserved status keys out of a raw provider result
// mapping. request_succeeded is true iff its value's string form is exactly
// "true"; when the key is absent the request is assumed to have succeeded.
// request_error, if present, is stringified. Every other key is copied into
// AuthPayload verbatim.
func NormalizeResult(result map[string]any) *Response {
	resp := &Response{
		RequestSucceeded: true,
		AuthPayload:      make(map[string]any),
	}

	if v, ok := result[keyRequestSucceeded]; ok {
		resp.RequestSucceeded = fmt.Sprintf("%v", v) == "true"
	}
	if v, ok := result[keyRequestError]; ok {
		resp.RequestError = fmt.Sprintf("%v", v)
	}

	for k, v := range result {
		if k == keyRequestSucceeded || k == keyRequestError {
			continue
		}
		resp.AuthPayload[k] = v
	}
	return resp
}
