package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeResult(t *testing.T) {
	tests := []struct {
		name        string
		input       map[string]any
		wantSuccess bool
		wantError   string
		wantPayload map[string]any
	}{
		{
			name: "successful exchange with token",
			input: map[string]any{
				"request_succeeded": "true",
				"access_token":      "abc",
			},
			wantSuccess: true,
			wantPayload: map[string]any{"access_token": "abc"},
		},
		{
			name:        "error without status key defaults to success",
			input:       map[string]any{"request_error": "denied"},
			wantSuccess: true,
			wantError:   "denied",
			wantPayload: map[string]any{},
		},
		{
			name:        "empty result defaults to success",
			input:       map[string]any{},
			wantSuccess: true,
			wantPayload: map[string]any{},
		},
		{
			name: "explicit failure",
			input: map[string]any{
				"request_succeeded": "false",
				"request_error":     "invalid_grant",
			},
			wantSuccess: false,
			wantError:   "invalid_grant",
			wantPayload: map[string]any{},
		},
		{
			name: "status comparison is exact and case-sensitive",
			input: map[string]any{
				"request_succeeded": "True",
			},
			wantSuccess: false,
			wantPayload: map[string]any{},
		},
		{
			name: "non-string status values are stringified",
			input: map[string]any{
				"request_succeeded": true,
				"request_error":     404,
			},
			wantSuccess: true,
			wantError:   "404",
			wantPayload: map[string]any{},
		},
		{
			name: "payload values copied verbatim",
			input: map[string]any{
				"access_token":  "abc",
				"expires_in":    float64(3600),
				"scopes":        []any{"read", "write"},
				"refresh_token": nil,
			},
			wantSuccess: true,
			wantPayload: map[string]any{
				"access_token":  "abc",
				"expires_in":    float64(3600),
				"scopes":        []any{"read", "write"},
				"refresh_token": nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeResult(tt.input)
			assert.Equal(t, tt.wantSuccess, got.RequestSucceeded)
			assert.Equal(t, tt.wantError, got.RequestError)
			assert.Equal(t, tt.wantPayload, got.AuthPayload)
		})
	}
}

func TestNormalizeResult_Idempotent(t *testing.T) {
	first := NormalizeResult(map[string]any{
		"request_succeeded": "true",
		"access_token":      "abc",
	})

	// Re-normalizing the conceptual output shape must not corrupt the
	// reserved fields.
	again := NormalizeResult(map[string]any{
		"request_succeeded": first.RequestSucceeded,
		"access_token":      "abc",
	})
	assert.True(t, again.RequestSucceeded)
	assert.Equal(t, map[string]any{"access_token": "abc"}, again.AuthPayload)
}
