package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	tests := map[string]struct {
		env         map[string]string
		wantEnabled bool
		wantRatio   float64
		wantName    string
	}{
		"defaults": {
			env:         map[string]string{},
			wantEnabled: false,
			wantRatio:   0.1,
			wantName:    "genai-news",
		},
		"enabled with ratio": {
			env: map[string]string{
				"OTEL_ENABLED":            "true",
				"OTEL_TRACE_SAMPLE_RATIO": "0.5",
				"OTEL_SERVICE_NAME":       "genai-news-canary",
			},
			wantEnabled: true,
			wantRatio:   0.5,
			wantName:    "genai-news-canary",
		},
		"out of range ratio ignored": {
			env: map[string]string{
				"OTEL_TRACE_SAMPLE_RATIO": "3",
			},
			wantRatio: 0.1,
			wantName:  "genai-news",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			cfg := ConfigFromEnv()
			assert.Equal(t, tc.wantEnabled, cfg.Enabled)
			assert.Equal(t, tc.wantRatio, cfg.SampleRatio)
			assert.Equal(t, tc.wantName, cfg.ServiceName)
		})
	}
}

func TestInitProvider_Disabled(t *testing.T) {
	shutdown, err := InitProvider(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
