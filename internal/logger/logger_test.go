package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}

func TestNewWritesJSONWithServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Service: "consign", Level: "info", Output: &buf})

	cl := Component(l, "cases")
	cl.Info().Int("case_id", 7).Msg("case created")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "consign", line["service"])
	assert.Equal(t, "cases", line["component"])
	assert.Equal(t, "case created", line["message"])
	assert.EqualValues(t, 7, line["case_id"])
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Service: "consign", Level: "error", Output: &buf})
	l.Info().Msg("dropped")
	assert.Zero(t, buf.Len())
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Service: "consign", Output: &buf})

	ctx := WithContext(context.Background(), l.With().Str("request_id", "abc").Logger())
	reqLog := FromContext(ctx)
	reqLog.Info().Msg("hello")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)

	// no logger in context: must not panic and must not write
	nop := FromContext(context.Background())
	nop.Info().Msg("nothing")
	assert.NotContains(t, buf.String(), "nothing")
}
