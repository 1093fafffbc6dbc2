package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-ir/packages/compiler-cli/src/logging"
)

func TestSetupWriter(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	require.NoError(t, logging.SetupWriter(&buf, "warn", false))

	log.Info().Msg("hidden")
	log.Warn().Str("component", "AppComponent").Msg("shown")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "AppComponent", entry["component"])
	assert.Equal(t, "shown", entry["message"])
}

func TestParseLevel(t *testing.T) {
	lvl, err := logging.ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)

	lvl, err = logging.ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, lvl)

	_, err = logging.ParseLevel("loud")
	assert.ErrorContains(t, err, `invalid log level "loud"`)
}
