package logutils

import(
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "lfpview.log")

	l, closer, err := New("warn", file)
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())

	l.Info().Msg("dropped")
	l.Warn().Str("image", "refocus/3").Msg("render abandoned")
	closer()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "dropped")
	assert.Contains(t, string(b), `"image":"refocus/3"`)
}

func TestNewBadLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	assert.Error(t, err)
	assert.NotNil(t, closer)
}

func TestNewConsole(t *testing.T) {
	l, closer, err := New("debug", "")
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
}
