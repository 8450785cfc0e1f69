package config

import(
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/lfp-viewer/pkg/lfp"
)

func TestDefaults(t *testing.T) {
	c := NewConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, lfp.Size{W: 648, H: 648}, c.Size())
	assert.True(t, c.Square)
	assert.True(t, c.Clamp)
	assert.True(t, c.Preload)
	assert.Equal(t, "catmullrom", c.Kernel)
	assert.Equal(t, 32, c.KDTreeMin)
	assert.False(t, c.Overlay)

	opts, err := c.ViewerOptions(zerolog.Nop())
	require.NoError(t, err)
	assert.Len(t, opts, 6)
}

func TestYaml(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    func(c Config) bool
		wantErr bool
	}{
		{
			name: "partial keeps defaults",
			yaml: "width: 300\nkernel: bilinear\n",
			want: func(c Config) bool { return c.Width == 300 && c.Height == 648 && c.Kernel == "bilinear" },
		},
		{
			name: "switches off",
			yaml: "square: false\nclamp: false\npreload: false\nkdtreemin: 0\noverlay: true\n",
			want: func(c Config) bool { return !c.Square && !c.Clamp && !c.Preload && c.KDTreeMin == 0 && c.Overlay },
		},
		{name: "unknown field", yaml: "colour: blue\n", wantErr: true},
		{name: "bad kernel", yaml: "kernel: lanczos\n", wantErr: true},
		{name: "empty size", yaml: "height: 0\n", wantErr: true},
		{name: "negative kdtree", yaml: "kdtreemin: -1\n", wantErr: true},
		{name: "bad title", yaml: "title: \"%d pics\"\n", wantErr: true},
		{name: "two titles", yaml: "title: \"%s %s\"\n", wantErr: true},
		{name: "plain title", yaml: "title: Viewer\n", want: func(c Config) bool { return c.Title == "Viewer" }},
		{name: "not yaml", yaml: "width: [\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newConfigFromYaml([]byte(tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want(c), c.AsYaml())
		})
	}
}

func TestRoundTrip(t *testing.T) {
	c := NewConfig()
	c.Width, c.Kernel, c.Overlay = 400, "nearest", true

	c2, err := newConfigFromYaml([]byte(c.AsYaml()))
	require.NoError(t, err)
	assert.Equal(t, c, c2)
}

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), c)

	dir := t.TempDir()
	filename := filepath.Join(dir, "lfpview.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("width: 100\nheight: 80\n"), 0o644))
	c, err = LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, lfp.Size{W: 100, H: 80}, c.Size())

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
