// Package config holds the viewer's settings, as a YAML document.
package config

import(
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/abworrall/lfp-viewer/pkg/lfp"
	"github.com/abworrall/lfp-viewer/pkg/rcache"
	"github.com/abworrall/lfp-viewer/pkg/viewer"
)

type Config struct {
	Width      int      // initial display size, in pixels
	Height     int
	Square     bool     // show pictures at the largest square that fits the window
	Clamp      bool     // pin pointer drags that leave the window to its edge

	Kernel     string   // resampling kernel, see rcache.ListKernels
	Preload    bool     // decode every stack member before showing anything
	KDTreeMin  int      // 2-D stacks with this many members get a k-d tree; 0 disables

	Overlay    bool     // draw the heads-up display
	Title      string   // window title; %s is the picture's title
}

func NewConfig() Config {
	return Config{
		Width:     viewer.DefaultSize.W,
		Height:    viewer.DefaultSize.H,
		Square:    true,
		Clamp:     true,
		Kernel:    rcache.DefaultKernel,
		Preload:   true,
		KDTreeMin: 32,
		Title:     "%s [LFP Viewer]",
	}
}

// Fields missing from the yaml keep their defaults.
func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// LoadConfig reads a config file; an empty filename gives the defaults.
func LoadConfig(filename string) (Config, error) {
	if filename == "" {
		return NewConfig(), nil
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	c, err := newConfigFromYaml(b)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", filename, err)
	}
	return c, nil
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("# can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

func (c Config)Size() lfp.Size { return lfp.Size{W: c.Width, H: c.Height} }

func (c Config)Validate() error {
	if c.Size().Empty() {
		return fmt.Errorf("config: size %s is empty", c.Size())
	}
	if _, err := rcache.KernelByName(c.Kernel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.KDTreeMin < 0 {
		return fmt.Errorf("config: kdtreemin %d is negative", c.KDTreeMin)
	}
	if n := strings.Count(c.Title, "%"); n > 1 || n != strings.Count(c.Title, "%s") {
		return fmt.Errorf("config: title %q may only use a single %%s", c.Title)
	}
	return nil
}

// ViewerOptions turns the config into controller options.
func (c Config)ViewerOptions(l zerolog.Logger) ([]viewer.Option, error) {
	kernel, err := rcache.KernelByName(c.Kernel)
	if err != nil {
		return nil, err
	}
	return []viewer.Option{
		viewer.WithLogger(l),
		viewer.WithKernel(kernel),
		viewer.WithPreload(c.Preload),
		viewer.WithKDTree(c.KDTreeMin),
		viewer.WithClamp(c.Clamp),
		viewer.WithSquare(c.Square),
	}, nil
}
