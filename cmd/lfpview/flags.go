package main

import(
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/abworrall/lfp-viewer/pkg/config"
	"github.com/abworrall/lfp-viewer/pkg/picstore"
	"github.com/abworrall/lfp-viewer/pkg/viewer"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Overrides for the config file
	Width      int64
	Height     int64
	Kernel     string
	Overlay    bool

	// Config is loaded in the Before hook and available to all commands
	Config     config.Config
}

func (f *Flags)loadConfig(c *cli.Command) error {
	cfg, err := config.LoadConfig(f.ConfigPath)
	if err != nil {
		return err
	}

	if c.IsSet("width")   { cfg.Width = int(f.Width) }
	if c.IsSet("height")  { cfg.Height = int(f.Height) }
	if c.IsSet("kernel")  { cfg.Kernel = f.Kernel }
	if c.IsSet("overlay") { cfg.Overlay = f.Overlay }

	if err := cfg.Validate(); err != nil {
		return err
	}
	f.Config = cfg
	return nil
}

func pictureArg(c *cli.Command) (string, error) {
	if c.Args().Len() != 1 {
		return "", fmt.Errorf("%s: expected one PICTURE, got %d args", c.Name, c.Args().Len())
	}
	return c.Args().First(), nil
}

// open loads the picture and starts a controller on it, showing the
// initial image on `surface`.
func (f *Flags)open(path string, surface viewer.Surface) (*picstore.Picture, *viewer.Controller, error) {
	pic, err := picstore.Load(path)
	if err != nil {
		return nil, nil, err
	}

	opts, err := f.Config.ViewerOptions(log.Logger)
	if err != nil {
		return nil, nil, err
	}
	ctl, err := viewer.New(pic, surface, f.Config.Size(), opts...)
	if err != nil {
		return nil, nil, err
	}
	return pic, ctl, nil
}
