package main

import(
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/abworrall/lfp-viewer/pkg/lfp"
	"github.com/abworrall/lfp-viewer/pkg/overlay"
	"github.com/abworrall/lfp-viewer/pkg/rcache"
	"github.com/abworrall/lfp-viewer/pkg/viewer"
)

type RenderCmd struct {
	flags *Flags

	// flags
	at     string
	group  string
	output string
}

func NewRenderCmd(flags *Flags) *RenderCmd {
	return &RenderCmd{flags: flags}
}

func (cmd *RenderCmd)Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "write what the viewer would show to a PNG",
		UsageText: "lfpview render [--at x,y] [--group g] [-o out.png] PICTURE",
		Description: `Opens the picture as the viewer does, then replays a single pointer event
at the normalized point --at, and writes the displayed bitmap.

Without --at, the initial image is written. --group defaults to the group of
the initial image.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "at",
				Usage:       "normalized pointer position, e.g. 0.25,0.75",
				Destination: &cmd.at,
			},
			&cli.StringFlag{
				Name:        "group",
				Usage:       "refocus, parallax, allfocused or frame",
				Destination: &cmd.group,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Value:       "out.png",
				Destination: &cmd.output,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *RenderCmd)run(ctx context.Context, c *cli.Command) error {
	path, err := pictureArg(c)
	if err != nil {
		return err
	}

	var shown *rcache.Bitmap
	surface := viewer.SurfaceFunc(func(bm *rcache.Bitmap) { shown = bm })

	pic, ctl, err := cmd.flags.open(path, surface)
	if err != nil {
		return err
	}
	defer ctl.OnClose()

	if cmd.at != "" {
		p, err := parsePoint(cmd.at)
		if err != nil {
			return err
		}
		g := ctl.View().Group
		if cmd.group != "" {
			if g, err = lfp.ParseGroup(cmd.group); err != nil {
				return err
			}
		}
		if !ctl.OnPointer(g, p) {
			log.Info().Stringer("group", g).Stringer("at", p).Msg("display unchanged")
		}
	}

	if shown == nil {
		return fmt.Errorf("render %s: nothing could be displayed", pic)
	}

	var img image.Image = shown.RGBA
	if cmd.flags.Config.Overlay {
		hud := overlay.FromController(ctl, viewer.Title(pic, cmd.flags.Config.Title))
		img = overlay.Draw(img, hud, overlay.DefaultTheme)
	}

	if err := writePNG(img, cmd.output); err != nil {
		return err
	}
	fmt.Fprintf(c.Root().Writer, "%s -> %s\n", ctl.View(), cmd.output)
	return nil
}

// parsePoint reads "x,y"; a bare "x" is taken as "x,0.5".
func parsePoint(s string) (lfp.Point, error) {
	bits := strings.Split(s, ",")
	if len(bits) > 2 {
		return lfp.Point{}, fmt.Errorf("point '%s': want x,y", s)
	}
	vals := []float64{0.5, 0.5}
	for i, bit := range bits {
		f, err := strconv.ParseFloat(strings.TrimSpace(bit), 64)
		if err != nil {
			return lfp.Point{}, fmt.Errorf("point '%s': %v", s, err)
		}
		vals[i] = f
	}
	return lfp.Point{X: vals[0], Y: vals[1]}, nil
}

func writePNG(img image.Image, filename string) error {
	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()
	return png.Encode(writer, img)
}
