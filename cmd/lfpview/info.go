package main

import(
	"context"
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/abworrall/lfp-viewer/pkg/lfp"
	"github.com/abworrall/lfp-viewer/pkg/picstore"
)

type InfoCmd struct {
	flags *Flags

	// flags
	depthPNG string
}

func NewInfoCmd(flags *Flags) *InfoCmd {
	return &InfoCmd{flags: flags}
}

func (cmd *InfoCmd)Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "info",
		Usage:     "describe a picture",
		UsageText: "lfpview info [--depth depth.png] PICTURE",
		Description: `Lists the picture's groups with member counts and coordinate ranges, the
capture details from any EXIF, and which image codecs are available.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "depth",
				Usage:       "also write the depth lookup table as a greyscale PNG",
				Destination: &cmd.depthPNG,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InfoCmd)run(ctx context.Context, c *cli.Command) error {
	path, err := pictureArg(c)
	if err != nil {
		return err
	}
	pic, err := picstore.Load(path)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.Root().Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "title\t%s\n", pic.Title())
	fmt.Fprintf(w, "manifest\t%s\n", pic.Path)

	for _, g := range lfp.Groups {
		if !pic.HasGroup(g) {
			fmt.Fprintf(w, "%s\t-\n", g)
			continue
		}
		if !g.IsStack() {
			f, _ := pic.File(lfp.ImageKey{Group: g})
			fmt.Fprintf(w, "%s\t%s\n", g, f)
			continue
		}
		members, err := pic.Stack(g)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d members\t%s\n", g, len(members), coordRanges(members, g.Dims()))
	}

	if fg, ok := pic.DepthGrid(); ok {
		fmt.Fprintf(w, "depth\t%s\n", fg.Stats())
		if cmd.depthPNG != "" {
			if err := writePNG(fg.ToImg(pic.Title(), 8), cmd.depthPNG); err != nil {
				return err
			}
			fmt.Fprintf(w, "\t-> %s\n", cmd.depthPNG)
		}
	}

	if ci, err := pic.CaptureInfo(); err == nil {
		fmt.Fprintf(w, "capture\t%s\n", ci)
	} else {
		fmt.Fprintf(w, "capture\t(%v)\n", err)
	}

	caps := picstore.GetCapabilities()
	strs := []string{}
	for _, f := range caps.Formats() {
		if caps[f].Available {
			strs = append(strs, string(f))
		} else {
			strs = append(strs, "!"+string(f))
		}
	}
	fmt.Fprintf(w, "codecs\t%s\n", strings.Join(strs, " "))

	return w.Flush()
}

func coordRanges(members []lfp.Member, dims int) string {
	if len(members) == 0 {
		return ""
	}
	names := []string{"depth"}
	if dims == 2 {
		names = []string{"x", "y"}
	}

	strs := []string{}
	for d, name := range names {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, m := range members {
			lo, hi = math.Min(lo, m.Coord[d]), math.Max(hi, m.Coord[d])
		}
		strs = append(strs, fmt.Sprintf("%s [%.3f, %.3f]", name, lo, hi))
	}
	return strings.Join(strs, ", ")
}
