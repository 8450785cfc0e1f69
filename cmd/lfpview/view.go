package main

import(
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/draw"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/abworrall/lfp-viewer/pkg/input"
	"github.com/abworrall/lfp-viewer/pkg/overlay"
	"github.com/abworrall/lfp-viewer/pkg/picstore"
	"github.com/abworrall/lfp-viewer/pkg/rcache"
	"github.com/abworrall/lfp-viewer/pkg/viewer"
)

type ViewCmd struct {
	flags *Flags
}

func NewViewCmd(flags *Flags) *ViewCmd {
	return &ViewCmd{flags: flags}
}

func (cmd *ViewCmd)Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "view",
		Usage:     "open a picture in a window",
		UsageText: "lfpview view PICTURE",
		Description: `Left button refocuses, right button moves the viewpoint, middle button
shows the all-focused image; drag to keep going. 'h' toggles the heads-up
display. Escape, ctrl-w or ctrl-q closes the window.`,
		Action: cmd.run,
	})
	return app
}

func (cmd *ViewCmd)run(ctx context.Context, c *cli.Command) error {
	path, err := pictureArg(c)
	if err != nil {
		return err
	}
	pic, err := picstore.Load(path)
	if err != nil {
		return err
	}

	var runErr error
	driver.Main(func(s screen.Screen) {
		runErr = cmd.runWindow(s, pic)
	})
	return runErr
}

// window is the viewer's surface: the controller hands it bitmaps, and it
// paints the latest one centered in the window.
type window struct {
	s        screen.Screen
	w        screen.Window
	ctl      *viewer.Controller
	title    string

	bm       *rcache.Bitmap
	hud      bool
	pressed  input.Button
	winSize  image.Point
}

func (win *window)Show(bm *rcache.Bitmap) {
	win.bm = bm
	win.w.Send(paint.Event{})
}

func (cmd *ViewCmd)runWindow(s screen.Screen, pic *picstore.Picture) error {
	cfg := cmd.flags.Config
	title := viewer.Title(pic, cfg.Title)

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: cfg.Width, Height: cfg.Height, Title: title})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer w.Release()

	win := &window{s: s, w: w, title: title, hud: cfg.Overlay, winSize: image.Point{cfg.Width, cfg.Height}}

	opts, err := cfg.ViewerOptions(log.Logger)
	if err != nil {
		return err
	}
	if win.ctl, err = viewer.New(pic, win, cfg.Size(), opts...); err != nil {
		return err
	}
	defer win.ctl.OnClose()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				win.ctl.HandleClose()
				return nil
			}

		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if isCloseKey(e) {
				win.ctl.HandleClose()
				return nil
			}
			if e.Code == key.CodeH {
				win.hud = !win.hud
				w.Send(paint.Event{})
			}

		case mouse.Event:
			win.handleMouse(e)

		case size.Event:
			win.winSize = e.Size()
			if !win.ctl.HandleResize(e.WidthPx, e.HeightPx) {
				// Same display size, but it still needs re-centering
				w.Send(paint.Event{})
			}

		case paint.Event:
			win.paint()

		case error:
			log.Error().Err(e).Msg("window")
		}
	}
}

func isCloseKey(e key.Event) bool {
	if e.Code == key.CodeEscape {
		return true
	}
	ctrl := e.Modifiers&key.ModControl != 0
	return ctrl && (e.Code == key.CodeW || e.Code == key.CodeQ)
}

func buttonFor(b mouse.Button) input.Button {
	switch b {
	case mouse.ButtonLeft:   return input.ButtonLeft
	case mouse.ButtonMiddle: return input.ButtonMiddle
	case mouse.ButtonRight:  return input.ButtonRight
	default:                 return input.ButtonNone
	}
}

// Presses and drags move the view; the button is remembered between the
// press and the release, as drag events don't carry it.
func (win *window)handleMouse(e mouse.Event) {
	switch e.Direction {
	case mouse.DirPress:
		win.pressed = buttonFor(e.Button)
	case mouse.DirRelease:
		win.pressed = input.ButtonNone
		return
	}
	if win.pressed == input.ButtonNone {
		return
	}

	off := win.offset()
	win.ctl.HandleButton(win.pressed, float64(e.X)-float64(off.X), float64(e.Y)-float64(off.Y))
}

// offset is where the bitmap's origin sits in the window.
func (win *window)offset() image.Point {
	vs := win.ctl.View().Size
	return image.Point{(win.winSize.X - vs.W) / 2, (win.winSize.Y - vs.H) / 2}
}

func (win *window)paint() {
	if win.winSize.X <= 0 || win.winSize.Y <= 0 {
		return
	}
	b, err := win.s.NewBuffer(win.winSize)
	if err != nil {
		log.Error().Err(err).Msg("new buffer")
		return
	}
	defer b.Release()

	dst := b.RGBA()
	draw.Draw(dst, dst.Bounds(), image.Black, image.Point{}, draw.Src)

	if win.bm != nil && win.ctl.State() == viewer.Ready {
		var img image.Image = win.bm.RGBA
		if win.hud {
			img = overlay.Draw(img, overlay.FromController(win.ctl, win.title), overlay.DefaultTheme)
		}
		draw.Draw(dst, img.Bounds().Add(win.offset()), img, image.Point{}, draw.Src)
	}

	win.w.Upload(image.Point{}, b, b.Bounds())
	win.w.Publish()
}
