// Package export renders events as shareable PNG cards.
package export

import (
	"image"
	"image/color"
	"strings"

	"github.com/cwarden/zcal/internal/calendar"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	CardWidth  = 720
	CardHeight = 480

	titleScale   = 4
	dateScale    = 2
	footerScale  = 2
	maxTitleRows = 3
	panelInset   = 32

	Footer = "Created with Z-Calendar"
)

type palette struct {
	from, to color.RGBA
	panel    color.NRGBA
	text     color.RGBA
	muted    color.RGBA
}

var palettes = map[calendar.Theme]palette{
	calendar.ThemeMinimal: {
		from:  color.RGBA{0xff, 0xff, 0xff, 0xff},
		to:    color.RGBA{0xf3, 0xf4, 0xf6, 0xff},
		panel: color.NRGBA{0xf9, 0xfa, 0xfb, 0xff},
		text:  color.RGBA{0x11, 0x18, 0x27, 0xff},
		muted: color.RGBA{0x6b, 0x72, 0x80, 0xff},
	},
	calendar.ThemePastel: {
		from:  color.RGBA{0xfc, 0xe7, 0xf3, 0xff},
		to:    color.RGBA{0xdb, 0xea, 0xfe, 0xff},
		panel: color.NRGBA{0xff, 0xff, 0xff, 0x99},
		text:  color.RGBA{0x58, 0x1c, 0x87, 0xff},
		muted: color.RGBA{0x7c, 0x3a, 0xed, 0xff},
	},
	calendar.ThemeGradient: {
		from:  color.RGBA{0x8b, 0x5c, 0xf6, 0xff},
		to:    color.RGBA{0xec, 0x48, 0x99, 0xff},
		panel: color.NRGBA{0xff, 0xff, 0xff, 0x33},
		text:  color.RGBA{0xff, 0xff, 0xff, 0xff},
		muted: color.RGBA{0xfc, 0xe7, 0xf3, 0xff},
	},
	calendar.ThemeDark: {
		from:  color.RGBA{0x11, 0x18, 0x27, 0xff},
		to:    color.RGBA{0x1f, 0x29, 0x37, 0xff},
		panel: color.NRGBA{0x37, 0x41, 0x51, 0xcc},
		text:  color.RGBA{0xf9, 0xfa, 0xfb, 0xff},
		muted: color.RGBA{0x9c, 0xa3, 0xaf, 0xff},
	},
}

// LongDate formats a canonical date as e.g. "Saturday, June 1, 2024".
func LongDate(date string) string {
	day, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	return day.Format("Monday, January 2, 2006")
}

// RenderCard draws the event on a themed background. The built-in face
// only covers ASCII, so emoji are dropped from the card text.
func RenderCard(event calendar.Event, theme calendar.Theme) *image.RGBA {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[calendar.DefaultTheme]
	}

	img := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	fillGradient(img, p.from, p.to)
	panel := image.Rect(panelInset, panelInset, CardWidth-panelInset, CardHeight-panelInset)
	draw.Draw(img, panel, image.NewUniform(p.panel), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil()

	cols := CardWidth / (face.Advance * titleScale)
	title := strings.TrimSpace(printable(event.Title))
	rows := strings.Split(wordwrap.String(title, cols-2), "\n")
	if len(rows) > maxTitleRows {
		last := strings.Join(rows[maxTitleRows-1:], " ")
		rows = rows[:maxTitleRows]
		rows[maxTitleRows-1] = truncate.StringWithTail(last, uint(cols-2), "...")
	}

	y := CardHeight/2 - (len(rows)*lineHeight*titleScale)/2 - lineHeight*dateScale
	for _, row := range rows {
		drawCentered(img, truncate.String(row, uint(cols)), y, titleScale, p.text)
		y += lineHeight * titleScale
	}

	y += lineHeight
	drawCentered(img, LongDate(event.Date), y, dateScale, p.text)

	drawCentered(img, Footer, CardHeight-lineHeight*footerScale*2, footerScale, p.muted)

	return img
}

// fillGradient paints a vertical blend from the top row to the bottom.
func fillGradient(img *image.RGBA, from, to color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		t := float64(y-b.Min.Y) / float64(b.Dy())
		row := color.RGBA{
			R: lerp(from.R, to.R, t),
			G: lerp(from.G, to.G, t),
			B: lerp(from.B, to.B, t),
			A: 0xff,
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, row)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// drawCentered renders s with the basic face at 1x, then scales it onto
// dst so the top of the text sits at y.
func drawCentered(dst *image.RGBA, s string, y, scale int, c color.Color) {
	if s == "" {
		return
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	width := font.MeasureString(face, s).Ceil()
	height := metrics.Height.Ceil()

	layer := image.NewRGBA(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(s)

	x := (dst.Bounds().Dx() - width*scale) / 2
	target := image.Rect(x, y, x+width*scale, y+height*scale)
	draw.NearestNeighbor.Scale(dst, target, layer, layer.Bounds(), draw.Over, nil)
}

func printable(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return -1
		}
		return r
	}, s)
}
