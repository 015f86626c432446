// Package render draws an exported document as a storyboard PNG: one row per
// frame with its number and caption, followed by a labelled slot per image.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"path"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/jask/framebuilder/internal/board"
)

// Layout sizes in pixels.
const (
	margin     = 16.0
	rowHeader  = 28.0
	slotWidth  = 160.0
	slotHeight = 96.0
	slotGap    = 12.0
	rowGap     = 20.0
	fontSize   = 12.0
	minSlots   = 4
)

var (
	frameBorder = color.RGBA{0x44, 0x44, 0x44, 0xff}
	slotFill    = color.RGBA{0xee, 0xf2, 0xf7, 0xff}
	emptyFill   = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	mutedText   = color.RGBA{0x88, 0x88, 0x88, 0xff}
)

func loadFace() (font.Face, error) {
	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Size returns the image dimensions Storyboard uses for doc.
func Size(doc board.Document) (width, height int) {
	slots := minSlots
	for _, f := range doc {
		slots = max(slots, len(f.Images))
	}
	rows := max(len(doc), 1)
	w := 2*margin + float64(slots)*slotWidth + float64(slots-1)*slotGap
	h := 2*margin + float64(rows)*(rowHeader+slotHeight) + float64(rows-1)*rowGap
	return int(w), int(h)
}

// Storyboard draws doc.
func Storyboard(doc board.Document) (image.Image, error) {
	face, err := loadFace()
	if err != nil {
		return nil, err
	}
	w, h := Size(doc)
	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(face)

	if len(doc) == 0 {
		dc.SetColor(mutedText)
		dc.DrawString("No frames", margin, margin+rowHeader/2)
		return dc.Image(), nil
	}

	for i, f := range doc {
		y := margin + float64(i)*(rowHeader+slotHeight+rowGap)
		drawHeader(dc, i+1, f.Caption, y, float64(w))
		drawSlots(dc, f.Images, y+rowHeader)
	}
	return dc.Image(), nil
}

func drawHeader(dc *gg.Context, n int, caption string, y, width float64) {
	dc.SetColor(color.Black)
	label := fmt.Sprintf("%d.", n)
	if c := strings.TrimSpace(caption); c != "" {
		label += " " + fitText(dc, strings.ReplaceAll(c, "\n", " "), width-2*margin)
	} else {
		dc.DrawString(label, margin, y+fontSize)
		dc.SetColor(mutedText)
		lw, _ := dc.MeasureString(label + " ")
		dc.DrawString("(no caption)", margin+lw, y+fontSize)
		return
	}
	dc.DrawString(label, margin, y+fontSize)
}

func drawSlots(dc *gg.Context, images []board.ExportImage, y float64) {
	if len(images) == 0 {
		dc.SetColor(emptyFill)
		dc.DrawRectangle(margin, y, slotWidth, slotHeight)
		dc.Fill()
		dc.SetColor(mutedText)
		dc.DrawStringAnchored("empty", margin+slotWidth/2, y+slotHeight/2, 0.5, 0.5)
		return
	}
	for j, img := range images {
		x := margin + float64(j)*(slotWidth+slotGap)
		dc.SetColor(slotFill)
		dc.DrawRectangle(x, y, slotWidth, slotHeight)
		dc.Fill()
		dc.SetLineWidth(1)
		dc.SetColor(frameBorder)
		dc.DrawRectangle(x, y, slotWidth, slotHeight)
		dc.Stroke()

		dc.SetColor(color.Black)
		dc.DrawStringAnchored(fitText(dc, slotLabel(img.URL), slotWidth-8), x+slotWidth/2, y+slotHeight/2, 0.5, 0.5)
		if len(img.Sizes) > 1 {
			dc.SetColor(mutedText)
			dc.DrawStringAnchored(fmt.Sprintf("%d sizes", len(img.Sizes)), x+slotWidth/2, y+slotHeight-fontSize, 0.5, 0.5)
		}
	}
}

// slotLabel is the last path element of rawURL.
func slotLabel(rawURL string) string {
	base := path.Base(strings.SplitN(rawURL, "?", 2)[0])
	if base == "." || base == "/" {
		return rawURL
	}
	return base
}

// fitText trims s with an ellipsis until it fits in width.
func fitText(dc *gg.Context, s string, width float64) string {
	if w, _ := dc.MeasureString(s); w <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		candidate := string(r) + "…"
		if w, _ := dc.MeasureString(candidate); w <= width {
			return candidate
		}
	}
	return ""
}

// Encode writes the storyboard for doc to w as PNG.
func Encode(w io.Writer, doc board.Document) error {
	img, err := Storyboard(doc)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	return dc.EncodePNG(w)
}

// SavePNG writes the storyboard for doc to filename.
func SavePNG(filename string, doc board.Document) error {
	img, err := Storyboard(doc)
	if err != nil {
		return err
	}
	return gg.SavePNG(filename, img)
}
