package chart

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// placed is a rendered panel and its top-left corner on the figure.
type placed struct {
	img image.Image
	at  image.Point
}

// compose pastes panels onto a white canvas of w x h pixels.
func compose(w, h int, panels ...placed) *image.NRGBA {
	canvas := imaging.New(w, h, color.White)
	for _, p := range panels {
		canvas = imaging.Paste(canvas, p.img, p.at)
	}
	return canvas
}

// text draws s centered horizontally on cx with its baseline at y.
// size is in points.
func (r *Renderer) text(dst draw.Image, s string, size float64, col color.Color, cx, y int) error {
	face, err := opentype.NewFace(r.bold, &opentype.FaceOptions{
		Size:    size,
		DPI:     r.opts.DPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	width := d.MeasureString(s).Round()
	d.Dot = fixed.P(cx-width/2, y)
	d.DrawString(s)
	return nil
}

// textRight draws s so that it ends at x, baseline y.
func (r *Renderer) textRight(dst draw.Image, s string, size float64, col color.Color, x, y int) error {
	face, err := opentype.NewFace(r.bold, &opentype.FaceOptions{Size: size, DPI: r.opts.DPI, Hinting: font.HintingFull})
	if err != nil {
		return err
	}
	defer face.Close()

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	d.Dot = fixed.P(x-d.MeasureString(s).Round(), y)
	d.DrawString(s)
	return nil
}

// noData is the placeholder panel for an empty dataset.
func (r *Renderer) noData(title string, w, h int) (image.Image, error) {
	img := imaging.New(w, h, color.White)
	if err := r.text(img, title, 14, color.Black, w/2, r.px(0.5)); err != nil {
		return nil, err
	}
	if err := r.text(img, "No data", 20, color.Gray{Y: 0x80}, w/2, h/2); err != nil {
		return nil, err
	}
	return img, nil
}

// card draws one dashboard metric: a tinted, outlined box holding value,
// with the label lines underneath.
func (r *Renderer) card(w, h int, value string, label []string, col color.Color) (image.Image, error) {
	img := imaging.New(w, h, color.White)

	box := image.Rect(w/10, h*3/10, w*9/10, h*7/10)
	fill := imaging.New(box.Dx(), box.Dy(), col)
	img = imaging.Overlay(img, fill, box.Min, 0.3)

	border := max(2, r.px(0.02))
	uni := image.NewUniform(col)
	for _, edge := range []image.Rectangle{
		image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+border),
		image.Rect(box.Min.X, box.Max.Y-border, box.Max.X, box.Max.Y),
		image.Rect(box.Min.X, box.Min.Y, box.Min.X+border, box.Max.Y),
		image.Rect(box.Max.X-border, box.Min.Y, box.Max.X, box.Max.Y),
	} {
		draw.Draw(img, edge, uni, image.Point{}, draw.Over)
	}

	if err := r.text(img, value, 28, col, w/2, box.Min.Y+box.Dy()*2/3); err != nil {
		return nil, err
	}
	y := h * 85 / 100
	for _, line := range label {
		if err := r.text(img, line, 12, color.Black, w/2, y); err != nil {
			return nil, err
		}
		y += r.px(0.25)
	}
	return img, nil
}
