package images

import (
	"image"
	"image/color"
	"image/draw"
)

// ViewfinderRect returns the framing rectangle inset into b by margin (a
// fraction of the shorter side). It is clamped to b and at least 1x1.
func ViewfinderRect(b image.Rectangle, margin float64) image.Rectangle {
	if b.Empty() {
		return image.Rectangle{}
	}
	if margin < 0 {
		margin = 0
	}
	if margin > 0.45 {
		margin = 0.45
	}
	short := min(b.Dx(), b.Dy())
	inset := int(float64(short) * margin)
	r := b.Inset(inset)
	if r.Empty() {
		c := image.Pt(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2)
		return image.Rectangle{Min: c, Max: c.Add(image.Pt(1, 1))}
	}
	return r
}

// DrawCorners returns a copy of src with L-shaped corner brackets around
// the viewfinder rectangle. Arm length is a quarter of the shorter side.
func DrawCorners(src image.Image, margin float64, thickness int, c color.Color) *image.RGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), src, b.Min, draw.Src)
	r := ViewfinderRect(out.Bounds(), margin)
	if thickness < 1 {
		thickness = 1
	}
	arm := min(r.Dx(), r.Dy()) / 4
	if arm < thickness {
		arm = thickness
	}
	fill := image.NewUniform(c)
	bar := func(x0, y0, x1, y1 int) {
		draw.Draw(out, image.Rect(x0, y0, x1, y1).Intersect(r), fill, image.Point{}, draw.Src)
	}
	// top-left, top-right, bottom-left, bottom-right
	bar(r.Min.X, r.Min.Y, r.Min.X+arm, r.Min.Y+thickness)
	bar(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Min.Y+arm)
	bar(r.Max.X-arm, r.Min.Y, r.Max.X, r.Min.Y+thickness)
	bar(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Min.Y+arm)
	bar(r.Min.X, r.Max.Y-thickness, r.Min.X+arm, r.Max.Y)
	bar(r.Min.X, r.Max.Y-arm, r.Min.X+thickness, r.Max.Y)
	bar(r.Max.X-arm, r.Max.Y-thickness, r.Max.X, r.Max.Y)
	bar(r.Max.X-thickness, r.Max.Y-arm, r.Max.X, r.Max.Y)
	return out
}
