package camera

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/soocke/plant-cam-go/domain/capture"
)

// FlashOptions tune flash emulation on captured stills.
type FlashOptions struct {
	Boost         float64 // brightness boost in percent, range (0,100]
	AutoThreshold uint8   // auto fires when mean luminance is below this
}

// DefaultFlashOptions returns the boost used when none is configured.
func DefaultFlashOptions() FlashOptions {
	return FlashOptions{Boost: 35, AutoThreshold: 90}
}

// MeanLuminance returns the average luma of img, sampling every step-th
// pixel in both directions. step < 1 samples every pixel.
func MeanLuminance(img *image.RGBA, step int) uint8 {
	if img == nil {
		return 0
	}
	if step < 1 {
		step = 1
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return 0
	}
	var sum, n uint64
	for y := 0; y < h; y += step {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x += step {
			i := x * 4
			// Integer approx: (77R + 150G + 29B) >> 8
			sum += uint64((77*uint32(row[i]) + 150*uint32(row[i+1]) + 29*uint32(row[i+2])) >> 8)
			n++
		}
	}
	return uint8(sum / n)
}

// Fires reports whether the flash should brighten a still in the given mode.
func (o FlashOptions) Fires(img *image.RGBA, mode capture.FlashMode) bool {
	switch mode {
	case capture.FlashOn:
		return true
	case capture.FlashAuto:
		return MeanLuminance(img, 4) < o.AutoThreshold
	default:
		return false
	}
}

// ApplyFlash returns img brightened when the flash fires, otherwise img.
func ApplyFlash(img *image.RGBA, mode capture.FlashMode, o FlashOptions) image.Image {
	if img == nil || !o.Fires(img, mode) || o.Boost <= 0 {
		return img
	}
	return imaging.AdjustBrightness(img, o.Boost)
}
