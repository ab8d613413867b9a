package view

import (
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/soocke/plant-cam-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// previewLabel shows PNG frames in a label. The previous Tk photo is
// deleted before a new one replaces it so off-screen pixel data does not
// accumulate.
type previewLabel struct {
	label       *LabelWidget
	photo       *Img
	placeholder []byte
}

func newPreviewLabel(parent *FrameWidget, w, h int, bg string) *previewLabel {
	if w < 50 {
		w = 50
	}
	if h < 50 {
		h = 50
	}
	p := &previewLabel{placeholder: images.EncodePNG(imaging.New(w, h, color.Black))}
	p.photo = NewPhoto(Data(p.placeholder))
	p.label = parent.Label(Image(p.photo), Borderwidth(1), Relief("sunken"), Background(bg))
	return p
}

func (p *previewLabel) Show(png []byte) {
	if p == nil || p.label == nil || len(png) == 0 {
		return
	}
	if p.photo != nil {
		p.photo.Delete()
	}
	p.photo = NewPhoto(Data(png))
	p.label.Configure(Image(p.photo))
}

func (p *previewLabel) Reset() { p.Show(p.placeholder) }

// detach forgets widgets destroyed with their parent frame.
func (p *previewLabel) detach() {
	if p == nil {
		return
	}
	if p.photo != nil {
		p.photo.Delete()
		p.photo = nil
	}
	p.label = nil
}
