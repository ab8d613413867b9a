package presenter

import (
	"errors"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/plant-cam-go/domain/camera"
	"github.com/soocke/plant-cam-go/domain/capture"
	"github.com/soocke/plant-cam-go/ui/images"
)

// FrameSource supplies the most recent viewfinder frame.
type FrameSource interface {
	Running() bool
	LatestFrame() camera.FrameSnapshot
}

// ReviewLoader renders a stored photo for display.
type ReviewLoader interface {
	Load(path string, maxW, maxH int) ([]byte, error)
}

// PreviewView describes the UI surface updated by the presenter.
type PreviewView interface {
	UpdatePreview(png []byte)
	ShowReviewImage(png []byte)
	ResetPreview()
}

type previewTaskKind int

const (
	previewTaskFrame previewTaskKind = iota + 1
	previewTaskReview
)

type previewTask struct {
	kind     previewTaskKind
	snapshot camera.FrameSnapshot
	photo    capture.Photo
	w, h     int
}

type previewResult struct {
	kind     previewTaskKind
	sequence uint64
	photoID  string
	png      []byte
	err      error
	duration time.Duration
}

// PreviewPresenter renders viewfinder frames and review stills off the UI
// thread and hands finished PNGs to the view on ProcessFrame.
type PreviewPresenter struct {
	Enabled func() bool
	Source  FrameSource
	View    PreviewView
	Loader  ReviewLoader
	logger  *slog.Logger

	Width, Height int
	Margin        float64
	Corner        color.Color

	workerOnce sync.Once
	stopOnce   sync.Once
	stop       chan struct{}
	workerDone chan struct{}
	frameCh    chan previewTask
	reviewCh   chan previewTask
	resultCh   chan previewResult

	lastSeq     uint64
	lastFrame   time.Time
	minInterval time.Duration
	reviewID    string
	live        bool
}

// NewPreviewPresenter constructs a preview presenter sized w x h.
func NewPreviewPresenter(enabled func() bool, source FrameSource, view PreviewView, loader ReviewLoader, w, h int, logger *slog.Logger) *PreviewPresenter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PreviewPresenter{
		Enabled:     enabled,
		Source:      source,
		View:        view,
		Loader:      loader,
		logger:      logger,
		Width:       w,
		Height:      h,
		Margin:      0.08,
		Corner:      color.RGBA{0xff, 0xff, 0xff, 0xff},
		stop:        make(chan struct{}),
		workerDone:  make(chan struct{}),
		frameCh:     make(chan previewTask, 1),
		reviewCh:    make(chan previewTask, 1),
		resultCh:    make(chan previewResult, 2),
		minInterval: 50 * time.Millisecond,
	}
}

// ProcessFrame handles worker results and schedules the next frame render.
func (p *PreviewPresenter) ProcessFrame() {
	if p == nil || p.Enabled == nil || p.Source == nil || p.View == nil {
		return
	}
	p.ensureWorker()

	for drained := false; !drained; {
		select {
		case res := <-p.resultCh:
			p.handleResult(res)
		default:
			drained = true
		}
	}

	if !p.Enabled() || !p.Source.Running() {
		if p.live {
			p.live = false
			p.View.ResetPreview()
		}
		return
	}
	p.live = true
	snapshot := p.Source.LatestFrame()
	if snapshot.Image == nil || snapshot.Sequence == p.lastSeq {
		return
	}
	if !p.lastFrame.IsZero() && time.Since(p.lastFrame) < p.minInterval {
		return
	}
	p.lastSeq = snapshot.Sequence
	p.lastFrame = time.Now()
	dispatch(p.frameCh, previewTask{kind: previewTaskFrame, snapshot: snapshot, w: p.Width, h: p.Height})
}

// ShowReview schedules rendering of photo for the review pane. Results for
// an earlier photo are discarded.
func (p *PreviewPresenter) ShowReview(photo capture.Photo) {
	if p == nil || p.Loader == nil {
		return
	}
	p.ensureWorker()
	p.reviewID = photo.ID
	dispatch(p.reviewCh, previewTask{kind: previewTaskReview, photo: photo, w: p.Width, h: p.Height})
}

// Close stops the render worker and waits for it to exit. The presenter
// renders nothing afterwards.
func (p *PreviewPresenter) Close() {
	if p == nil {
		return
	}
	p.stopOnce.Do(func() { close(p.stop) })
	// Consumes the once when the worker never started.
	p.workerOnce.Do(func() { close(p.workerDone) })
	<-p.workerDone
}

func (p *PreviewPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *PreviewPresenter) runWorker() {
	defer close(p.workerDone)
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("preview worker panic", "error", r)
		}
	}()
	for {
		var task previewTask
		select {
		case <-p.stop:
			return
		case task = <-p.reviewCh:
		case task = <-p.frameCh:
		}
		res := p.executeTask(task)
		select {
		case p.resultCh <- res:
		default:
			select {
			case <-p.resultCh:
			default:
			}
			select {
			case p.resultCh <- res:
			default:
			}
		}
	}
}

// dispatch replaces any queued task with task.
func dispatch(ch chan previewTask, task previewTask) {
	select {
	case ch <- task:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- task:
		default:
		}
	}
}

func (p *PreviewPresenter) executeTask(task previewTask) previewResult {
	start := time.Now()
	res := previewResult{kind: task.kind, sequence: task.snapshot.Sequence, photoID: task.photo.ID}
	switch task.kind {
	case previewTaskFrame:
		frame := task.snapshot.Image
		if frame == nil {
			res.err = errors.New("nil frame")
			break
		}
		scaled := images.ScaleToFit(frame, task.w, task.h)
		res.png = images.EncodePNG(images.DrawCorners(scaled, p.Margin, 3, p.Corner))
	case previewTaskReview:
		res.png, res.err = p.Loader.Load(task.photo.Path, task.w, task.h)
	default:
		res.err = errors.New("unknown preview task kind")
	}
	res.duration = time.Since(start)
	return res
}

func (p *PreviewPresenter) handleResult(res previewResult) {
	if res.err != nil {
		p.logger.Error("preview", "kind", int(res.kind), "error", res.err)
		return
	}
	switch res.kind {
	case previewTaskFrame:
		if p.live {
			p.View.UpdatePreview(res.png)
		}
	case previewTaskReview:
		if res.photoID == p.reviewID {
			p.View.ShowReviewImage(res.png)
			p.logger.Debug("review image rendered", "id", res.photoID, "took", res.duration)
		}
	}
}
