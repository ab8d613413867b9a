package presenter

import (
	"fmt"
	"testing"
	"time"

	"github.com/soocke/plant-cam-go/domain/capture"
	"github.com/soocke/plant-cam-go/ui/model"
)

type mockControls struct{ calls []string }

func (m *mockControls) RequestCapture()    { m.calls = append(m.calls, "capture") }
func (m *mockControls) ToggleFlash()       { m.calls = append(m.calls, "flash") }
func (m *mockControls) SelectFromGallery() { m.calls = append(m.calls, "gallery") }
func (m *mockControls) RequestPermission() { m.calls = append(m.calls, "permission") }
func (m *mockControls) ConfirmPhoto()      { m.calls = append(m.calls, "confirm") }
func (m *mockControls) Retake()            { m.calls = append(m.calls, "retake") }
func (m *mockControls) DismissReview()     { m.calls = append(m.calls, "dismiss") }

type mockNav struct{ backs int }

func (n *mockNav) GoBack() bool { n.backs++; return false }

type mockCameraView struct {
	review      bool
	reviewCalls int
	flash       string
	capture     bool
	controls    bool
	confirm     bool
	notice      string
	retry       bool
	noticeCalls int
	status      string
	statusCalls int
}

func (v *mockCameraView) SetReviewMode(b bool)       { v.review = b; v.reviewCalls++ }
func (v *mockCameraView) SetFlashLabel(s string)     { v.flash = s }
func (v *mockCameraView) SetCaptureEnabled(b bool)   { v.capture = b }
func (v *mockCameraView) SetControlsEnabled(b bool)  { v.controls = b }
func (v *mockCameraView) SetConfirmEnabled(b bool)   { v.confirm = b }
func (v *mockCameraView) SetNotice(s string, r bool) { v.notice, v.retry = s, r; v.noticeCalls++ }
func (v *mockCameraView) SetStatus(s string)         { v.status = s; v.statusCalls++ }

func live() capture.Snapshot {
	return capture.Snapshot{State: capture.StateLivePreview, Permission: capture.PermissionGranted, Focused: true, Active: true}
}

func newCameraPresenter() (*CameraPresenter, *mockControls, *mockNav, *model.CameraModel, *mockCameraView) {
	ctrl, nav, m, v := &mockControls{}, &mockNav{}, &model.CameraModel{}, &mockCameraView{}
	return NewCameraPresenter(ctrl, nav, m, v, nil), ctrl, nav, m, v
}

func TestCameraPresenter_LiveSnapshot(t *testing.T) {
	p, _, _, m, v := newCameraPresenter()
	s := live()
	s.Flash = capture.FlashAuto
	p.OnChange(s)
	if v.flash != "" {
		t.Fatalf("view must only change on Tick")
	}
	p.Tick(time.Now())
	if v.review || v.reviewCalls != 1 || v.flash != "Flash: auto" || !v.capture || !v.controls || !v.confirm || v.notice != "" {
		t.Fatalf("unexpected view %+v", *v)
	}
	if !m.Active() || m.Reviewing() {
		t.Fatalf("model not mirrored")
	}
	p.Tick(time.Now())
	if v.reviewCalls != 1 {
		t.Fatalf("tick without snapshot must not touch the view")
	}
}

func TestCameraPresenter_ReviewTriggersHookOncePerPhoto(t *testing.T) {
	p, _, _, m, v := newCameraPresenter()
	var reviewed []string
	p.OnReview = func(ph capture.Photo) { reviewed = append(reviewed, ph.ID) }
	s := live()
	s.State, s.Active = capture.StateReviewing, false
	s.Photo = &capture.Photo{ID: "a", Path: "/tmp/a.jpg", Width: 640, Height: 480}
	p.OnChange(s)
	p.Tick(time.Now())
	s.Busy, s.BusyOp = true, capture.OpConfirm
	p.OnChange(s)
	p.Tick(time.Now())
	if !v.review || v.capture || v.controls || v.confirm || v.status != "Sending photo…" {
		t.Fatalf("unexpected review view %+v", *v)
	}
	if len(reviewed) != 1 || reviewed[0] != "a" {
		t.Fatalf("review hook calls %v", reviewed)
	}
	if m.Active() || !m.Reviewing() {
		t.Fatalf("model not mirrored in review")
	}
	s.Busy, s.BusyOp = false, capture.OpNone
	p.OnChange(s)
	p.Tick(time.Now())
	if v.status != "camera photo 640x480" {
		t.Fatalf("status %q", v.status)
	}
}

func TestCameraPresenter_PermissionDeniedNotice(t *testing.T) {
	p, ctrl, _, _, v := newCameraPresenter()
	p.OnChange(capture.Snapshot{State: capture.StateAwaitingPermission, Permission: capture.PermissionDenied, Focused: true})
	p.Tick(time.Now())
	if v.notice != "Camera permission denied" || !v.retry || v.capture {
		t.Fatalf("unexpected view %+v", *v)
	}
	if v.controls {
		t.Fatalf("gallery and flash must be disabled while permission is denied")
	}
	p.Retry()
	if len(ctrl.calls) != 1 || ctrl.calls[0] != "permission" {
		t.Fatalf("retry must request permission, got %v", ctrl.calls)
	}
}

func TestCameraPresenter_NoCameraNotice(t *testing.T) {
	p, _, _, _, v := newCameraPresenter()
	s := live()
	s.Active = false
	p.OnChange(s)
	p.Tick(time.Now())
	p.OnError(capture.OpActivate, fmt.Errorf("%w: open failed", capture.ErrNoCamera))
	p.Tick(time.Now())
	if v.notice != "Camera not found" {
		t.Fatalf("notice %q", v.notice)
	}
	p.OnChange(live())
	p.Tick(time.Now())
	if v.notice != "" {
		t.Fatalf("notice must clear once the camera is active, got %q", v.notice)
	}
}

func TestCameraPresenter_ErrorMessages(t *testing.T) {
	p, _, _, _, v := newCameraPresenter()
	p.OnChange(live())
	p.Tick(time.Now())
	p.OnError(capture.OpGallery, fmt.Errorf("%w: bad file", capture.ErrPickerFailed))
	p.Tick(time.Now())
	if v.status != "Could not open that image." {
		t.Fatalf("status %q", v.status)
	}
	calls := v.statusCalls
	p.OnError(capture.OpRetake, capture.ErrInvalidState)
	p.Tick(time.Now())
	if v.statusCalls != calls {
		t.Fatalf("invalid state must stay silent")
	}
	p.Capture()
	p.OnChange(live())
	p.Tick(time.Now())
	if v.status != "" {
		t.Fatalf("new action must clear the message, got %q", v.status)
	}
}

func TestCameraPresenter_ButtonsForward(t *testing.T) {
	p, ctrl, nav, _, _ := newCameraPresenter()
	p.Capture()
	p.Flash()
	p.Gallery()
	p.Confirm()
	p.Retake()
	p.Close()
	want := []string{"capture", "flash", "gallery", "confirm", "retake"}
	if fmt.Sprint(ctrl.calls) != fmt.Sprint(want) {
		t.Fatalf("calls %v want %v", ctrl.calls, want)
	}
	if nav.backs != 1 {
		t.Fatalf("close must navigate back")
	}
}

func TestCameraPresenter_RedrawReappliesAfterRebuild(t *testing.T) {
	p, _, _, _, v := newCameraPresenter()
	var reviewed int
	p.OnReview = func(capture.Photo) { reviewed++ }
	s := live()
	s.State = capture.StateReviewing
	s.Photo = &capture.Photo{ID: "p1", Path: "/tmp/p1.jpg"}
	p.OnChange(s)
	p.Tick(time.Now())

	fresh := &mockCameraView{}
	p.view = fresh
	p.Redraw()
	p.Tick(time.Now())
	if !fresh.review || fresh.reviewCalls != 1 || fresh.noticeCalls != 1 || fresh.statusCalls != 1 {
		t.Fatalf("rebuilt view not fully applied: %+v", *fresh)
	}
	if reviewed != 2 {
		t.Fatalf("review image should be requested again, got %d", reviewed)
	}
	_ = v
}
