package anim

import "github.com/go-logr/logr"

// FrameSource calls cb once, at the next frame, on the runtime goroutine.
type FrameSource interface {
	RequestFrame(cb func())
}

type State uint8

const (
	// NoRequest: no frame is pending.
	NoRequest State = iota
	// PendingRequest: a frame is pending and will draw the latest model.
	PendingRequest
	// ExtraRequest: a frame is pending but the model was already drawn.
	ExtraRequest
)

func (s State) String() string {
	switch s {
	case NoRequest:
		return "no-request"
	case PendingRequest:
		return "pending"
	case ExtraRequest:
		return "extra"
	}
	return "unknown"
}

// Animator throttles drawing to one draw per frame. Only the latest model
// is drawn; intermediate ones are skipped.
type Animator[M any] struct {
	log logr.Logger

	frames FrameSource
	draw   func(M)

	model M
	state State
}

// New draws model right away and returns an animator for later updates.
func New[M any](frames FrameSource, model M, draw func(M), log logr.Logger) *Animator[M] {
	a := &Animator[M]{log: log, frames: frames, draw: draw, model: model}
	draw(model)
	return a
}

// Update records model. A sync update draws immediately; otherwise the draw
// waits for the next frame.
func (a *Animator[M]) Update(model M, sync bool) {
	a.model = model

	if sync {
		a.draw(model)
		if a.state == PendingRequest {
			a.state = ExtraRequest
		}
		return
	}

	if a.state == NoRequest {
		a.frames.RequestFrame(a.onFrame)
	}
	a.state = PendingRequest
}

func (a *Animator[M]) onFrame() {
	if a.state == ExtraRequest {
		a.state = NoRequest
		a.log.V(2).Info("idle frame")
		return
	}

	// keep one more frame requested so a burst of updates right after this
	// draw is coalesced too
	a.frames.RequestFrame(a.onFrame)
	a.draw(a.model)
	a.state = ExtraRequest
}

func (a *Animator[M]) State() State {
	return a.state
}
