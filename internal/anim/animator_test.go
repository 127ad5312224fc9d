package anim

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
)

// manualFrames hands out frames only when tick is called.
type manualFrames struct {
	pending []func()
}

func (f *manualFrames) RequestFrame(cb func()) { f.pending = append(f.pending, cb) }

func (f *manualFrames) tick() {
	cbs := f.pending
	f.pending = nil
	for _, cb := range cbs {
		cb()
	}
}

func TestAnimator(t *testing.T) {
	t.Run("draws the initial model right away", func(t *testing.T) {
		frames := &manualFrames{}
		drawn := []int{}

		New(frames, 0, func(m int) { drawn = append(drawn, m) }, logr.Discard())

		assert.Equal(t, []int{0}, drawn)
		assert.Empty(t, frames.pending)
	})

	t.Run("coalesces async updates into one draw per frame", func(t *testing.T) {
		frames := &manualFrames{}
		drawn := []int{}
		a := New(frames, 0, func(m int) { drawn = append(drawn, m) }, logr.Discard())

		a.Update(1, false)
		a.Update(2, false)
		a.Update(3, false)
		assert.Len(t, frames.pending, 1)
		assert.Equal(t, PendingRequest, a.State())

		frames.tick()
		assert.Equal(t, []int{0, 3}, drawn)
		assert.Equal(t, ExtraRequest, a.State())

		// the extra frame finds nothing new and goes idle
		frames.tick()
		assert.Equal(t, []int{0, 3}, drawn)
		assert.Equal(t, NoRequest, a.State())
		assert.Empty(t, frames.pending)
	})

	t.Run("updates during the extra frame reuse it", func(t *testing.T) {
		frames := &manualFrames{}
		drawn := []int{}
		a := New(frames, 0, func(m int) { drawn = append(drawn, m) }, logr.Discard())

		a.Update(1, false)
		frames.tick()

		a.Update(2, false)
		assert.Len(t, frames.pending, 1)

		frames.tick()
		assert.Equal(t, []int{0, 1, 2}, drawn)
	})

	t.Run("sync updates draw immediately", func(t *testing.T) {
		frames := &manualFrames{}
		drawn := []int{}
		a := New(frames, 0, func(m int) { drawn = append(drawn, m) }, logr.Discard())

		a.Update(1, true)
		assert.Equal(t, []int{0, 1}, drawn)
		assert.Equal(t, NoRequest, a.State())
		assert.Empty(t, frames.pending)
	})

	t.Run("sync update turns a pending frame into an extra one", func(t *testing.T) {
		frames := &manualFrames{}
		drawn := []int{}
		a := New(frames, 0, func(m int) { drawn = append(drawn, m) }, logr.Discard())

		a.Update(1, false)
		a.Update(2, true)
		assert.Equal(t, ExtraRequest, a.State())

		frames.tick()
		assert.Equal(t, []int{0, 2}, drawn)
		assert.Equal(t, NoRequest, a.State())
	})
}
