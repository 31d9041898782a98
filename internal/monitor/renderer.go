package monitor

import (
	"github.com/nozo-moto/netchart/pkg/types"
	"go.uber.org/multierr"
)

// Renderer consumes one frame per tick. Implementations must not retain
// mutable references into the frame beyond the call.
type Renderer interface {
	Render(frame types.Frame) error
}

type RendererFunc func(types.Frame) error

func (f RendererFunc) Render(frame types.Frame) error { return f(frame) }

// Renderers fans a frame out to every renderer, collecting all errors.
type Renderers []Renderer

func (rs Renderers) Render(frame types.Frame) error {
	var err error
	for _, r := range rs {
		if r == nil {
			continue
		}
		err = multierr.Append(err, r.Render(frame))
	}
	return err
}
