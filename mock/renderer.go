package mock

import "github.com/fwojciec/bogrep"

var _ bogrep.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of bogrep.Renderer.
type Renderer struct {
	RenderFn func(mode bogrep.CacheMode, resp *bogrep.Response) (*bogrep.ExtractResult, error)
}

func (r *Renderer) Render(mode bogrep.CacheMode, resp *bogrep.Response) (*bogrep.ExtractResult, error) {
	return r.RenderFn(mode, resp)
}
