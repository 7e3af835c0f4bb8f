package mock

import "github.com/fwojciec/bogrep"

var _ bogrep.UnderlyingRewriter = (*UnderlyingRewriter)(nil)

// UnderlyingRewriter is a mock implementation of bogrep.UnderlyingRewriter.
type UnderlyingRewriter struct {
	RewriteFn func(sourceURL string, html []byte) (string, bogrep.UnderlyingType, bool)
}

func (r *UnderlyingRewriter) Rewrite(sourceURL string, html []byte) (string, bogrep.UnderlyingType, bool) {
	return r.RewriteFn(sourceURL, html)
}
