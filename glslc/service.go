package glslc

import (
	"context"
	"sync"
)

// Service is the external GLSL compiler. Implementations must treat
// a request as read-only.
type Service interface {
	Compile(ctx context.Context, req *Request) (*Response, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, req *Request) (*Response, error)

// Compile implements Service.
func (f ServiceFunc) Compile(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Response is the raw answer of a Service. On success buffer 0 holds
// the bytecode; on failure it holds the diagnostic text. The caller
// must call Release once it has copied what it needs.
type Response struct {
	Succeeded bool

	buffers  [][]byte
	release  func()
	released sync.Once
}

// NewResponse builds a response. release, if non-nil, runs once on
// the first call to Release.
func NewResponse(succeeded bool, release func(), buffers ...[]byte) *Response {
	return &Response{Succeeded: succeeded, buffers: buffers, release: release}
}

// Count returns the number of data buffers.
func (r *Response) Count() int { return len(r.buffers) }

// Data returns buffer i. The slice is only valid until Release.
func (r *Response) Data(i int) ([]byte, bool) {
	if i < 0 || i >= len(r.buffers) || r.buffers[i] == nil {
		return nil, false
	}
	return r.buffers[i], true
}

// Release frees the response. It is safe to call more than once.
func (r *Response) Release() {
	r.released.Do(func() {
		if r.release != nil {
			r.release()
		}
		r.buffers = nil
	})
}
