package glslc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/shaderset/internal/spvtest"
	"github.com/gogpu/shaderset/shader"
)

// fakeService records requests and answers with a canned response.
type fakeService struct {
	mu       sync.Mutex
	requests []*Request
	released atomic.Int32

	succeeded bool
	buffers   [][]byte
	err       error
}

func (f *fakeService) Compile(_ context.Context, req *Request) (*Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return NewResponse(f.succeeded, func() { f.released.Add(1) }, f.buffers...), nil
}

func TestClient_Success(t *testing.T) {
	bytecode := spvtest.Module(shader.StageVertex)
	svc := &fakeService{succeeded: true, buffers: [][]byte{bytecode}}
	client := NewClient(svc)

	res, err := client.CompileGLSL(context.Background(), "void main() {}", "a.vert", shader.StageVertex, CompileOptions{})
	require.NoError(t, err)
	require.True(t, res.Succeeded)
	require.Equal(t, bytecode, res.Bytecode)
	require.Empty(t, res.Diagnostic)
	require.EqualValues(t, 1, svc.released.Load())

	// The result must not alias the service's buffer.
	bytecode[4] ^= 0xff
	require.NotEqual(t, bytecode[4], res.Bytecode[4])
}

func TestClient_CompilationError(t *testing.T) {
	const diag = "a.frag:3: error: 'colour' : undeclared identifier\n1 error generated.\n"
	svc := &fakeService{buffers: [][]byte{[]byte(diag)}}
	client := NewClient(svc)

	res, err := client.CompileGLSL(context.Background(), "void main() { colour; }", "a.frag", shader.StageFragment, CompileOptions{})
	var cerr *CompilationError
	require.ErrorAs(t, err, &cerr)
	require.ErrorIs(t, err, ErrCompilationFailed)
	require.Equal(t, diag, cerr.Diagnostic)
	require.Equal(t, "a.frag", cerr.FileName)
	require.Equal(t, shader.StageFragment, cerr.Stage)
	require.NotNil(t, res)
	require.False(t, res.Succeeded)
	require.Nil(t, res.Bytecode)
	require.Equal(t, diag, res.Diagnostic)
	require.EqualValues(t, 1, svc.released.Load())
}

func TestClient_ResourceExhaustion(t *testing.T) {
	for name, svc := range map[string]*fakeService{
		"no buffers":            {succeeded: true},
		"nil buffer":            {succeeded: true, buffers: [][]byte{nil}},
		"failed, no diagnostic": {succeeded: false},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewClient(svc).CompileGLSL(context.Background(), "void main() {}", "", shader.StageCompute, CompileOptions{})
			var rerr *ResourceExhaustionError
			require.ErrorAs(t, err, &rerr)
			require.ErrorIs(t, err, ErrCompilationFailed)
			require.EqualValues(t, 1, svc.released.Load(), "response must be released on the error path")
		})
	}
}

func TestClient_InvalidBytecode(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":     {},
		"unaligned": {0x03, 0x02, 0x23, 0x07, 0x00},
		"not spirv": []byte("#version 450"),
	} {
		t.Run(name, func(t *testing.T) {
			svc := &fakeService{succeeded: true, buffers: [][]byte{data}}
			_, err := NewClient(svc).CompileGLSL(context.Background(), "void main() {}", "", shader.StageCompute, CompileOptions{})
			require.ErrorIs(t, err, ErrCompilationFailed)
			require.EqualValues(t, 1, svc.released.Load())
		})
	}
}

func TestClient_ServiceError(t *testing.T) {
	boom := errors.New("boom")
	svc := &fakeService{err: boom}
	_, err := NewClient(svc).CompileGLSL(context.Background(), "void main() {}", "", shader.StageCompute, CompileOptions{})
	require.ErrorIs(t, err, boom)
}

func TestClient_MalformedMacroNeverReachesService(t *testing.T) {
	svc := &fakeService{succeeded: true, buffers: [][]byte{spvtest.Module(shader.StageFragment)}}
	opts := NewCompileOptions(false, MacroDefinition{Name: "OK"}, MacroDefinition{Name: "BAD", Value: "naïve"})

	_, err := NewClient(svc).CompileGLSL(context.Background(), "void main() {}", "a.frag", shader.StageFragment, opts)
	var encErr *EncodingError
	require.ErrorAs(t, err, &encErr)
	require.Equal(t, "macro BAD value", encErr.Field)
	require.Empty(t, svc.requests)
}

func TestSerializedClient(t *testing.T) {
	bytecode := spvtest.Module(shader.StageCompute)
	var inFlight, peak atomic.Int32
	svc := ServiceFunc(func(context.Context, *Request) (*Response, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)
		return NewResponse(true, nil, bytecode), nil
	})

	client := NewSerializedClient(svc)
	req, err := NewRequest("void main() {}", "", shader.StageCompute, CompileOptions{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Compile(context.Background(), req); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	require.EqualValues(t, 1, peak.Load())
}

func TestResponse_ReleaseOnce(t *testing.T) {
	var calls int
	resp := NewResponse(true, func() { calls++ }, []byte{1, 2, 3, 4})
	require.Equal(t, 1, resp.Count())
	_, ok := resp.Data(1)
	require.False(t, ok)

	resp.Release()
	resp.Release()
	require.Equal(t, 1, calls)
	_, ok = resp.Data(0)
	require.False(t, ok)
}
