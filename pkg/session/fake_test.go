package session

import (
	"context"
	"net/http"
	"sync"

	"github.com/aretw0/inkwell/pkg/core"
)

type call struct {
	Method string
	Path   string
	Body   any
}

// fakeTransport records calls and answers them with handler.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []call
	handler func(method, path string, body any) (*core.Response, error)
}

func (f *fakeTransport) Send(ctx context.Context, method, path string, body any) (*core.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})
	handler := f.handler
	f.mu.Unlock()

	if handler == nil {
		return &core.Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
	}
	return handler(method, path, body)
}

func (f *fakeTransport) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func okResponse(body string) (*core.Response, error) {
	return &core.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
}

func rejected(status int, message string) (*core.Response, error) {
	return nil, &core.RejectedError{StatusCode: status, Message: message}
}

func unreachable(method, path string) (*core.Response, error) {
	return nil, &core.TransportError{Method: method, Path: path, Err: context.DeadlineExceeded}
}
