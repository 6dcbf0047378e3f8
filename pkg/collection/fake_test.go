package collection

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

type fakeTransport struct {
	mu      sync.Mutex
	calls   []call
	handler func(ctx context.Context, method, path string, body any) (*core.Response, error)
}

func (f *fakeTransport) Send(ctx context.Context, method, path string, body any) (*core.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})
	handler := f.handler
	f.mu.Unlock()

	if handler == nil {
		return &core.Response{StatusCode: http.StatusOK, Body: []byte(`[]`)}, nil
	}
	return handler(ctx, method, path, body)
}

func (f *fakeTransport) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func okResponse(body string) (*core.Response, error) {
	return &core.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
}

// fakeSession is a session that is logged in with credential until Expire
// or Logout is called.
type fakeSession struct {
	mu         sync.Mutex
	credential core.Credential
	expired    []core.Credential
	events     core.Broker
}

func (f *fakeSession) CurrentCredential() (core.Credential, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.credential, f.credential != ""
}

func (f *fakeSession) Expire(used core.Credential) {
	f.mu.Lock()
	f.expired = append(f.expired, used)
	match := used == f.credential
	if match {
		f.credential = ""
	}
	f.mu.Unlock()
	if match {
		f.events.Publish(core.NewEvent(core.EventExpired, ""))
	}
}

func (f *fakeSession) Subscribe(fn func(core.Event)) func() {
	return f.events.Subscribe(fn)
}

func (f *fakeSession) login(c core.Credential) {
	f.mu.Lock()
	f.credential = c
	f.mu.Unlock()
	f.events.Publish(core.NewEvent(core.EventLogin, ""))
}

func (f *fakeSession) logout() {
	f.mu.Lock()
	f.credential = ""
	f.mu.Unlock()
	f.events.Publish(core.NewEvent(core.EventLogout, ""))
}

func (f *fakeSession) Expired() []core.Credential {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Credential(nil), f.expired...)
}
