package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/trezcool/registrar/core"
)

// HandlerFunc answers one request sent to a FakeTransport.
type HandlerFunc func(req core.Request) (*core.Response, error)

// FakeTransport is an in-process core.Transport. Routes are keyed by "METHOD /path";
// unknown routes answer 404.
type FakeTransport struct {
	mu     sync.Mutex
	routes map[string]HandlerFunc
	calls  []core.Request
}

var _ core.Transport = (*FakeTransport)(nil)

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{routes: make(map[string]HandlerFunc)}
}

func (f *FakeTransport) Handle(method, path string, h HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = h
}

func (f *FakeTransport) Do(ctx context.Context, req core.Request) (*core.Response, error) {
	op := req.EffectiveMethod() + " " + req.Path

	f.mu.Lock()
	f.calls = append(f.calls, req)
	h, ok := f.routes[op]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, core.NewNetworkError(op, err)
	}
	if !ok {
		return nil, &core.APIError{
			Status:  http.StatusNotFound,
			Message: http.StatusText(http.StatusNotFound),
			Data:    map[string]interface{}{"message": http.StatusText(http.StatusNotFound)},
		}
	}
	return h(req)
}

// Calls returns the requests received so far, in order.
func (f *FakeTransport) Calls() []core.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Request(nil), f.calls...)
}

// CallsTo returns the requests received on method and path.
func (f *FakeTransport) CallsTo(method, path string) []core.Request {
	var reqs []core.Request
	for _, req := range f.Calls() {
		if req.EffectiveMethod() == method && req.Path == path {
			reqs = append(reqs, req)
		}
	}
	return reqs
}

// JSON answers with v encoded as JSON.
func JSON(status int, v interface{}) HandlerFunc {
	return func(core.Request) (*core.Response, error) {
		body, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if status >= http.StatusBadRequest {
			return nil, apiError(status, v)
		}
		return &core.Response{StatusCode: status, ContentType: "application/json", Body: body}, nil
	}
}

// Text answers with a text/plain body.
func Text(status int, text string) HandlerFunc {
	return func(core.Request) (*core.Response, error) {
		if status >= http.StatusBadRequest {
			return nil, &core.APIError{Status: status, Message: text, Data: map[string]interface{}{"message": text}}
		}
		return &core.Response{StatusCode: status, ContentType: "text/plain;charset=UTF-8", Body: []byte(text)}, nil
	}
}

// Fail answers with err.
func Fail(err error) HandlerFunc {
	return func(core.Request) (*core.Response, error) {
		return nil, err
	}
}

func apiError(status int, v interface{}) *core.APIError {
	msg := http.StatusText(status)
	data, _ := v.(map[string]interface{})
	if m, ok := data["message"].(string); ok {
		msg = m
	}
	if data == nil {
		data = map[string]interface{}{"message": msg}
	}
	return &core.APIError{Status: status, Message: msg, Data: data}
}

// Entry is one message logged through a Logger.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger is a core.Logger keeping every entry in memory.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger { return &Logger{} }

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Entries returns the entries logged at level, or all of them when level is "".
func (l *Logger) Entries(level string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []Entry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			entries = append(entries, e)
		}
	}
	return entries
}

// Dump prints every entry, for failing tests.
func (l *Logger) Dump(t *testing.T) {
	t.Helper()
	for _, e := range l.Entries("") {
		t.Log(e.Level, e.Msg, fmt.Sprint(e.Args...))
	}
}
