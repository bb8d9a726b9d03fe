// internal/websocket/router_test.go
package websocket

import (
	"errors"
	"strings"
	"testing"
)

type fakeApp struct{}

func (a *fakeApp) Ping() string { return "pong" }

func (a *fakeApp) Echo(msg string) (string, error) { return msg, nil }

func (a *fakeApp) Add(x int, y int) int { return x + y }

func (a *fakeApp) Fail() error { return errors.New("boom") }

func (a *fakeApp) unexported() string { return "hidden" }

func TestRouter_Call(t *testing.T) {
	r := NewRouter(&fakeApp{})

	result, err := r.Call("Ping", nil)
	if err != nil {
		t.Fatalf("Call Ping failed: %v", err)
	}
	if result != "pong" {
		t.Errorf("Expected pong, got %v", result)
	}

	result, err = r.Call("Echo", []interface{}{"hello"})
	if err != nil {
		t.Fatalf("Call Echo failed: %v", err)
	}
	if result != "hello" {
		t.Errorf("Expected hello, got %v", result)
	}
}

func TestRouter_NumericParams(t *testing.T) {
	r := NewRouter(&fakeApp{})

	// JSON numbers decode to float64; the router must coerce them
	result, err := r.Call("Add", []interface{}{float64(2), float64(3)})
	if err != nil {
		t.Fatalf("Call Add failed: %v", err)
	}
	if result != 5 {
		t.Errorf("Expected 5, got %v", result)
	}
}

func TestRouter_Errors(t *testing.T) {
	r := NewRouter(&fakeApp{})

	if _, err := r.Call("Missing", nil); err == nil {
		t.Error("Expected error for unknown method")
	}
	if _, err := r.Call("unexported", nil); err == nil {
		t.Error("Expected unexported method to be unreachable")
	}

	_, err := r.Call("Echo", []interface{}{"a", "b"})
	if err == nil || !strings.Contains(err.Error(), "expects 1 params") {
		t.Errorf("Expected arity error, got %v", err)
	}

	_, err = r.Call("Fail", nil)
	if err == nil || err.Error() != "boom" {
		t.Errorf("Expected method error to surface, got %v", err)
	}
}
