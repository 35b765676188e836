package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Grid hooks
	g := NoopGridHooks{}
	g.OnOperation(ctx, "default", "resize", time.Millisecond, nil)
	g.OnRelocate(ctx, "default", "convert", 2)

	// Store hooks
	s := NoopStoreHooks{}
	s.OnStoreRead(ctx, "default", true, time.Millisecond, nil)
	s.OnStoreWrite(ctx, "default", time.Millisecond, nil)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/workspaces/{ws}/resize", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Grid().(NoopGridHooks); !ok {
		t.Error("Grid() should return NoopGridHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customGrid := &testGridHooks{}
	SetGridHooks(customGrid)
	if Grid() != customGrid {
		t.Error("SetGridHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	// Setting nil should not change hooks
	SetGridHooks(nil)
	if Grid() != customGrid {
		t.Error("SetGridHooks(nil) should not change hooks")
	}

	Grid().OnOperation(context.Background(), "ws", "add", time.Millisecond, nil)
	if customGrid.ops != 1 {
		t.Errorf("custom hook called %d times, want 1", customGrid.ops)
	}

	// Reset should restore defaults
	Reset()
	if _, ok := Grid().(NoopGridHooks); !ok {
		t.Error("Reset should restore NoopGridHooks")
	}
}

type testGridHooks struct {
	NoopGridHooks
	ops int
}

func (h *testGridHooks) OnOperation(context.Context, string, string, time.Duration, error) {
	h.ops++
}

type testStoreHooks struct{ NoopStoreHooks }
