package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
)

type recordingRegistry struct {
	handlers []any
	err      error
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	if r.err != nil {
		return r.err
	}
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestRegisterHandlers(t *testing.T) {
	set := HandlerSet{
		ImportFixtures:  NewImportFixturesHandler(nil, nil, nil, nil),
		InvalidatePages: NewInvalidatePagesHandler(nil, nil),
	}
	reg := &recordingRegistry{}
	if err := Register(reg, set); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(reg.handlers) != 2 {
		t.Fatalf("expected 2 handlers, got %d", len(reg.handlers))
	}

	failing := &recordingRegistry{err: errors.New("closed")}
	if err := Register(failing, set); err == nil {
		t.Fatal("expected registry error to propagate")
	}
	if err := Register(nil, set); err == nil {
		t.Fatal("expected nil registry to fail")
	}
}

func TestSubscribeDispatchesInvalidation(t *testing.T) {
	pages := &countingInvalidator{}
	unsubscribe := Subscribe(HandlerSet{InvalidatePages: NewInvalidatePagesHandler(pages, nil)}, 0)
	t.Cleanup(unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), InvalidatePages{}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(pages.calls) != 1 {
		t.Fatalf("expected one invalidation, got %v", pages.calls)
	}
}
