package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-unicms/internal/records"
)

type testMessage struct{}

func (testMessage) Type() string { return "unicms.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "unicms.test.invalid" }

func (invalidMessage) Validate() error { return errors.New("invalid") }

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler(func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerCategorizesExecutionErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		validation bool
	}{
		{"generic", errors.New("boom"), false},
		{"invalid record", records.ErrRecordInvalid, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(func(ctx context.Context, msg testMessage) error { return tc.err })
			err := h.Execute(context.Background(), testMessage{})
			if got := goerrors.IsCategory(err, goerrors.CategoryValidation); got != tc.validation {
				t.Fatalf("expected validation=%v, got %v", tc.validation, err)
			}
			if !tc.validation && !goerrors.IsCategory(err, goerrors.CategoryCommand) {
				t.Fatalf("expected command category, got %v", err)
			}
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected original error to stay reachable, got %v", err)
			}
		})
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler(func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestHandlerLogsMessageFields(t *testing.T) {
	logger := &recordingLogger{}
	tick := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := NewHandler(func(ctx context.Context, msg testMessage) error { return nil },
		WithLogger[testMessage](logger),
		WithOperation[testMessage]("test.run"),
		WithMessageFields(func(testMessage) map[string]any { return map[string]any{"dir": "fixtures"} }),
		withClock[testMessage](func() time.Time { tick = tick.Add(5 * time.Millisecond); return tick }),
	)
	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	entry, ok := logger.find("command.execute.success")
	if !ok {
		t.Fatalf("expected success entry, got %+v", logger.entries)
	}
	if entry.fields["operation"] != "test.run" || entry.fields["dir"] != "fixtures" || entry.fields["command"] != "unicms.test.message" {
		t.Fatalf("unexpected fields %+v", entry.fields)
	}
	if entry.args[1] != int64(5) {
		t.Fatalf("expected 5ms duration, got %v", entry.args)
	}
}
