package commands

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

// Registry accepts command handlers from a host application.
type Registry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the command handlers built by the container.
type HandlerSet struct {
	ImportFixtures  *ImportFixturesHandler
	InvalidatePages *InvalidatePagesHandler
}

func (s HandlerSet) handlers() []any {
	var out []any
	if s.ImportFixtures != nil {
		out = append(out, s.ImportFixtures)
	}
	if s.InvalidatePages != nil {
		out = append(out, s.InvalidatePages)
	}
	return out
}

// Register hands every handler in s to reg.
func Register(reg Registry, s HandlerSet) error {
	if reg == nil {
		return errors.New("commands: registry is nil")
	}
	for _, h := range s.handlers() {
		if err := reg.RegisterCommand(h); err != nil {
			return err
		}
	}
	return nil
}

// Subscribe attaches the handlers to the go-command dispatcher so callers can
// dispatch.Dispatch the messages. The returned func removes them again.
func Subscribe(s HandlerSet, retries int) func() {
	var subs []interface{ Unsubscribe() }
	if s.ImportFixtures != nil {
		subs = append(subs, dispatcher.SubscribeCommand(s.ImportFixtures, runner.WithMaxRetries(retries)))
	}
	if s.InvalidatePages != nil {
		subs = append(subs, dispatcher.SubscribeCommand(s.InvalidatePages, runner.WithMaxRetries(retries)))
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}
