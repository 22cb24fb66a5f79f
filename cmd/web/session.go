package main

import (
	"context"
	"log/slog"

	"github.com/myrjola/botornot/internal/errors"
	"github.com/myrjola/botornot/internal/puzzle"
)

type sessionKey string

const operatorIDSessionKey = sessionKey("operatorID")

func instanceSessionKey(kind puzzle.Kind) string {
	return "instance:" + string(kind)
}

// activeInstance returns the unresolved instance of kind stored in the session, or nil.
func (app *application) activeInstance(ctx context.Context, kind puzzle.Kind) *puzzle.Instance {
	value := app.sessionManager.Get(ctx, instanceSessionKey(kind))
	if value == nil {
		return nil
	}
	inst, ok := value.(puzzle.Instance)
	if !ok {
		app.logger.LogAttrs(ctx, slog.LevelWarn, "discarding unexpected session value",
			errors.SlogError(errors.New("not a puzzle instance", slog.String("kind", string(kind)))))
		app.sessionManager.Remove(ctx, instanceSessionKey(kind))
		return nil
	}
	if inst.Resolved {
		return nil
	}
	return &inst
}

// storeInstance keeps unresolved instances in the session and forgets resolved ones.
func (app *application) storeInstance(ctx context.Context, inst *puzzle.Instance) {
	if inst.Resolved {
		app.sessionManager.Remove(ctx, instanceSessionKey(inst.Kind))
		return
	}
	app.sessionManager.Put(ctx, instanceSessionKey(inst.Kind), *inst)
}
