// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package app

import (
	"context"
	"fmt"
	"runtime"

	"github.com/MKhiriev/autoenv/internal/envconfig"
	"github.com/MKhiriev/autoenv/internal/tree"
	"github.com/MKhiriev/autoenv/internal/workers"
)

func (a *App) runIDs() error {
	ids, err := a.store.IDs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, MsgNoEnvs)
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(a.out, id)
	}
	return nil
}

// runValidate builds every requested env (all of them when none is named)
// concurrently and prints one line per env in the requested order.
func (a *App) runValidate(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		all, err := a.store.IDs()
		if err != nil {
			return err
		}
		ids = all
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, MsgNoEnvs)
		return nil
	}

	results := make([]error, len(ids))
	ws := workers.NewWorkers(runtime.GOMAXPROCS(0))
	for i, id := range ids {
		i, id := i, id
		ws.Add(workers.WorkerFunc(func(context.Context) error {
			_, err := envconfig.New(id, a.store, envconfig.WithLogger(a.log))
			results[i] = err
			return err
		}))
	}
	runErr := ws.Run(ctx)

	for i, id := range ids {
		if results[i] != nil {
			fmt.Fprintf(a.out, "%s: %s: %v\n", id, MsgInvalid, results[i])
			continue
		}
		fmt.Fprintf(a.out, "%s: %s\n", id, MsgValid)
	}

	if runErr != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, runErr)
	}
	return nil
}

func (a *App) runGet(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: get <key>", ErrMissingArgument)
	}
	inst, err := a.instance()
	if err != nil {
		return err
	}
	v, err := inst.Get(args[0])
	if err != nil {
		return err
	}
	return a.printValue(v)
}

func (a *App) runHas(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: has <key>", ErrMissingArgument)
	}
	inst, err := a.instance()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, inst.Has(args[0]))
	return nil
}

// runSet applies the value in memory only and prints the resulting tree.
func (a *App) runSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: set <key> <value>", ErrMissingArgument)
	}
	inst, err := a.instance()
	if err != nil {
		return err
	}
	if err = inst.Set(args[0], parseValue(args[1])); err != nil {
		return err
	}
	return a.printValue(inst.Snapshot())
}

// runPersist persists the value, enabling persistence on the instance first
// when the settings left it off. The write is flushed when Run returns.
func (a *App) runPersist(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: persist <key> <value>", ErrMissingArgument)
	}
	inst, err := a.instance()
	if err != nil {
		return err
	}
	if !inst.PersistenceEnabled() {
		if err = inst.EnablePersistence(a.cfg.Persistence.MinInterval, false); err != nil {
			return err
		}
	}
	if err = inst.Persist(args[0], parseValue(args[1])); err != nil {
		return err
	}
	if err = inst.Flush(ctx); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: %s\n", MsgPersisted, inst.Writer().Path())
	return nil
}

func (a *App) printValue(v any) error {
	b, err := tree.Encode(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}

// parseValue reads a command-line value as one JSON value. Anything else,
// including several values, is taken as a plain string.
func parseValue(raw string) any {
	v, err := tree.ParseValue([]byte(raw))
	if err != nil {
		return raw
	}
	return v
}
