package plugin

import (
	"context"
	"sync"

	"github.com/ayusman/litmus/internal/monitoring"
	"github.com/ayusman/litmus/internal/transport"
)

// Outcome is the result of running one plugin for one reading.
type Outcome struct {
	Plugin   string
	Response *Response
	Err      error
}

// Dispatcher sends stable readings to every plugin that accepts them.
type Dispatcher struct {
	ctx      context.Context
	manager  *Manager
	executor *Executor
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher over the plugins in manager. Plugins
// started by Notify are killed once ctx is done.
func NewDispatcher(ctx context.Context, manager *Manager, executor *Executor) *Dispatcher {
	return &Dispatcher{ctx: ctx, manager: manager, executor: executor}
}

// Dispatch runs the accepting plugins one after another and returns their
// outcomes in name order. It stops early when ctx is done.
func (d *Dispatcher) Dispatch(ctx context.Context, rec transport.Record) []Outcome {
	var outcomes []Outcome
	for _, p := range d.manager.Accepting(rec.ClassID) {
		if ctx.Err() != nil {
			break
		}
		resp, err := d.executor.Execute(ctx, p, &Request{Event: EventReading, Reading: rec})
		if err == nil && !resp.Success {
			monitoring.Logf("plugin %s: %s", p.Manifest.Name, resp.Error)
		}
		outcomes = append(outcomes, Outcome{Plugin: p.Manifest.Name, Response: resp, Err: err})
	}
	return outcomes
}

// Notify dispatches rec in the background so the frame loop never waits on
// a plugin. Failures are logged.
func (d *Dispatcher) Notify(rec transport.Record) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for _, o := range d.Dispatch(d.ctx, rec) {
			if o.Err != nil {
				monitoring.Logf("plugin %s: %v", o.Plugin, o.Err)
			}
		}
	}()
}

// Wait blocks until every Notify has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
