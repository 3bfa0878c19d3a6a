package rpc

import (
	"context"
	"fmt"
	"sort"
	"time"

	"validator-monitor/internal/logger"
)

// Handler executes an operation against the connection.
type Handler func(con *Connection, p Params) (interface{}, error)

// Param describes a single positional parameter of an operation.
type Param struct {
	Name     string
	Required bool

	// Missing is the message reported to the caller if a required value is absent.
	Missing string
}

// Operation describes a named operation of a dispatch table.
type Operation struct {
	Name    string
	Params  []Param
	Handler Handler

	// Pin names the block hash parameter which, if supplied,
	// makes the result of the operation immutable.
	Pin string
}

// pinned reports whether the given parameters pin the operation result to a block.
func (op *Operation) pinned(p Params) bool {
	if op.Pin == "" {
		return false
	}
	for i, par := range op.Params {
		if par.Name == op.Pin {
			_, ok := p.Value(i)
			return ok
		}
	}
	return false
}

// Dispatcher routes named operations to their handlers and bounds
// every call by a fixed timeout.
type Dispatcher struct {
	table   string
	ops     map[string]*Operation
	timeout time.Duration
	log     logger.Logger
	metrics *Metrics
}

// NewDispatcher creates a dispatcher over the given operation table.
// It panics if an operation name is registered twice.
func NewDispatcher(table string, ops []Operation, timeout time.Duration, m *Metrics, log logger.Logger) *Dispatcher {
	d := &Dispatcher{
		table:   table,
		ops:     make(map[string]*Operation, len(ops)),
		timeout: timeout,
		log:     log,
		metrics: m,
	}

	for i := range ops {
		op := ops[i]
		if _, ok := d.ops[op.Name]; ok {
			panic(fmt.Sprintf("operation %s registered twice in %s table", op.Name, table))
		}
		d.ops[op.Name] = &op
	}
	return d
}

// Dispatch executes the named operation and wraps the outcome into an envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, con *Connection, name string, p Params) Envelope {
	res, err := d.Call(ctx, con, name, p)
	if err != nil {
		return Failure(err)
	}
	return Success(res)
}

// Call validates and executes the named operation and returns its raw result.
func (d *Dispatcher) Call(ctx context.Context, con *Connection, name string, p Params) (interface{}, error) {
	start := time.Now()

	res, err := d.call(ctx, con, name, p)
	if err != nil {
		d.log.Debugf("%s %s failed; %s", d.table, name, err.Error())
	}

	d.metrics.observe(d.table, name, err, time.Since(start))
	return res, err
}

// call performs the validation steps and runs the handler under the timeout.
func (d *Dispatcher) call(ctx context.Context, con *Connection, name string, p Params) (interface{}, error) {
	if name == "" {
		return nil, errMissingMethod
	}

	op, ok := d.ops[name]
	if !ok {
		return nil, errUnknownMethod(name)
	}

	for i, par := range op.Params {
		if _, ok := p.Value(i); par.Required && !ok {
			return nil, errMissingParameter(par.Missing)
		}
	}

	return Invoke(ctx, d.timeout, callFailedMessage(name), func() (interface{}, error) {
		return op.Handler(con, p)
	})
}

// Pinned reports whether the result of the named operation called with
// the given parameters is immutable.
func (d *Dispatcher) Pinned(name string, p Params) bool {
	op, ok := d.ops[name]
	return ok && op.pinned(p)
}

// Operations returns the descriptors of the table ordered by name.
func (d *Dispatcher) Operations() []Operation {
	list := make([]Operation, 0, len(d.ops))
	for _, op := range d.ops {
		list = append(list, *op)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
