package rpc

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"validator-monitor/internal/config"
	"validator-monitor/internal/logger"
)

// State represents the lifecycle state of an endpoint connection.
type State int32

// endpoint connection states
const (
	StateConnecting State = iota
	StateReady
	StateFailed
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Dialer opens a connection to the node at the given address.
type Dialer func(address string) (*Connection, error)

// slot holds the registry record of a single endpoint.
type slot struct {
	state State
	conn  *Connection
}

// Registry owns the endpoint connections of the gateway.
// Connections are created once per address; a failed endpoint
// is never connected again until the process restarts.
type Registry struct {
	mu    sync.RWMutex
	slots map[string]*slot
	setup singleflight.Group

	dial         Dialer
	setupTimeout time.Duration
	parallelism  int
	log          logger.Logger
}

// NewRegistry creates a new endpoint registry dialing real blockchain nodes.
func NewRegistry(cfg *config.Gateway, log logger.Logger) *Registry {
	return newRegistry(func(address string) (*Connection, error) {
		return Dial(address, cfg, log)
	}, cfg.SetupTimeout, cfg.SetupParallelism, log)
}

// newRegistry creates a new endpoint registry using the given dialer.
func newRegistry(dial Dialer, setupTimeout time.Duration, parallelism int, log logger.Logger) *Registry {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Registry{
		slots:        make(map[string]*slot),
		dial:         dial,
		setupTimeout: setupTimeout,
		parallelism:  parallelism,
		log:          log,
	}
}

// Register sets up the connection to the given endpoint address, unless
// the address has been registered before. It returns the state of the endpoint.
func (r *Registry) Register(ctx context.Context, address string) State {
	if st, ok := r.State(address); ok && st != StateConnecting {
		r.log.Infof("setup of %s already done; %s", address, st)
		return st
	}

	// concurrent registrations of the same address share a single attempt
	st, _, _ := r.setup.Do(address, func() (interface{}, error) {
		if st, ok := r.State(address); ok && st != StateConnecting {
			return st, nil
		}
		return r.connect(ctx, address), nil
	})
	return st.(State)
}

// connect makes the connection attempt and records the outcome.
func (r *Registry) connect(ctx context.Context, address string) State {
	r.store(address, &slot{state: StateConnecting})

	con, err := invoke(ctx, r.setupTimeout, fmt.Sprintf("Setup of %s timed out.", address), func() (*Connection, error) {
		return r.dial(address)
	}, func(late *Connection) {
		// the attempt was abandoned already, nobody will use this one
		r.log.Warningf("late connection to %s discarded", address)
		late.Close()
	})
	if err != nil {
		r.log.Errorf("setup of %s failed; %s", address, err.Error())
		r.store(address, &slot{state: StateFailed})
		return StateFailed
	}

	r.log.Noticef("endpoint %s is ready", address)
	r.store(address, &slot{state: StateReady, conn: con})
	return StateReady
}

// RegisterAll sets up connections to all the given endpoints.
// Failed endpoints are logged and skipped; the call returns when every
// endpoint settled.
func (r *Registry) RegisterAll(ctx context.Context, addresses []string) {
	var eg errgroup.Group
	eg.SetLimit(r.parallelism)

	for _, address := range addresses {
		address := address
		eg.Go(func() error {
			r.Register(ctx, address)
			return nil
		})
	}
	_ = eg.Wait()

	r.log.Noticef("%d of %d endpoints ready", len(r.List()), len(addresses))
}

// store records the slot of an endpoint.
func (r *Registry) store(address string, s *slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[address] = s
}

// State returns the state of the given endpoint, if it was ever registered.
func (r *Registry) State(address string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[address]
	if !ok {
		return 0, false
	}
	return s.state, true
}

// Get returns the ready connection of the given endpoint.
func (r *Registry) Get(address string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.slots[address]
	if !ok || s.state != StateReady {
		return nil, false
	}
	return s.conn, true
}

// List returns the addresses of all ready endpoints in lexical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]string, 0, len(r.slots))
	for address, s := range r.slots {
		if s.state == StateReady {
			list = append(list, address)
		}
	}
	sort.Strings(list)
	return list
}

// Close terminates all the ready connections.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.slots {
		if s.state == StateReady {
			s.conn.Close()
		}
	}
	r.log.Info("blockchain connections are closed")
}
