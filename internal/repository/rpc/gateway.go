package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/prometheus/client_golang/prometheus"
	"validator-monitor/internal/config"
	"validator-monitor/internal/logger"
	"validator-monitor/internal/types"
)

// dispatch table names
const (
	TableRPC    = "rpc"
	TableQuery  = "query"
	TableCustom = "custom"
)

// Gateway represents the blockchain query gateway; it resolves endpoint
// addresses to connections and routes named operations to them.
type Gateway struct {
	registry *Registry
	tables   map[string]*Dispatcher
	log      logger.Logger
}

// New creates a new gateway; endpoints are connected by the Start call.
func New(cfg *config.Config, reg prometheus.Registerer, log logger.Logger) *Gateway {
	lg := log.ModuleLogger("rpc")
	return newGateway(NewRegistry(&cfg.Gateway, lg), cfg.Gateway.CallTimeout, NewMetrics(reg), lg)
}

// newGateway builds the dispatch tables around the given registry.
func newGateway(registry *Registry, timeout time.Duration, m *Metrics, log logger.Logger) *Gateway {
	direct := append(chainOperations(), systemOperations()...)

	queries := systemQueries()
	queries = append(queries, stakingQueries()...)
	queries = append(queries, councilQueries()...)

	rpc := NewDispatcher(TableRPC, direct, timeout, m, log)
	query := NewDispatcher(TableQuery, queries, timeout, m, log)
	custom := NewDispatcher(TableCustom, customOperations(query, log), timeout, m, log)

	return &Gateway{
		registry: registry,
		tables: map[string]*Dispatcher{
			TableRPC:    rpc,
			TableQuery:  query,
			TableCustom: custom,
		},
		log: log,
	}
}

// Start connects all the given endpoints; failed endpoints are logged and skipped.
func (g *Gateway) Start(ctx context.Context, addresses []string) {
	g.log.Noticef("connecting %d endpoints", len(addresses))
	g.registry.RegisterAll(ctx, addresses)
}

// Dispatch executes the named operation of the table against the endpoint.
func (g *Gateway) Dispatch(ctx context.Context, table string, address string, method string, p Params) Envelope {
	d, ok := g.tables[table]
	if !ok {
		return Failure(fmt.Errorf("unknown operation table %s", table))
	}

	con, ok := g.registry.Get(address)
	if !ok {
		return Failure(errNotSetUp(address))
	}
	return d.Dispatch(ctx, con, method, p)
}

// Pinned reports whether the result of the operation is immutable for the given parameters.
func (g *Gateway) Pinned(table string, method string, p Params) bool {
	d, ok := g.tables[table]
	return ok && d.Pinned(method, p)
}

// Operations returns the operation descriptors of the given table.
func (g *Gateway) Operations(table string) []Operation {
	d, ok := g.tables[table]
	if !ok {
		return nil
	}
	return d.Operations()
}

// Endpoints returns the listing records of the ready endpoints.
func (g *Gateway) Endpoints() []types.Endpoint {
	list := make([]types.Endpoint, 0)
	for _, address := range g.registry.List() {
		con, ok := g.registry.Get(address)
		if !ok {
			continue
		}
		list = append(list, types.Endpoint{
			Address:   address,
			Chain:     con.Chain(),
			BestBlock: con.BestBlock(),
			Calls:     con.Calls(),
		})
	}
	return list
}

// SubscribeHeads feeds the new heads observed on the endpoint into the sink.
func (g *Gateway) SubscribeHeads(address string, sink chan<- types.Head) (event.Subscription, error) {
	con, ok := g.registry.Get(address)
	if !ok {
		return nil, errNotSetUp(address)
	}
	return con.SubscribeHeads(sink), nil
}

// Close terminates all the endpoint connections.
func (g *Gateway) Close() {
	g.registry.Close()
}
