/*
Package repository implements repository for handling fast and efficient access to data required
by the resolvers of the API server.

Internally it utilizes the node query gateway to reach the configured blockchain nodes and an in-memory
cache for results pinned to a specific block. Such results never change and are served from the cache
once loaded.
*/
package repository

import (
	"context"

	"github.com/ethereum/go-ethereum/event"
	"validator-monitor/internal/logger"
	"validator-monitor/internal/repository/rpc"
	"validator-monitor/internal/types"
)

// Repository interface defines functions the underlying implementation provides to API resolvers.
type Repository interface {
	// Start connects the given node endpoints.
	Start(ctx context.Context, endpoints []string)

	// Endpoints returns the list of ready node endpoints.
	Endpoints() []types.Endpoint

	// Operations returns the descriptors of the operations of the given dispatch table.
	Operations(table string) []rpc.Operation

	// Rpc executes a direct node RPC operation on the endpoint.
	Rpc(ctx context.Context, endpoint string, method string, params []string) rpc.Envelope

	// Query executes a chain state query on the endpoint.
	Query(ctx context.Context, endpoint string, method string, params []string) rpc.Envelope

	// Custom executes a derived operation on the endpoint.
	Custom(ctx context.Context, endpoint string, method string, params []string) rpc.Envelope

	// SlashAmount calculates the total amount the account was slashed by in the block,
	// or in the best block if the hash is empty.
	SlashAmount(ctx context.Context, endpoint string, blockHash string, account string) rpc.Envelope

	// SubscribeHeads feeds new chain heads of the endpoint into the sink.
	SubscribeHeads(endpoint string, sink chan<- types.Head) (event.Subscription, error)

	// Close terminates all the node connections and releases the cache.
	Close()
}

// New creates new instance of the Repository implementation, namely proxy structure.
func New(gw Gateway, cache ResultCache, log logger.Logger) Repository {
	return newProxy(gw, cache, log.ModuleLogger("repository"))
}
