package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/event"
	"golang.org/x/sync/singleflight"
	"validator-monitor/internal/logger"
	"validator-monitor/internal/repository/rpc"
	"validator-monitor/internal/types"
)

// Gateway represents the node query gateway used by the repository.
type Gateway interface {
	Start(ctx context.Context, addresses []string)
	Dispatch(ctx context.Context, table string, address string, method string, p rpc.Params) rpc.Envelope
	Pinned(table string, method string, p rpc.Params) bool
	Operations(table string) []rpc.Operation
	Endpoints() []types.Endpoint
	SubscribeHeads(address string, sink chan<- types.Head) (event.Subscription, error)
	Close()
}

// ResultCache represents the store of immutable operation results.
type ResultCache interface {
	PullResult(key string) (json.RawMessage, bool)
	PushResult(key string, res json.RawMessage) error
	Close()
}

// proxy represents Repository interface implementation and controls access to data
// trough several low level bridges.
type proxy struct {
	gw    Gateway
	cache ResultCache
	log   logger.Logger

	// pinnedRequestGroup collapses concurrent identical pinned requests.
	pinnedRequestGroup singleflight.Group
}

func newProxy(gw Gateway, cache ResultCache, log logger.Logger) *proxy {
	return &proxy{
		gw:    gw,
		cache: cache,
		log:   log,
	}
}

// Start connects the given node endpoints.
func (p *proxy) Start(ctx context.Context, endpoints []string) {
	p.gw.Start(ctx, endpoints)
}

// Endpoints returns the list of ready node endpoints.
func (p *proxy) Endpoints() []types.Endpoint {
	return p.gw.Endpoints()
}

// Operations returns the descriptors of the operations of the given dispatch table.
func (p *proxy) Operations(table string) []rpc.Operation {
	return p.gw.Operations(table)
}

// Rpc executes a direct node RPC operation on the endpoint.
func (p *proxy) Rpc(ctx context.Context, endpoint string, method string, params []string) rpc.Envelope {
	return p.dispatch(ctx, rpc.TableRPC, endpoint, method, params)
}

// Query executes a chain state query on the endpoint.
func (p *proxy) Query(ctx context.Context, endpoint string, method string, params []string) rpc.Envelope {
	return p.dispatch(ctx, rpc.TableQuery, endpoint, method, params)
}

// Custom executes a derived operation on the endpoint.
func (p *proxy) Custom(ctx context.Context, endpoint string, method string, params []string) rpc.Envelope {
	return p.dispatch(ctx, rpc.TableCustom, endpoint, method, params)
}

// SlashAmount calculates the slashed amount of the account in the given block.
func (p *proxy) SlashAmount(ctx context.Context, endpoint string, blockHash string, account string) rpc.Envelope {
	return p.dispatch(ctx, rpc.TableCustom, endpoint, rpc.SlashAmountMethod, []string{blockHash, account})
}

// SubscribeHeads feeds new chain heads of the endpoint into the sink.
func (p *proxy) SubscribeHeads(endpoint string, sink chan<- types.Head) (event.Subscription, error) {
	return p.gw.SubscribeHeads(endpoint, sink)
}

// Close terminates all the node connections and releases the cache.
func (p *proxy) Close() {
	p.gw.Close()
	if p.cache != nil {
		p.cache.Close()
	}
	p.log.Notice("repository closed")
}

// dispatch routes the operation to the gateway; results pinned to a block
// are served from the cache when available.
func (p *proxy) dispatch(ctx context.Context, table string, endpoint string, method string, params rpc.Params) rpc.Envelope {
	if p.cache == nil || !p.gw.Pinned(table, method, params) {
		return p.gw.Dispatch(ctx, table, endpoint, method, params)
	}

	key := resultKey(table, endpoint, method, params)
	if res, ok := p.cache.PullResult(key); ok {
		p.log.Debugf("%s %s served from cache", table, method)
		return rpc.Envelope{Result: res}
	}

	// the shared request outlives any single caller; each caller waits on its own context
	shared := context.WithoutCancel(ctx)
	ch := p.pinnedRequestGroup.DoChan(key, func() (interface{}, error) {
		env := p.gw.Dispatch(shared, table, endpoint, method, params)

		// null may turn into a value once the node learns the block
		if env.OK() && string(env.Result) != "null" {
			if err := p.cache.PushResult(key, env.Result); err != nil {
				p.log.Warningf("%s %s result not cached; %s", table, method, err.Error())
			}
		}
		return env, nil
	})

	select {
	case res := <-ch:
		return res.Val.(rpc.Envelope)
	case <-ctx.Done():
		return rpc.Failure(ctx.Err())
	}
}

// resultKey builds the cache key of a pinned operation result;
// each part is prefixed by its length so no value can forge a separator.
func resultKey(table string, endpoint string, method string, params rpc.Params) string {
	var sb strings.Builder
	writeKeyPart(&sb, table)
	writeKeyPart(&sb, endpoint)
	writeKeyPart(&sb, method)

	// trailing absent values do not change the call
	last := len(params) - 1
	for ; last >= 0; last-- {
		if _, ok := params.Value(last); ok {
			break
		}
	}

	for i := 0; i <= last; i++ {
		v, _ := params.Value(i)
		writeKeyPart(&sb, v)
	}
	return sb.String()
}

// writeKeyPart appends a length prefixed part to the key.
func writeKeyPart(sb *strings.Builder, part string) {
	sb.WriteString(strconv.Itoa(len(part)))
	sb.WriteByte(':')
	sb.WriteString(part)
}
