// Package resolvers implements GraphQL resolvers to incoming API requests.
package resolvers

import (
	"context"
	"fmt"

	"validator-monitor/internal/logger"
	"validator-monitor/internal/repository"
	"validator-monitor/internal/repository/rpc"
)

// RootResolver is GraphQL resolver of root namespace.
type RootResolver struct {
	repo repository.Repository
	log  logger.Logger
}

// New creates a new root resolver instance.
func New(repo repository.Repository, log logger.Logger) *RootResolver {
	return &RootResolver{
		repo: repo,
		log:  log.ModuleLogger("resolvers"),
	}
}

// operationArgs represents the arguments of a dispatched operation.
type operationArgs struct {
	Endpoint string
	Method   string
	Params   *[]*string
}

// params converts the nullable GraphQL parameters list; null becomes an absent value.
func (args *operationArgs) params() []string {
	if args.Params == nil {
		return nil
	}

	list := make([]string, len(*args.Params))
	for i, v := range *args.Params {
		if v != nil {
			list[i] = *v
		}
	}
	return list
}

// Endpoints resolves the list of ready node endpoints.
func (rs *RootResolver) Endpoints() []*Endpoint {
	eps := rs.repo.Endpoints()

	list := make([]*Endpoint, 0, len(eps))
	for _, ep := range eps {
		list = append(list, NewEndpoint(ep))
	}
	return list
}

// Operations resolves the descriptors of the operations of a dispatch table.
func (rs *RootResolver) Operations(args struct{ Table string }) ([]*Operation, error) {
	switch args.Table {
	case rpc.TableRPC, rpc.TableQuery, rpc.TableCustom:
	default:
		return nil, fmt.Errorf("unknown operation table %s", args.Table)
	}

	ops := rs.repo.Operations(args.Table)
	list := make([]*Operation, 0, len(ops))
	for _, op := range ops {
		list = append(list, NewOperation(op))
	}
	return list, nil
}

// Rpc resolves a direct node RPC operation.
func (rs *RootResolver) Rpc(ctx context.Context, args operationArgs) *Envelope {
	return NewEnvelope(rs.repo.Rpc(ctx, args.Endpoint, args.Method, args.params()))
}

// Query resolves a chain state query.
func (rs *RootResolver) Query(ctx context.Context, args operationArgs) *Envelope {
	return NewEnvelope(rs.repo.Query(ctx, args.Endpoint, args.Method, args.params()))
}

// Custom resolves a derived operation.
func (rs *RootResolver) Custom(ctx context.Context, args operationArgs) *Envelope {
	return NewEnvelope(rs.repo.Custom(ctx, args.Endpoint, args.Method, args.params()))
}

// SlashAmount resolves the slashed amount of an account.
func (rs *RootResolver) SlashAmount(ctx context.Context, args struct {
	Endpoint  string
	Account   string
	BlockHash *string
}) *Envelope {
	var hash string
	if args.BlockHash != nil {
		hash = *args.BlockHash
	}
	return NewEnvelope(rs.repo.SlashAmount(ctx, args.Endpoint, hash, args.Account))
}
