package resolvers

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"validator-monitor/internal/repository/rpc"
	"validator-monitor/internal/types"
)

// Endpoint represents resolvable node endpoint.
type Endpoint struct {
	types.Endpoint
}

// NewEndpoint creates a new resolvable endpoint.
func NewEndpoint(ep types.Endpoint) *Endpoint {
	return &Endpoint{Endpoint: ep}
}

// Address resolves the endpoint address.
func (ep *Endpoint) Address() string {
	return ep.Endpoint.Address
}

// Chain resolves the chain name reported by the node.
func (ep *Endpoint) Chain() string {
	return ep.Endpoint.Chain
}

// BestBlock resolves the number of the most recent head observed.
func (ep *Endpoint) BestBlock() hexutil.Uint64 {
	return hexutil.Uint64(ep.Endpoint.BestBlock)
}

// Calls resolves the number of node calls made through the endpoint.
func (ep *Endpoint) Calls() hexutil.Uint64 {
	return hexutil.Uint64(ep.Endpoint.Calls)
}

// Operation represents resolvable operation descriptor.
type Operation struct {
	rpc.Operation
}

// NewOperation creates a new resolvable operation descriptor.
func NewOperation(op rpc.Operation) *Operation {
	return &Operation{Operation: op}
}

// Name resolves the operation name.
func (op *Operation) Name() string {
	return op.Operation.Name
}

// Params resolves the positional parameters of the operation.
func (op *Operation) Params() []*Parameter {
	list := make([]*Parameter, 0, len(op.Operation.Params))
	for _, p := range op.Operation.Params {
		list = append(list, &Parameter{Param: p})
	}
	return list
}

// PinnedBy resolves the name of the parameter pinning the result to a block.
func (op *Operation) PinnedBy() *string {
	if op.Operation.Pin == "" {
		return nil
	}
	pin := op.Operation.Pin
	return &pin
}

// Parameter represents resolvable operation parameter.
type Parameter struct {
	rpc.Param
}

func (p *Parameter) Name() string {
	return p.Param.Name
}

func (p *Parameter) Required() bool {
	return p.Param.Required
}

// Head represents resolvable chain head.
type Head struct {
	types.Head
}

// Number resolves the number of the head block.
func (h *Head) Number() hexutil.Uint64 {
	return hexutil.Uint64(h.Head.Number)
}

func (h *Head) ParentHash() string {
	return h.Head.ParentHash
}

func (h *Head) StateRoot() string {
	return h.Head.StateRoot
}

func (h *Head) ExtrinsicsRoot() string {
	return h.Head.ExtrinsicsRoot
}
