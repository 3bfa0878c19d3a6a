package rpc

import (
	"fmt"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/parser"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/retriever"
	regstate "github.com/centrifuge/go-substrate-rpc-client/v4/registry/state"
	gstypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// Node represents the remote procedure surface of a single blockchain node
// as provided by the client library.
type Node interface {
	// Call performs a raw RPC call and decodes the response into the result.
	Call(result interface{}, method string, args ...interface{}) error

	// Storage reads and decodes a storage entry at the given block,
	// or at the best block if the hash is nil. It reports false for an empty entry.
	Storage(target interface{}, at *gstypes.Hash, pallet, item string, keys ...[]byte) (bool, error)

	// StorageRaw reads an encoded storage entry; nil means the entry is empty.
	StorageRaw(at *gstypes.Hash, pallet, item string, keys ...[]byte) ([]byte, error)

	// Events pulls decoded events of the given block, or of the best block if the hash is nil.
	Events(at *gstypes.Hash) ([]*parser.Event, error)

	// SubscribeHeads opens a new chain heads subscription.
	SubscribeHeads() (HeadSubscription, error)

	// Close terminates the node session.
	Close()
}

// HeadSubscription represents an open new heads subscription.
type HeadSubscription interface {
	Chan() <-chan gstypes.Header
	Err() <-chan error
	Unsubscribe()
}

// substrateNode implements the Node on top of the substrate RPC client.
type substrateNode struct {
	api    *gsrpc.SubstrateAPI
	meta   *gstypes.Metadata
	events retriever.EventRetriever
}

// dialNode opens the node session and loads the runtime metadata
// needed to build storage keys and decode events.
func dialNode(address string) (*substrateNode, error) {
	api, err := gsrpc.NewSubstrateAPI(address)
	if err != nil {
		return nil, err
	}

	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		api.Client.Close()
		return nil, fmt.Errorf("metadata not available; %w", err)
	}

	evr, err := retriever.NewDefaultEventRetriever(regstate.NewEventProvider(api.RPC.State), api.RPC.State)
	if err != nil {
		api.Client.Close()
		return nil, fmt.Errorf("event retriever not available; %w", err)
	}

	return &substrateNode{api: api, meta: meta, events: evr}, nil
}

// Call performs a raw RPC call.
func (n *substrateNode) Call(result interface{}, method string, args ...interface{}) error {
	return n.api.Client.Call(result, method, args...)
}

// Storage reads and decodes a storage entry.
func (n *substrateNode) Storage(target interface{}, at *gstypes.Hash, pallet, item string, keys ...[]byte) (bool, error) {
	key, err := gstypes.CreateStorageKey(n.meta, pallet, item, keys...)
	if err != nil {
		return false, err
	}

	if at == nil {
		return n.api.RPC.State.GetStorageLatest(key, target)
	}
	return n.api.RPC.State.GetStorage(key, target, *at)
}

// StorageRaw reads an encoded storage entry.
func (n *substrateNode) StorageRaw(at *gstypes.Hash, pallet, item string, keys ...[]byte) ([]byte, error) {
	key, err := gstypes.CreateStorageKey(n.meta, pallet, item, keys...)
	if err != nil {
		return nil, err
	}

	var raw *gstypes.StorageDataRaw
	if at == nil {
		raw, err = n.api.RPC.State.GetStorageRawLatest(key)
	} else {
		raw, err = n.api.RPC.State.GetStorageRaw(key, *at)
	}
	if err != nil || raw == nil || len(*raw) == 0 {
		return nil, err
	}
	return *raw, nil
}

// Events pulls decoded events of a block.
func (n *substrateNode) Events(at *gstypes.Hash) ([]*parser.Event, error) {
	if at != nil {
		return n.events.GetEvents(*at)
	}

	hash, err := n.api.RPC.Chain.GetBlockHashLatest()
	if err != nil {
		return nil, err
	}
	return n.events.GetEvents(hash)
}

// SubscribeHeads opens a new chain heads subscription.
func (n *substrateNode) SubscribeHeads() (HeadSubscription, error) {
	sub, err := n.api.RPC.Chain.SubscribeNewHeads()
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Close terminates the node session.
func (n *substrateNode) Close() {
	n.api.Client.Close()
}
