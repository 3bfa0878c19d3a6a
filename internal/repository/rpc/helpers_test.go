package rpc

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/parser"
	gstypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"go.uber.org/atomic"
	"validator-monitor/internal/config"
	"validator-monitor/internal/logger"
)

// alice is the well known development account
const (
	aliceAddress = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	aliceHex     = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	testHash     = "0x0b4d9e1b7c0c3e4a9d3b3f1e4c8d5b6a7f8e9d0c1b2a39485766554433221100"
)

func testLogger() logger.Logger {
	return logger.NewWithWriter(io.Discard, "test", "DEBUG", "%{message}")
}

func testGatewayConfig() *config.Gateway {
	return &config.Gateway{
		SetupTimeout:     time.Second,
		CallTimeout:      time.Second,
		ResubscribeTick:  10 * time.Millisecond,
		SetupParallelism: 4,
		SS58Format:       42,
	}
}

// fakeCall records a single raw node call.
type fakeCall struct {
	method string
	args   []interface{}
}

// fakeNode implements the Node interface with canned responses.
type fakeNode struct {
	mu      sync.Mutex
	calls   []fakeCall
	results map[string]string
	errs    map[string]error
	delay   time.Duration

	storage func(target interface{}, at *gstypes.Hash, pallet, item string, keys ...[]byte) (bool, error)
	raw     func(at *gstypes.Hash, pallet, item string, keys ...[]byte) ([]byte, error)
	events  func(at *gstypes.Hash) ([]*parser.Event, error)
	heads   func() (HeadSubscription, error)

	eventCalls *atomic.Int32
	closed     *atomic.Bool
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		results:    make(map[string]string),
		errs:       make(map[string]error),
		eventCalls: atomic.NewInt32(0),
		closed:     atomic.NewBool(false),
	}
}

func (n *fakeNode) Call(result interface{}, method string, args ...interface{}) error {
	n.mu.Lock()
	n.calls = append(n.calls, fakeCall{method: method, args: args})
	res, ok := n.results[method]
	err := n.errs[method]
	delay := n.delay
	n.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("method %s not found", method)
	}
	return json.Unmarshal([]byte(res), result)
}

func (n *fakeNode) Storage(target interface{}, at *gstypes.Hash, pallet, item string, keys ...[]byte) (bool, error) {
	n.record(pallet + "." + item)
	if n.storage == nil {
		return false, nil
	}
	return n.storage(target, at, pallet, item, keys...)
}

func (n *fakeNode) StorageRaw(at *gstypes.Hash, pallet, item string, keys ...[]byte) ([]byte, error) {
	n.record(pallet + "." + item)
	if n.raw == nil {
		return nil, nil
	}
	return n.raw(at, pallet, item, keys...)
}

func (n *fakeNode) Events(at *gstypes.Hash) ([]*parser.Event, error) {
	n.eventCalls.Inc()
	n.record("System.Events")
	if n.events == nil {
		return nil, nil
	}
	return n.events(at)
}

func (n *fakeNode) SubscribeHeads() (HeadSubscription, error) {
	if n.heads == nil {
		return nil, fmt.Errorf("subscriptions not supported")
	}
	return n.heads()
}

func (n *fakeNode) Close() {
	n.closed.Store(true)
}

func (n *fakeNode) record(method string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, fakeCall{method: method})
}

func (n *fakeNode) recorded() []fakeCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]fakeCall(nil), n.calls...)
}

func (n *fakeNode) respond(method string, result string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results[method] = result
}

func (n *fakeNode) fail(method string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs[method] = err
}

func newTestConnection(address string, node Node) *Connection {
	return newConnection(address, node, testGatewayConfig(), testLogger())
}

// fakeSub implements the HeadSubscription.
type fakeSub struct {
	heads        chan gstypes.Header
	errs         chan error
	unsubscribed *atomic.Bool
}

func newFakeSub() *fakeSub {
	return &fakeSub{
		heads:        make(chan gstypes.Header, 8),
		errs:         make(chan error, 1),
		unsubscribed: atomic.NewBool(false),
	}
}

func (s *fakeSub) Chan() <-chan gstypes.Header { return s.heads }
func (s *fakeSub) Err() <-chan error           { return s.errs }
func (s *fakeSub) Unsubscribe()                { s.unsubscribed.Store(true) }
