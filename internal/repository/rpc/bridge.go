/*
Package rpc implements the gateway to the RPC interface of Substrate based blockchain nodes.

Each configured node endpoint is served by exactly one long-lived Connection owned by the Registry.
Named operations are routed to the connection through dispatch tables and every operation is bounded
by a fixed timeout. Failures never tear down a connection; they are reported back to the caller
in the result Envelope.

We strongly discourage opening the node RPC interface for unrestricted Internet access. If the gateway
connects to remote nodes, establish an encrypted channel and limit the RPC interface to the gateway.
*/
package rpc

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"go.uber.org/atomic"
	"validator-monitor/internal/config"
	"validator-monitor/internal/logger"
	"validator-monitor/internal/types"
)

// headsRelayCapacity is the number of heads queued between the observer and a subscriber.
const headsRelayCapacity = 16

// Connection represents a single logical session to one blockchain node.
type Connection struct {
	address string
	node    Node
	log     logger.Logger

	// node identity details learned on setup
	chain string
	ss58  uint16

	// observed chain heads
	heads           event.Feed
	best            *atomic.Uint64
	calls           *atomic.Uint64
	resubscribeTick time.Duration

	// heads observer control
	wg       *sync.WaitGroup
	sigClose chan bool
	running  *atomic.Bool
}

// Dial opens a new connection to the node at the given address
// and starts observing its chain heads.
func Dial(address string, cfg *config.Gateway, log logger.Logger) (*Connection, error) {
	// log what we do
	log.Debugf("connecting blockchain node at %s", address)

	// try to establish a connection
	node, err := dialNode(address)
	if err != nil {
		log.Errorf("can not open connection to %s; %s", address, err.Error())
		return nil, err
	}

	con := newConnection(address, node, cfg, log)
	con.identify(cfg.SS58Format)

	// log and start the observer
	log.Noticef("node connection to %s open; chain %s", address, con.chain)
	con.run()
	return con, nil
}

// newConnection builds the connection structure around an open node session.
func newConnection(address string, node Node, cfg *config.Gateway, log logger.Logger) *Connection {
	return &Connection{
		address:         address,
		node:            node,
		log:             log,
		ss58:            cfg.SS58Format,
		best:            atomic.NewUint64(0),
		calls:           atomic.NewUint64(0),
		resubscribeTick: cfg.ResubscribeTick,
		wg:              new(sync.WaitGroup),
		sigClose:        make(chan bool, 1),
		running:         atomic.NewBool(false),
	}
}

// identify pulls the chain name and the address format advertised by the node.
func (con *Connection) identify(fallback uint16) {
	if err := con.node.Call(&con.chain, "system_chain"); err != nil {
		con.log.Warningf("chain name of %s not available; %s", con.address, err.Error())
	}

	var props struct {
		SS58Format *uint16 `json:"ss58Format"`
	}
	if err := con.node.Call(&props, "system_properties"); err != nil {
		con.log.Warningf("properties of %s not available; %s", con.address, err.Error())
	}

	con.ss58 = fallback
	if props.SS58Format != nil {
		con.ss58 = *props.SS58Format
	}
}

// call performs a raw node call and keeps track of the operation.
func (con *Connection) call(result interface{}, method string, args ...interface{}) error {
	con.calls.Inc()
	con.log.Debugf("calling %s on %s", method, con.address)

	if err := con.node.Call(result, method, args...); err != nil {
		con.log.Errorf("%s on %s failed; %s", method, con.address, err.Error())
		return err
	}
	return nil
}

// run starts the connection threads required to follow the chain.
func (con *Connection) run() {
	if con.running.Swap(true) {
		return
	}
	con.wg.Add(1)
	go con.observeHeads()
}

// terminate kills the connection threads to end the session gracefully.
func (con *Connection) terminate() {
	if !con.running.Swap(false) {
		return
	}
	con.sigClose <- true
	con.wg.Wait()
	con.log.Noticef("observer of %s terminated", con.address)
}

// Close terminates the observer and the node session.
func (con *Connection) Close() {
	con.terminate()
	con.node.Close()
	con.log.Infof("blockchain connection to %s is closed", con.address)
}

// Address returns the endpoint address of the connection.
func (con *Connection) Address() string {
	return con.address
}

// Chain returns the chain name reported by the node.
func (con *Connection) Chain() string {
	return con.chain
}

// BestBlock returns the number of the most recent head observed, or zero.
func (con *Connection) BestBlock() uint64 {
	return con.best.Load()
}

// Calls returns the number of node calls made through the connection.
func (con *Connection) Calls() uint64 {
	return con.calls.Load()
}

// SubscribeHeads feeds observed chain heads into the given channel
// until the subscription is closed. Heads the sink has no room for
// are dropped; a slow subscriber never holds the observer.
func (con *Connection) SubscribeHeads(sink chan<- types.Head) event.Subscription {
	relay := make(chan types.Head, headsRelayCapacity)
	sub := con.heads.Subscribe(relay)

	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer sub.Unsubscribe()
		for {
			select {
			case <-quit:
				return nil
			case err := <-sub.Err():
				return err
			case h := <-relay:
				select {
				case sink <- h:
				default:
					con.log.Warningf("slow heads subscriber of %s; head #%d dropped", con.address, h.Number)
				}
			}
		}
	})
}
