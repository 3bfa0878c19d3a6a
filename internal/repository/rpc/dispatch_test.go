package rpc

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/atomic"
)

// testOperations builds a small operation table counting handler invocations.
func testOperations(invoked *atomic.Int32) []Operation {
	return []Operation{
		{
			Name: "test/echo",
			Params: []Param{
				{Name: "first", Required: true, Missing: "Missing first parameter."},
				{Name: paramBlockHash},
			},
			Handler: func(_ *Connection, p Params) (interface{}, error) {
				invoked.Inc()
				v, _ := p.Value(0)
				return map[string]string{"echo": v}, nil
			},
			Pin: paramBlockHash,
		},
		{
			Name: "test/null",
			Handler: func(_ *Connection, _ Params) (interface{}, error) {
				invoked.Inc()
				return nil, nil
			},
		},
		{
			Name: "test/slow",
			Handler: func(_ *Connection, _ Params) (interface{}, error) {
				invoked.Inc()
				time.Sleep(time.Second)
				return "late", nil
			},
		},
		{
			Name: "test/broken",
			Handler: func(_ *Connection, _ Params) (interface{}, error) {
				invoked.Inc()
				return nil, errors.New("node said no")
			},
		},
	}
}

func newTestDispatcher(invoked *atomic.Int32, m *Metrics) *Dispatcher {
	return NewDispatcher("test", testOperations(invoked), 50*time.Millisecond, m, testLogger())
}

func TestDispatchMissingMethod(t *testing.T) {
	g := NewWithT(t)
	invoked := atomic.NewInt32(0)
	d := newTestDispatcher(invoked, nil)

	env := d.Dispatch(context.Background(), newTestConnection("ws://a", newFakeNode()), "", Params{"x"})
	g.Expect(env.OK()).To(BeFalse())
	g.Expect(env.Error).To(Equal("Missing method name."))
	g.Expect(env.Result).To(BeNil())
	g.Expect(invoked.Load()).To(BeZero())
}

func TestDispatchUnknownMethod(t *testing.T) {
	g := NewWithT(t)
	invoked := atomic.NewInt32(0)
	d := newTestDispatcher(invoked, nil)
	con := newTestConnection("ws://a", newFakeNode())

	for _, p := range []Params{nil, {"a", "b", "c"}} {
		env := d.Dispatch(context.Background(), con, "test/nope", p)
		g.Expect(env.Error).To(Equal("Unknown method test/nope."))
	}
	g.Expect(invoked.Load()).To(BeZero())
}

func TestDispatchMissingParameter(t *testing.T) {
	g := NewWithT(t)
	invoked := atomic.NewInt32(0)
	d := newTestDispatcher(invoked, nil)
	con := newTestConnection("ws://a", newFakeNode())

	for _, p := range []Params{nil, {}, {""}, {"   ", testHash}} {
		res, err := d.Call(context.Background(), con, "test/echo", p)
		g.Expect(res).To(BeNil())
		g.Expect(err).To(MatchError("Missing first parameter."))
		g.Expect(KindOf(err)).To(Equal(KindMissingParameter))
	}
	g.Expect(invoked.Load()).To(BeZero())
}

func TestDispatchSuccess(t *testing.T) {
	g := NewWithT(t)
	invoked := atomic.NewInt32(0)
	d := newTestDispatcher(invoked, nil)
	con := newTestConnection("ws://a", newFakeNode())

	env := d.Dispatch(context.Background(), con, "test/echo", Params{"hello"})
	g.Expect(env.OK()).To(BeTrue())
	g.Expect(env.Error).To(BeEmpty())
	g.Expect(env.Result).To(MatchJSON(`{"echo":"hello"}`))

	// null is a valid successful result
	env = d.Dispatch(context.Background(), con, "test/null", nil)
	g.Expect(env.OK()).To(BeTrue())
	g.Expect(string(env.Result)).To(Equal("null"))
	g.Expect(invoked.Load()).To(Equal(int32(2)))
}

func TestDispatchTimeout(t *testing.T) {
	g := NewWithT(t)
	d := newTestDispatcher(atomic.NewInt32(0), nil)

	start := time.Now()
	env := d.Dispatch(context.Background(), newTestConnection("ws://a", newFakeNode()), "test/slow", nil)
	g.Expect(time.Since(start)).To(BeNumerically("<", 500*time.Millisecond))
	g.Expect(env.Error).To(Equal("API call test/slow failed."))
	g.Expect(env.Result).To(BeNil())
}

func TestDispatchHandlerFailure(t *testing.T) {
	g := NewWithT(t)
	d := newTestDispatcher(atomic.NewInt32(0), nil)

	env := d.Dispatch(context.Background(), newTestConnection("ws://a", newFakeNode()), "test/broken", nil)
	g.Expect(env.OK()).To(BeFalse())
	g.Expect(env.Error).To(Equal("node said no"))
}

func TestDispatcherRejectsDuplicates(t *testing.T) {
	g := NewWithT(t)
	ops := testOperations(atomic.NewInt32(0))
	ops = append(ops, ops[0])

	g.Expect(func() {
		NewDispatcher("test", ops, time.Second, nil, testLogger())
	}).To(Panic())
}

func TestDispatcherPinned(t *testing.T) {
	g := NewWithT(t)
	d := newTestDispatcher(atomic.NewInt32(0), nil)

	g.Expect(d.Pinned("test/echo", Params{"x", testHash})).To(BeTrue())
	g.Expect(d.Pinned("test/echo", Params{"x"})).To(BeFalse())
	g.Expect(d.Pinned("test/echo", Params{"x", " "})).To(BeFalse())
	g.Expect(d.Pinned("test/null", Params{"x", testHash})).To(BeFalse())
	g.Expect(d.Pinned("test/nope", Params{"x", testHash})).To(BeFalse())
}

func TestDispatcherOperationsSorted(t *testing.T) {
	g := NewWithT(t)
	d := newTestDispatcher(atomic.NewInt32(0), nil)

	names := make([]string, 0)
	for _, op := range d.Operations() {
		names = append(names, op.Name)
	}
	g.Expect(names).To(Equal([]string{"test/broken", "test/echo", "test/null", "test/slow"}))
}

func TestDispatchMetrics(t *testing.T) {
	g := NewWithT(t)
	m := NewMetrics(prometheus.NewRegistry())
	d := newTestDispatcher(atomic.NewInt32(0), m)
	con := newTestConnection("ws://a", newFakeNode())

	d.Dispatch(context.Background(), con, "test/echo", Params{"x"})
	d.Dispatch(context.Background(), con, "test/echo", nil)
	d.Dispatch(context.Background(), con, "test/unknown", nil)
	d.Dispatch(context.Background(), con, "test/slow", nil)

	g.Expect(testutil.ToFloat64(m.calls.WithLabelValues("test", "test/echo", "ok"))).To(Equal(1.0))
	g.Expect(testutil.ToFloat64(m.calls.WithLabelValues("test", "test/echo", "MissingParameter"))).To(Equal(1.0))
	g.Expect(testutil.ToFloat64(m.calls.WithLabelValues("test", "-", "UnknownMethod"))).To(Equal(1.0))
	g.Expect(testutil.ToFloat64(m.calls.WithLabelValues("test", "test/slow", "Timeout"))).To(Equal(1.0))
}

// validParams provides a valid value for every named parameter of the gateway tables.
var validParams = map[string]string{
	paramBlockNumber:    "1",
	paramBlockHash:      testHash,
	paramAccountAddress: aliceAddress,
	paramStashAddress:   aliceAddress,
	paramProposalHash:   testHash,
	paramPublicKey:      aliceHex,
	paramKeyType:        "babe",
}

// newCompleteNode builds a fake node answering every raw method used by the gateway.
func newCompleteNode() *fakeNode {
	node := newFakeNode()
	for method, res := range map[string]string{
		"chain_getBlockHash":       `"` + testHash + `"`,
		"chain_getHeader":          `{"parentHash":"` + testHash + `","number":"0x10","stateRoot":"` + testHash + `","extrinsicsRoot":"` + testHash + `","digest":{"logs":[]}}`,
		"chain_getBlock":           `{"block":{"header":{"parentHash":"` + testHash + `","number":"0x10","stateRoot":"` + testHash + `","extrinsicsRoot":"` + testHash + `","digest":{"logs":[]}},"extrinsics":["0x00"]},"justifications":null}`,
		"chain_getFinalizedHead":   `"` + testHash + `"`,
		"system_chain":             `"Development"`,
		"system_name":              `"Parity Polkadot"`,
		"system_version":           `"1.0.0"`,
		"system_health":            `{"peers":3,"isSyncing":false,"shouldHavePeers":true}`,
		"system_peers":             `[]`,
		"system_properties":        `{"ss58Format":42,"tokenDecimals":12,"tokenSymbol":"UNIT"}`,
		"system_syncState":         `{"startingBlock":0,"currentBlock":16,"highestBlock":16}`,
		"system_nodeRoles":         `["Authority"]`,
		"system_localPeerId":       `"12D3KooW"`,
		"state_getRuntimeVersion":  `{"specName":"node","implName":"node","authoringVersion":1,"specVersion":100,"implVersion":1,"transactionVersion":1,"stateVersion":1,"apis":[]}`,
		"author_pendingExtrinsics": `[]`,
		"author_hasKey":            `true`,
		"rpc_methods":              `{"methods":["chain_getHeader"]}`,
	} {
		node.respond(method, res)
	}
	return node
}

func TestGatewayOperationsRequireParameters(t *testing.T) {
	g := NewWithT(t)
	gw := newGateway(newRegistry(nil, time.Second, 1, testLogger()), time.Second, nil, testLogger())

	for _, table := range []string{TableRPC, TableQuery, TableCustom} {
		for _, op := range gw.Operations(table) {
			// drop each required parameter on its own, the others are valid
			for i, par := range op.Params {
				if !par.Required {
					continue
				}

				p := make(Params, 0, len(op.Params))
				for _, other := range op.Params {
					p = append(p, validParams[other.Name])
				}
				p[i] = ""

				node := newCompleteNode()
				res, err := gw.tables[table].Call(context.Background(), newTestConnection("ws://a", node), op.Name, p)
				g.Expect(res).To(BeNil(), "%s without %s", op.Name, par.Name)
				g.Expect(par.Missing).NotTo(BeEmpty(), "%s without %s", op.Name, par.Name)
				g.Expect(err).To(MatchError(par.Missing), "%s without %s", op.Name, par.Name)
				g.Expect(node.recorded()).To(BeEmpty(), "%s without %s", op.Name, par.Name)
			}
		}
	}
}

func TestHasKeyRequiresKeyType(t *testing.T) {
	g := NewWithT(t)
	gw := newGateway(newRegistry(nil, time.Second, 1, testLogger()), time.Second, nil, testLogger())

	node := newCompleteNode()
	env := gw.tables[TableRPC].Dispatch(context.Background(), newTestConnection("ws://a", node), "author/hasKey", Params{aliceHex})
	g.Expect(env.Error).To(Equal("Missing key type parameter."))
	g.Expect(node.recorded()).To(BeEmpty())

	env = gw.tables[TableRPC].Dispatch(context.Background(), newTestConnection("ws://a", node), "author/hasKey", Params{"", "babe"})
	g.Expect(env.Error).To(Equal("Missing public key parameter."))
	g.Expect(node.recorded()).To(BeEmpty())
}

func TestGatewayOperationsSucceed(t *testing.T) {
	g := NewWithT(t)
	gw := newGateway(newRegistry(nil, time.Second, 1, testLogger()), time.Second, nil, testLogger())

	for _, table := range []string{TableRPC, TableQuery, TableCustom} {
		for _, op := range gw.Operations(table) {
			p := make(Params, 0, len(op.Params))
			for _, par := range op.Params {
				v, ok := validParams[par.Name]
				g.Expect(ok).To(BeTrue(), "%s parameter %s", op.Name, par.Name)
				p = append(p, v)
			}

			env := gw.tables[table].Dispatch(context.Background(), newTestConnection("ws://a", newCompleteNode()), op.Name, p)
			g.Expect(env.Error).To(BeEmpty(), op.Name)
			g.Expect(env.OK()).To(BeTrue(), op.Name)
		}
	}
}

func TestGatewayOperationNames(t *testing.T) {
	g := NewWithT(t)
	gw := newGateway(newRegistry(nil, time.Second, 1, testLogger()), time.Second, nil, testLogger())

	names := func(table string) []string {
		list := make([]string, 0)
		for _, op := range gw.Operations(table) {
			list = append(list, op.Name)
		}
		return list
	}

	g.Expect(names(TableRPC)).To(ContainElements(
		"chain/getBlockHash", "chain/getHeader", "chain/getBlock", "chain/getFinalizedHead",
		"state/getRuntimeVersion", "system/health", "system/chain", "author/hasKey", "rpc/methods"))
	g.Expect(names(TableQuery)).To(ContainElements(
		"system/events", "system/account", "staking/activeEra", "staking/bonded",
		"session/validators", "council/members", "council/proposalOf", "council/voting"))
	g.Expect(names(TableCustom)).To(Equal([]string{"custom/getSlashAmount"}))
	g.Expect(gw.Operations("unknown")).To(BeNil())
}
