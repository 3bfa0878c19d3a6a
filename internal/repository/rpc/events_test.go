package rpc

import (
	"math/big"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/registry"
	"github.com/centrifuge/go-substrate-rpc-client/v4/registry/parser"
	gstypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	. "github.com/onsi/gomega"
)

// decimal is a stringer over a big number, like the wide integer types of the codec.
type decimal struct {
	s string
}

func (d decimal) String() string { return d.s }

func TestEventRecordNames(t *testing.T) {
	g := NewWithT(t)

	rec := eventRecord(&parser.Event{Name: "Staking.Slashed"}, 42)
	g.Expect(rec.Section).To(Equal("staking"))
	g.Expect(rec.Method).To(Equal("Slashed"))
	g.Expect(rec.Data).To(MatchJSON("[]"))

	rec = eventRecord(&parser.Event{Name: "ElectionProviderMultiPhase.PhaseTransitioned"}, 42)
	g.Expect(rec.Section).To(Equal("electionProviderMultiPhase"))
	g.Expect(rec.Method).To(Equal("PhaseTransitioned"))

	rec = eventRecord(&parser.Event{Name: "Orphan"}, 42)
	g.Expect(rec.Section).To(Equal("orphan"))
	g.Expect(rec.Method).To(BeEmpty())
}

func TestEventRecordData(t *testing.T) {
	g := NewWithT(t)

	ev := &parser.Event{
		Name: "Test.Values",
		Fields: registry.DecodedFields{
			{Name: accountFieldName, Value: registry.DecodedFields{{Value: accountID(aliceHex)}}},
			{Value: big.NewInt(100)},
			{Value: []byte{1, 2}},
			{Value: gstypes.U32(7)},
			{Value: true},
			{Value: "text"},
			{Value: registry.DecodedFields{{Value: gstypes.U8(1)}, {Value: gstypes.U8(2)}}},
			{Value: []interface{}{gstypes.U16(3), gstypes.U16(4)}},
			{Value: decimal{"123456789012345678901234567890"}},
			{Value: decimal{"Free"}},
			{Value: nil},
			nil,
		},
	}

	rec := eventRecord(ev, 42)
	g.Expect(rec.Data).To(MatchJSON(`[
		"` + aliceAddress + `",
		100,
		"0x0102",
		7,
		true,
		"text",
		[1, 2],
		[3, 4],
		123456789012345678901234567890,
		"Free",
		null,
		null
	]`))
}

func TestEventRecordHashIsNotAnAccount(t *testing.T) {
	g := NewWithT(t)

	hash := make([]interface{}, 0, 32)
	for _, b := range hexutil.MustDecode(aliceHex) {
		hash = append(hash, gstypes.U8(b))
	}

	ev := &parser.Event{
		Name: "Council.Proposed",
		Fields: registry.DecodedFields{
			{Name: accountFieldName, Value: accountID(bobHex)},
			{Name: "u32.proposal_index", Value: gstypes.U32(3)},
			{Name: "primitive_types.H256.proposal_hash", Value: hash},
			{Name: "u32.threshold", Value: gstypes.U32(250)},
		},
	}

	rec := eventRecord(ev, 42)
	g.Expect(rec.Section).To(Equal("council"))
	g.Expect(rec.Data).To(MatchJSON(`["` + bobAddress + `", 3, "` + aliceHex + `", 250]`))
}

func TestEventRecordsAddressFormat(t *testing.T) {
	g := NewWithT(t)

	evs := []*parser.Event{
		slashEvent("Staking.Slashed", aliceHex, 5),
		nil,
	}

	list := eventRecords(evs, 42)
	g.Expect(list).To(HaveLen(1))
	g.Expect(list[0].Data).To(MatchJSON(`["` + aliceAddress + `", 5]`))

	// the account follows the address format of the chain
	list = eventRecords(evs, 0)
	g.Expect(list[0].Data).NotTo(ContainSubstring(aliceAddress))
}
