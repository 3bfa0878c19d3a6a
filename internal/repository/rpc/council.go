package rpc

import (
	gstypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"validator-monitor/internal/types"
)

// councilQueries lists the chain state queries of the council collective.
func councilQueries() []Operation {
	return []Operation{
		{
			Name:    "council/members",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: storageQuery("Council", "Members", nil, renderAccountList),
			Pin:     paramBlockHash,
		},
		{
			Name:    "council/proposals",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: storageQuery("Council", "Proposals", nil, renderHashList),
			Pin:     paramBlockHash,
		},
		{
			Name:    "council/proposalCount",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: storageQuery("Council", "ProposalCount", nil, renderU32),
			Pin:     paramBlockHash,
		},
		{
			Name: "council/proposalOf",
			Params: []Param{
				{Name: paramProposalHash, Required: true, Missing: "Missing proposal hash parameter."},
				{Name: paramBlockHash},
			},
			Handler: councilProposalOf,
			Pin:     paramBlockHash,
		},
		{
			Name: "council/voting",
			Params: []Param{
				{Name: paramProposalHash, Required: true, Missing: "Missing proposal hash parameter."},
				{Name: paramBlockHash},
			},
			Handler: storageQuery("Council", "Voting", hashKey, renderVotes),
			Pin:     paramBlockHash,
		},
	}
}

// councilProposalOf pulls the encoded call of a council proposal.
// The call is returned as hex, its decoding depends on the runtime version.
func councilProposalOf(con *Connection, p Params) (interface{}, error) {
	key, err := hashKey(p)
	if err != nil {
		return nil, err
	}
	at, err := p.hash(1)
	if err != nil {
		return nil, err
	}

	con.calls.Inc()
	con.log.Debugf("loading council proposal %s", hexutil.Encode(key))

	raw, err := con.node.StorageRaw(at, "Council", "ProposalOf", key)
	if err != nil {
		con.log.Errorf("council proposal not available on %s; %s", con.address, err.Error())
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return hexutil.Encode(raw), nil
}

func renderHashList(_ *Connection, v *[]gstypes.Hash) interface{} {
	list := make([]string, 0, len(*v))
	for _, h := range *v {
		list = append(list, h.Hex())
	}
	return list
}

// votes is the storage layout of the council voting record.
type votes struct {
	Index     gstypes.U32
	Threshold gstypes.U32
	Ayes      [][32]byte
	Nays      [][32]byte
	End       gstypes.U32
}

func renderVotes(con *Connection, v *votes) interface{} {
	return types.Votes{
		Index:     uint32(v.Index),
		Threshold: uint32(v.Threshold),
		Ayes:      renderAccounts(con, v.Ayes),
		Nays:      renderAccounts(con, v.Nays),
		End:       uint32(v.End),
	}
}
