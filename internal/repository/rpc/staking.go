package rpc

import (
	gstypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"validator-monitor/internal/types"
)

// stakingQueries lists the chain state queries of the staking and session pallets.
func stakingQueries() []Operation {
	return []Operation{
		{
			Name:    "staking/activeEra",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: storageQuery("Staking", "ActiveEra", nil, renderActiveEra),
			Pin:     paramBlockHash,
		},
		{
			Name:    "staking/currentEra",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: storageQuery("Staking", "CurrentEra", nil, renderU32),
			Pin:     paramBlockHash,
		},
		{
			Name:    "staking/validatorCount",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: storageQuery("Staking", "ValidatorCount", nil, renderU32),
			Pin:     paramBlockHash,
		},
		{
			Name: "staking/bonded",
			Params: []Param{
				{Name: paramStashAddress, Required: true, Missing: "Missing stash address parameter."},
				{Name: paramBlockHash},
			},
			Handler: storageQuery("Staking", "Bonded", accountKey, renderAccount),
			Pin:     paramBlockHash,
		},
		{
			Name:    "session/validators",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: storageQuery("Session", "Validators", nil, renderAccountList),
			Pin:     paramBlockHash,
		},
		{
			Name:    "session/currentIndex",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: storageQuery("Session", "CurrentIndex", nil, renderU32),
			Pin:     paramBlockHash,
		},
	}
}

// activeEra is the storage layout of the active staking era record.
type activeEra struct {
	Index gstypes.U32
	Start gstypes.OptionU64
}

// renderActiveEra converts the active era; the start is unknown until the first block of the era.
func renderActiveEra(_ *Connection, v *activeEra) interface{} {
	era := types.ActiveEra{Index: uint32(v.Index)}
	if ok, start := v.Start.Unwrap(); ok {
		ts := uint64(start)
		era.Start = &ts
	}
	return era
}

// renderAccount converts a single raw account id.
func renderAccount(con *Connection, v *[32]byte) interface{} {
	return con.accountAddress(*v)
}

// renderAccountList converts a list of raw account ids.
func renderAccountList(con *Connection, v *[][32]byte) interface{} {
	return renderAccounts(con, *v)
}
