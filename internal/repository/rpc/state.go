package rpc

import (
	"errors"
	"math/big"

	gstypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"validator-monitor/internal/types"
)

// query parameter names
const (
	paramAccountAddress = "accountAddress"
	paramStashAddress   = "stashAddress"
	paramProposalHash   = "proposalHash"
)

// keyFunc encodes the storage map key from the call parameters.
type keyFunc func(p Params) ([]byte, error)

// accountKey encodes an SS58 address parameter as the storage map key.
func accountKey(p Params) ([]byte, error) {
	return p.account(0)
}

// hashKey encodes a hash parameter as the storage map key.
func hashKey(p Params) ([]byte, error) {
	h, err := p.hash(0)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errors.New("hash not given")
	}
	return h[:], nil
}

// storageQuery builds a handler reading and decoding a storage entry.
// Plain values take the optional block hash as the first parameter, map
// entries take the key first and the optional block hash second.
// An empty entry results in null.
func storageQuery[T any](pallet, item string, key keyFunc, render func(con *Connection, v *T) interface{}) Handler {
	return func(con *Connection, p Params) (interface{}, error) {
		var keys [][]byte
		atIndex := 0
		if key != nil {
			k, err := key(p)
			if err != nil {
				return nil, err
			}
			keys, atIndex = [][]byte{k}, 1
		}

		at, err := p.hash(atIndex)
		if err != nil {
			return nil, err
		}

		var val T
		ok, err := con.storage(&val, at, pallet, item, keys...)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		return render(con, &val), nil
	}
}

// storage reads a storage entry and keeps track of the operation.
func (con *Connection) storage(target interface{}, at *gstypes.Hash, pallet, item string, keys ...[]byte) (bool, error) {
	con.calls.Inc()
	con.log.Debugf("reading %s.%s on %s", pallet, item, con.address)

	ok, err := con.node.Storage(target, at, pallet, item, keys...)
	if err != nil {
		con.log.Errorf("%s.%s on %s failed; %s", pallet, item, con.address, err.Error())
		return false, err
	}
	return ok, nil
}

// systemQueries lists the chain state queries of the system and timestamp pallets.
func systemQueries() []Operation {
	return []Operation{
		{
			Name:    "system/events",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: systemEvents,
			Pin:     paramBlockHash,
		},
		{
			Name: "system/account",
			Params: []Param{
				{Name: paramAccountAddress, Required: true, Missing: "Missing account address parameter."},
				{Name: paramBlockHash},
			},
			Handler: storageQuery("System", "Account", accountKey, renderAccountInfo),
			Pin:     paramBlockHash,
		},
		{
			Name:    "system/number",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: storageQuery("System", "Number", nil, renderU32),
			Pin:     paramBlockHash,
		},
		{
			Name:    "timestamp/now",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: storageQuery("Timestamp", "Now", nil, renderU64),
			Pin:     paramBlockHash,
		},
	}
}

// systemEvents pulls the events emitted in the given block,
// or in the best block if the hash is not given.
func systemEvents(con *Connection, p Params) (interface{}, error) {
	at, err := p.hash(0)
	if err != nil {
		return nil, err
	}

	con.calls.Inc()
	evs, err := con.node.Events(at)
	if err != nil {
		con.log.Errorf("events of %s not available; %s", con.address, err.Error())
		return nil, err
	}

	con.log.Debugf("%d events loaded from %s", len(evs), con.address)
	return eventRecords(evs, con.ss58), nil
}

// accountInfo is the storage layout of the system account record.
type accountInfo struct {
	Nonce       gstypes.U32
	Consumers   gstypes.U32
	Providers   gstypes.U32
	Sufficients gstypes.U32
	Data        struct {
		Free     gstypes.U128
		Reserved gstypes.U128
		Frozen   gstypes.U128
		Flags    gstypes.U128
	}
}

func renderAccountInfo(_ *Connection, v *accountInfo) interface{} {
	return types.AccountInfo{
		Nonce:       uint32(v.Nonce),
		Consumers:   uint32(v.Consumers),
		Providers:   uint32(v.Providers),
		Sufficients: uint32(v.Sufficients),
		Data: types.AccountData{
			Free:     u128(v.Data.Free),
			Reserved: u128(v.Data.Reserved),
			Frozen:   u128(v.Data.Frozen),
			Flags:    u128(v.Data.Flags),
		},
	}
}

func renderU32(_ *Connection, v *gstypes.U32) interface{} {
	return uint32(*v)
}

func renderU64(_ *Connection, v *gstypes.U64) interface{} {
	return uint64(*v)
}

// u128 converts the decoded balance into a big integer.
func u128(v gstypes.U128) *big.Int {
	if v.Int == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.Int)
}

// renderAccounts turns a list of raw account ids into SS58 addresses.
func renderAccounts(con *Connection, ids [][32]byte) []string {
	list := make([]string, 0, len(ids))
	for _, id := range ids {
		list = append(list, con.accountAddress(id))
	}
	return list
}

// accountAddress renders a raw account id in the address format of the chain.
func (con *Connection) accountAddress(id [32]byte) string {
	addr, err := encodeSS58(id[:], con.ss58)
	if err != nil {
		con.log.Errorf("can not encode account %x; %s", id, err.Error())
		return ""
	}
	return addr
}
