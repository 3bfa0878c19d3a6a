package types

import "math/big"

// EventRecord represents a single on-chain event in its textual form.
// The Data holds the event fields as a JSON array in declaration order.
type EventRecord struct {
	Section string `json:"section"`
	Method  string `json:"method"`
	Data    string `json:"data"`
}

// SlashEvent represents a decoded staking slash event.
type SlashEvent struct {
	Section string   `json:"section"`
	Method  string   `json:"method"`
	Account string   `json:"account"`
	Amount  *big.Int `json:"amount"`
}

// AccountInfo represents the system account record of an address.
type AccountInfo struct {
	Nonce       uint32      `json:"nonce"`
	Consumers   uint32      `json:"consumers"`
	Providers   uint32      `json:"providers"`
	Sufficients uint32      `json:"sufficients"`
	Data        AccountData `json:"data"`
}

// AccountData represents the balances of an account.
type AccountData struct {
	Free     *big.Int `json:"free"`
	Reserved *big.Int `json:"reserved"`
	Frozen   *big.Int `json:"frozen"`
	Flags    *big.Int `json:"flags"`
}

// ActiveEra represents the staking era currently in force.
type ActiveEra struct {
	Index uint32  `json:"index"`
	Start *uint64 `json:"start"`
}

// Votes represents the council voting state of a proposal.
type Votes struct {
	Index     uint32   `json:"index"`
	Threshold uint32   `json:"threshold"`
	Ayes      []string `json:"ayes"`
	Nays      []string `json:"nays"`
	End       uint32   `json:"end"`
}
