// Package types implements data structures exchanged between the node gateway and the API layer.
package types

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Header represents a block header as reported by the node RPC interface.
type Header struct {
	ParentHash     string         `json:"parentHash"`
	Number         hexutil.Uint64 `json:"number"`
	StateRoot      string         `json:"stateRoot"`
	ExtrinsicsRoot string         `json:"extrinsicsRoot"`
	Digest         Digest         `json:"digest"`
}

// Digest holds the encoded digest items of a block header.
type Digest struct {
	Logs []string `json:"logs"`
}

// SignedBlock represents a full block with its justifications.
type SignedBlock struct {
	Block struct {
		Header     Header   `json:"header"`
		Extrinsics []string `json:"extrinsics"`
	} `json:"block"`
	Justifications json.RawMessage `json:"justifications,omitempty"`
}

// Head represents a new chain head observed by the node subscription.
type Head struct {
	Number         uint64 `json:"number"`
	ParentHash     string `json:"parentHash"`
	StateRoot      string `json:"stateRoot"`
	ExtrinsicsRoot string `json:"extrinsicsRoot"`
}
