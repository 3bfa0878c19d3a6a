package rpc

import (
	"fmt"
	"strconv"
	"strings"

	gstypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Params represents the positional parameters of an operation call.
// A missing or blank value is absent.
type Params []string

// Value returns the parameter at the given position, if present.
func (p Params) Value(i int) (string, bool) {
	if i < 0 || i >= len(p) {
		return "", false
	}
	v := strings.TrimSpace(p[i])
	return v, v != ""
}

// blockNumber decodes an optional block number parameter;
// both decimal and 0x prefixed hex notations are accepted.
func (p Params) blockNumber(i int) (*uint64, error) {
	v, ok := p.Value(i)
	if !ok {
		return nil, nil
	}

	var num uint64
	var err error
	if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
		num, err = hexutil.DecodeUint64(v)
	} else {
		num, err = strconv.ParseUint(v, 10, 64)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid block number %s; %w", v, err)
	}
	return &num, nil
}

// hash decodes an optional 32 bytes hash parameter.
func (p Params) hash(i int) (*gstypes.Hash, error) {
	v, ok := p.Value(i)
	if !ok {
		return nil, nil
	}

	raw, err := hexutil.Decode(v)
	if err != nil {
		return nil, fmt.Errorf("invalid hash %s; %w", v, err)
	}
	if len(raw) != len(gstypes.Hash{}) {
		return nil, fmt.Errorf("invalid hash %s; expected %d bytes", v, len(gstypes.Hash{}))
	}

	h := gstypes.NewHash(raw)
	return &h, nil
}

// hashArg returns an optional hash parameter in its canonical hex form for a raw RPC call.
func (p Params) hashArg(i int) (string, bool, error) {
	h, err := p.hash(i)
	if err != nil || h == nil {
		return "", false, err
	}
	return h.Hex(), true, nil
}

// account decodes an SS58 account address parameter into its public key.
func (p Params) account(i int) ([]byte, error) {
	v, _ := p.Value(i)
	pub, _, err := decodeSS58(v)
	if err != nil {
		return nil, fmt.Errorf("invalid account address %s; %w", v, err)
	}
	return pub, nil
}
