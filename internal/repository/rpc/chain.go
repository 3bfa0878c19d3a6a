package rpc

import "validator-monitor/internal/types"

// chain RPC parameter names
const (
	paramBlockNumber = "blockNumber"
	paramBlockHash   = "blockHash"
)

// chainOperations lists the direct node RPCs of the chain section.
func chainOperations() []Operation {
	return []Operation{
		{
			Name:    "chain/getBlockHash",
			Params:  []Param{{Name: paramBlockNumber}},
			Handler: chainGetBlockHash,
		},
		{
			Name:    "chain/getHeader",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: chainGetHeader,
			Pin:     paramBlockHash,
		},
		{
			Name:    "chain/getBlock",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: chainGetBlock,
			Pin:     paramBlockHash,
		},
		{
			Name:    "chain/getFinalizedHead",
			Handler: chainGetFinalizedHead,
		},
	}
}

// chainGetBlockHash returns the hash of the block with the given number,
// or the hash of the best block if the number is not given.
func chainGetBlockHash(con *Connection, p Params) (interface{}, error) {
	num, err := p.blockNumber(0)
	if err != nil {
		return nil, err
	}

	// the hash is null for a block the node does not know
	var hash *string
	if num == nil {
		err = con.call(&hash, "chain_getBlockHash")
	} else {
		con.log.Debugf("loading hash of block #%d", *num)
		err = con.call(&hash, "chain_getBlockHash", *num)
	}
	if err != nil {
		return nil, err
	}
	return hash, nil
}

// chainGetHeader returns the header of the block with the given hash,
// or the header of the best block if the hash is not given.
func chainGetHeader(con *Connection, p Params) (interface{}, error) {
	hash, ok, err := p.hashArg(0)
	if err != nil {
		return nil, err
	}

	var hdr *types.Header
	if ok {
		con.log.Debugf("loading header of block %s", hash)
		err = con.call(&hdr, "chain_getHeader", hash)
	} else {
		err = con.call(&hdr, "chain_getHeader")
	}
	if err != nil {
		return nil, err
	}

	if hdr != nil {
		con.log.Debugf("block #%d found on %s", uint64(hdr.Number), con.address)
	}
	return hdr, nil
}

// chainGetBlock returns the block with the given hash,
// or the best block if the hash is not given.
func chainGetBlock(con *Connection, p Params) (interface{}, error) {
	hash, ok, err := p.hashArg(0)
	if err != nil {
		return nil, err
	}

	var blk *types.SignedBlock
	if ok {
		err = con.call(&blk, "chain_getBlock", hash)
	} else {
		err = con.call(&blk, "chain_getBlock")
	}
	if err != nil {
		return nil, err
	}

	if blk != nil {
		con.log.Debugf("block #%d with %d extrinsics loaded",
			uint64(blk.Block.Header.Number), len(blk.Block.Extrinsics))
	}
	return blk, nil
}

// chainGetFinalizedHead returns the hash of the last finalized block.
func chainGetFinalizedHead(con *Connection, _ Params) (interface{}, error) {
	var hash string
	if err := con.call(&hash, "chain_getFinalizedHead"); err != nil {
		return nil, err
	}
	return hash, nil
}
