package types

// Health represents the node health status.
type Health struct {
	Peers           int  `json:"peers"`
	IsSyncing       bool `json:"isSyncing"`
	ShouldHavePeers bool `json:"shouldHavePeers"`
}

// PeerInfo represents a single peer connected to the node.
type PeerInfo struct {
	PeerId          string `json:"peerId"`
	Roles           string `json:"roles"`
	ProtocolVersion int    `json:"protocolVersion,omitempty"`
	BestHash        string `json:"bestHash"`
	BestNumber      uint64 `json:"bestNumber"`
}

// SyncState represents the node block synchronization progress.
type SyncState struct {
	StartingBlock uint64  `json:"startingBlock"`
	CurrentBlock  uint64  `json:"currentBlock"`
	HighestBlock  *uint64 `json:"highestBlock,omitempty"`
}

// RuntimeVersion represents the version of the runtime executed by the node.
type RuntimeVersion struct {
	SpecName           string          `json:"specName"`
	ImplName           string          `json:"implName"`
	AuthoringVersion   uint32          `json:"authoringVersion"`
	SpecVersion        uint32          `json:"specVersion"`
	ImplVersion        uint32          `json:"implVersion"`
	TransactionVersion uint32          `json:"transactionVersion"`
	Apis               [][]interface{} `json:"apis"`
}

// RpcMethods lists the RPC methods exposed by the node.
type RpcMethods struct {
	Methods []string `json:"methods"`
}

// Endpoint represents the listing record of a connected node endpoint.
type Endpoint struct {
	Address   string `json:"address"`
	Chain     string `json:"chain"`
	BestBlock uint64 `json:"bestBlock"`
	Calls     uint64 `json:"calls"`
}
