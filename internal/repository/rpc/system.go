package rpc

import (
	"strings"

	"validator-monitor/internal/types"
)

// node RPC parameter names
const (
	paramPublicKey = "publicKey"
	paramKeyType   = "keyType"
)

// systemOperations lists the direct node RPCs of the system, state, author and rpc sections.
func systemOperations() []Operation {
	return []Operation{
		{Name: "system/chain", Handler: plainCall[string]("system_chain")},
		{Name: "system/name", Handler: plainCall[string]("system_name")},
		{Name: "system/version", Handler: plainCall[string]("system_version")},
		{Name: "system/health", Handler: systemHealth},
		{Name: "system/peers", Handler: plainCall[[]types.PeerInfo]("system_peers")},
		{Name: "system/properties", Handler: plainCall[map[string]interface{}]("system_properties")},
		{Name: "system/syncState", Handler: plainCall[types.SyncState]("system_syncState")},
		{Name: "system/nodeRoles", Handler: plainCall[[]string]("system_nodeRoles")},
		{Name: "system/localPeerId", Handler: plainCall[string]("system_localPeerId")},
		{
			Name:    "state/getRuntimeVersion",
			Params:  []Param{{Name: paramBlockHash}},
			Handler: stateGetRuntimeVersion,
			Pin:     paramBlockHash,
		},
		{Name: "author/pendingExtrinsics", Handler: plainCall[[]string]("author_pendingExtrinsics")},
		{
			Name: "author/hasKey",
			Params: []Param{
				{Name: paramPublicKey, Required: true, Missing: "Missing public key parameter."},
				{Name: paramKeyType, Required: true, Missing: "Missing key type parameter."},
			},
			Handler: authorHasKey,
		},
		{Name: "rpc/methods", Handler: plainCall[types.RpcMethods]("rpc_methods")},
	}
}

// plainCall builds a handler of a node RPC method without parameters.
func plainCall[T any](method string) Handler {
	return func(con *Connection, _ Params) (interface{}, error) {
		var val T
		if err := con.call(&val, method); err != nil {
			return nil, err
		}
		return val, nil
	}
}

// systemHealth pulls the health status of the node.
func systemHealth(con *Connection, _ Params) (interface{}, error) {
	// keep track of the operation
	con.log.Debugf("checking health of %s", con.address)

	var health types.Health
	if err := con.call(&health, "system_health"); err != nil {
		con.log.Errorf("health of %s could not be obtained", con.address)
		return nil, err
	}

	if health.IsSyncing || (health.ShouldHavePeers && health.Peers == 0) {
		con.log.Warningf("node %s not in sync; %d peers", con.address, health.Peers)
	}
	return health, nil
}

// stateGetRuntimeVersion pulls the runtime version at the given block,
// or at the best block if the hash is not given.
func stateGetRuntimeVersion(con *Connection, p Params) (interface{}, error) {
	hash, ok, err := p.hashArg(0)
	if err != nil {
		return nil, err
	}

	var ver types.RuntimeVersion
	if ok {
		err = con.call(&ver, "state_getRuntimeVersion", hash)
	} else {
		err = con.call(&ver, "state_getRuntimeVersion")
	}
	if err != nil {
		return nil, err
	}
	return ver, nil
}

// authorHasKey checks if the node keystore holds the given session key.
func authorHasKey(con *Connection, p Params) (interface{}, error) {
	key, _ := p.Value(0)
	typ, _ := p.Value(1)

	var has bool
	if err := con.call(&has, "author_hasKey", key, strings.ToLower(typ)); err != nil {
		// keystore access is an unsafe RPC, the node may not expose it
		if strings.Contains(err.Error(), "unsafe") {
			con.log.Warningf("node %s refuses keystore access", con.address)
		}
		return nil, err
	}
	return has, nil
}
