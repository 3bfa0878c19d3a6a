// Package schema holds the GraphQL schema of the validator monitor API.
package schema

// Schema returns the GraphQL schema definition of the API.
func Schema() string {
	return schema
}

// schema is the definition served by the API.
const schema = `
# Long is a 64 bit unsigned integer encoded as a 0x prefixed hex string.
scalar Long

# JSON represents any JSON value.
scalar JSON

# Envelope represents the uniform result of a gateway operation.
# Exactly one of the result and the error is populated on the envelope.
type Envelope {
    # result is the JSON encoded outcome of a successful operation, null is a valid outcome.
    result: JSON

    # error is the message of a failed operation.
    error: String

    # ok signals a successful operation.
    ok: Boolean!
}

# Endpoint represents a connected and ready blockchain node endpoint.
type Endpoint {
    address: String!
    chain: String!

    # bestBlock is the number of the most recent head observed on the endpoint.
    bestBlock: Long!

    # calls is the number of node calls made through the endpoint connection.
    calls: Long!
}

# Operation describes a named operation of a dispatch table.
type Operation {
    name: String!
    params: [Parameter!]!

    # pinnedBy names the block hash parameter which makes the result immutable.
    pinnedBy: String
}

# Parameter describes a positional parameter of an operation.
type Parameter {
    name: String!
    required: Boolean!
}

# Head represents a new chain head observed by a node endpoint.
type Head {
    number: Long!
    parentHash: String!
    stateRoot: String!
    extrinsicsRoot: String!
}

# Root schema definition
schema {
    query: Query
    subscription: Subscription
}

# Entry points for querying the API
type Query {
    # endpoints lists the ready node endpoints in lexical order.
    endpoints: [Endpoint!]!

    # operations lists the operations of a dispatch table; rpc, query or custom.
    operations(table: String!): [Operation!]!

    # rpc executes a direct node RPC operation, i.e. chain/getBlockHash.
    # A null or blank parameter is absent.
    rpc(endpoint: String!, method: String!, params: [String]): Envelope!

    # query executes a chain state query, i.e. staking/activeEra.
    query(endpoint: String!, method: String!, params: [String]): Envelope!

    # custom executes a derived operation, i.e. custom/getSlashAmount.
    custom(endpoint: String!, method: String!, params: [String]): Envelope!

    # slashAmount calculates the total amount the account was slashed by in the block,
    # or in the best block if the hash is not given.
    slashAmount(endpoint: String!, account: String!, blockHash: String): Envelope!
}

# Subscriptions to live events broadcasting
type Subscription {
    # newHeads streams the chain heads observed on the endpoint.
    newHeads(endpoint: String!): Head!
}
`
