package resolvers

import (
	"encoding/json"

	"validator-monitor/internal/repository/rpc"
)

// JSON represents any JSON value passed through the API unchanged.
type JSON json.RawMessage

// ImplementsGraphQLType returns true if JSON implements the specified GraphQL type.
func (JSON) ImplementsGraphQLType(name string) bool { return name == "JSON" }

// UnmarshalGraphQL unmarshal the provided GraphQL query data.
func (j *JSON) UnmarshalGraphQL(input interface{}) error {
	data, err := json.Marshal(input)
	if err != nil {
		return err
	}
	*j = data
	return nil
}

// MarshalJSON returns the raw JSON value.
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

// Envelope represents resolvable operation result envelope.
type Envelope struct {
	rpc.Envelope
}

// NewEnvelope creates a new resolvable envelope.
func NewEnvelope(env rpc.Envelope) *Envelope {
	return &Envelope{Envelope: env}
}

// Result resolves the JSON payload of a successful operation.
func (env *Envelope) Result() *JSON {
	if !env.Envelope.OK() {
		return nil
	}

	res := JSON(env.Envelope.Result)
	return &res
}

// Error resolves the failure message.
func (env *Envelope) Error() *string {
	if env.Envelope.OK() {
		return nil
	}

	msg := env.Envelope.Error
	return &msg
}
