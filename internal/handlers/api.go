// Package handlers holds the HTTP handlers of the API server.
package handlers

import (
	"context"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
	"validator-monitor/internal/config"
	"validator-monitor/internal/graphql/resolvers"
	"validator-monitor/internal/graphql/schema"
	"validator-monitor/internal/logger"
	"validator-monitor/internal/repository"
)

// maxQueryDepth limits the nesting of incoming queries.
const maxQueryDepth = 8

// Api constructs and return the API HTTP handlers chain for serving GraphQL API calls.
// Queries are served over plain HTTP, subscriptions over websocket.
func Api(cfg *config.Config, repo repository.Repository, log logger.Logger) (http.Handler, error) {
	s, err := buildSchema(repo, log)
	if err != nil {
		log.Criticalf("can not parse GraphQL schema; %s", err.Error())
		return nil, err
	}

	h := graphqlws.NewHandlerFunc(s, gzhttp.GzipHandler(&relay.Handler{Schema: s}))
	return cors.New(corsOptions(cfg)).Handler(h), nil
}

// buildSchema parses the API schema and binds it to the root resolver.
func buildSchema(repo repository.Repository, log logger.Logger) (*graphql.Schema, error) {
	return graphql.ParseSchema(
		schema.Schema(),
		resolvers.New(repo, log),
		graphql.UseFieldResolvers(),
		graphql.MaxDepth(maxQueryDepth),
		graphql.Logger(&panicLogger{log: log}),
	)
}

// corsOptions constructs new set of options for the CORS handler based on provided configuration.
func corsOptions(cfg *config.Config) cors.Options {
	return cors.Options{
		AllowedOrigins:   cfg.Server.Origins,
		AllowedHeaders:   []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods:   []string{"HEAD", "GET", "POST"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// panicLogger reports panics of GraphQL resolvers to the API logger.
type panicLogger struct {
	log logger.Logger
}

// LogPanic is used to log recovered panic values that occur during query execution.
func (l *panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.log.Criticalf("GraphQL resolver panic; %v", value)
}
