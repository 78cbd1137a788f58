// Package graph exposes the blog services over GraphQL.
package graph

import (
	"context"
	_ "embed"
	"runtime/debug"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/core/ports"
)

//go:embed schema.graphql
var schemaSDL string

const maxQueryDepth = 12

// NewSchema parses the blog schema against a Resolver backed by the given
// services. It panics if a resolver method is missing or mistyped.
func NewSchema(auth ports.AuthService, posts ports.PostService, log zerolog.Logger) *graphql.Schema {
	return graphql.MustParseSchema(schemaSDL, NewResolver(auth, posts, log),
		graphql.Logger(panicLogger{log: log}),
		graphql.MaxDepth(maxQueryDepth),
	)
}

// panicLogger routes resolver panics into zerolog.
type panicLogger struct {
	log zerolog.Logger
}

func (l panicLogger) LogPanic(_ context.Context, value interface{}) {
	l.log.Error().
		Interface("panic", value).
		Bytes("stack", debug.Stack()).
		Msg("graphql resolver panic")
}
