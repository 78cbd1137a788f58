package graph

import "errors"

var (
	errBadBody      = errors.New("POST body must be a JSON GraphQL request")
	errBadVariables = errors.New("variables must be a JSON object")
	errBadMethod    = errors.New("GraphQL only supports GET and POST requests")

	errMutationOverGet = errors.New("Can only perform a mutation operation from a POST request.")
)
