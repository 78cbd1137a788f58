package graph

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dgraph-io/gqlparser/v2/ast"
	"github.com/dgraph-io/gqlparser/v2/parser"
	graphql "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/api/errmap"
	"github.com/postboard/blog-api/internal/core/domain"
)

// Handler serves the GraphQL endpoint.
type Handler struct {
	schema *graphql.Schema
	log    zerolog.Logger
}

func NewHandler(schema *graphql.Schema, log zerolog.Logger) *Handler {
	return &Handler{schema: schema, log: log}
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type response struct {
	Errors []formattedError `json:"errors,omitempty"`
	Data   json.RawMessage  `json:"data,omitempty"`
}

// formattedError is the client-facing shape of every GraphQL error.
type formattedError struct {
	Message   string               `json:"message"`
	Status    int                  `json:"status"`
	Data      []domain.FieldError  `json:"data,omitempty"`
	Locations []gqlerrors.Location `json:"locations,omitempty"`
	Path      []interface{}        `json:"path,omitempty"`
}

// Serve handles GET and POST /graphql. A browser GET receives the
// GraphiQL explorer.
func (h *Handler) Serve(c echo.Context) error {
	req := c.Request()
	if req.Method == http.MethodGet && strings.Contains(req.Header.Get(echo.HeaderAccept), echo.MIMETextHTML) {
		return c.HTML(http.StatusOK, graphiqlPage)
	}

	params, err := decodeRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, response{Errors: []formattedError{{
			Message: err.Error(),
			Status:  http.StatusBadRequest,
		}}})
	}
	if params.Query == "" {
		return c.JSON(http.StatusBadRequest, response{Errors: []formattedError{{
			Message: "Must provide query string.",
			Status:  http.StatusBadRequest,
		}}})
	}

	if req.Method == http.MethodGet && selectsMutation(params.Query, params.OperationName) {
		c.Response().Header().Set(echo.HeaderAllow, http.MethodPost)
		return c.JSON(http.StatusMethodNotAllowed, response{Errors: []formattedError{{
			Message: errMutationOverGet.Error(),
			Status:  http.StatusMethodNotAllowed,
		}}})
	}

	res := h.schema.Exec(req.Context(), params.Query, params.OperationName, params.Variables)
	return c.JSON(http.StatusOK, response{Data: res.Data, Errors: h.format(res.Errors)})
}

// selectsMutation reports whether the operation picked by name is a mutation.
// Documents that fail to parse are left to the engine to report.
func selectsMutation(query, operationName string) bool {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Input: query})
	if gqlErr != nil {
		return false
	}
	op := doc.Operations.ForName(operationName)
	return op != nil && op.Operation == ast.Mutation
}

func decodeRequest(c echo.Context) (request, error) {
	var params request
	req := c.Request()

	switch req.Method {
	case http.MethodGet:
		params.Query = c.QueryParam("query")
		params.OperationName = c.QueryParam("operationName")
		if vars := c.QueryParam("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &params.Variables); err != nil {
				return params, errBadVariables
			}
		}
	case http.MethodPost:
		if err := json.NewDecoder(req.Body).Decode(&params); err != nil {
			return params, errBadBody
		}
	default:
		return params, errBadMethod
	}
	return params, nil
}

// format maps resolver errors to their public message and status. Errors
// raised by the GraphQL engine itself (syntax, validation) keep their
// message and are reported as 400.
func (h *Handler) format(errs []*gqlerrors.QueryError) []formattedError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]formattedError, len(errs))
	for i, qe := range errs {
		fe := formattedError{Locations: qe.Locations, Path: qe.Path}
		if qe.ResolverError == nil {
			fe.Message = qe.Message
			fe.Status = http.StatusBadRequest
			out[i] = fe
			continue
		}

		m, known := errmap.Map(qe.ResolverError)
		if !known {
			h.log.Error().Err(qe.ResolverError).Interface("path", qe.Path).Msg("unhandled resolver error")
		}
		fe.Message = m.Message
		fe.Status = m.Status
		fe.Data = m.Data
		out[i] = fe
	}
	return out
}
