package handler

import "github.com/lateralquery/gqlpg/translate"

// Response is what every transport ultimately writes back to the client: the
// rendered SQL and its positional parameters on success, or an error payload
// on failure. It is a {sql, params, error} envelope rather than a GraphQL
// Data/Errors one, since a translator never executes a query, only renders
// one.
type Response struct {
	SQL    string        `json:"sql,omitempty"`
	Params []interface{} `json:"params,omitempty"`
	Error  *ErrorPayload `json:"error,omitempty"`
}

// ErrorPayload is the wire form of a *translate.Error (or any other error
// reaching the handler): its Kind, Message and Path, without a
// GraphQL-execution-specific Extensions map. Kind and Path are empty for an
// error that is not a *translate.Error.
type ErrorPayload struct {
	Kind    string   `json:"kind,omitempty"`
	Message string   `json:"message"`
	Path    []string `json:"path,omitempty"`
}

func errorResponse(err error) *Response {
	if tErr, ok := err.(*translate.Error); ok {
		return &Response{Error: &ErrorPayload{Kind: string(tErr.Kind), Message: tErr.Message, Path: tErr.Path}}
	}
	return &Response{Error: &ErrorPayload{Message: err.Error()}}
}
