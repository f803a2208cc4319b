package store

import "careermatrix/matrix"

// Wire types of the template HTTP API, shared by Remote and package server.

// CreateRequest is the body of POST /api/templates.
type CreateRequest struct {
	matrix.TemplateInfo
	Axes *matrix.Axes `json:"axes,omitempty"`
}

// SaveRequest is the body of PUT /api/templates/{id}/matrix.
type SaveRequest struct {
	Axes   matrix.Axes     `json:"axes"`
	Matrix matrix.Snapshot `json:"matrix"`
}

// SaveResponse is returned by a successful save.
type SaveResponse struct {
	Revision int `json:"revision"`
}

// SaveEvent is sent on a template's event stream after every save.
type SaveEvent struct {
	TemplateID string `json:"template_id"`
	Revision   int    `json:"revision"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
