// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport used by the sync engine to call
// remote procedures on the task server.
//
// The primary abstraction is [Invoker], which decouples the service layer
// from the underlying protocol. The package ships an HTTP implementation
// ([NewHTTPInvoker]) that posts form-encoded arguments to /api/<procedure>.
//
// Error values defined in errors.go are mapped from HTTP status codes and
// from the {"status":"error"} envelope so that callers can use [errors.Is]
// for transport-agnostic error handling.
package adapter

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-task-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/invoker_mock.go -package=mock

// Invoker calls a named remote procedure with an ordered argument list and
// returns the decoded-as-raw JSON response body.
//
// Implementations must return an error for every failure: transport errors,
// non-2xx statuses, an error envelope, or a body that is not a JSON object.
// A returned body is always a successful response.
type Invoker interface {
	Invoke(ctx context.Context, procedure string, params models.Params) (json.RawMessage, error)
}
