// Package http is the transport of the development server.
//
// Every procedure is served at POST /api/<name> with form-encoded
// arguments. user_signin and user_create are open; every other procedure
// needs a token argument (or a bearer Authorization header). Responses are
// a JSON envelope with "status" set to "success" or "error".
package http
