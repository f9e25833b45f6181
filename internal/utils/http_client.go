package utils

import (
	"github.com/go-resty/resty/v2"
)

// UserAgent identifies the sync client to the server.
const UserAgent = "go-task-sync"

// HTTPClient is the resty client used for remote procedure calls. Every
// request asks for JSON and carries [UserAgent].
type HTTPClient struct {
	*resty.Client
}

func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", UserAgent)

	return &HTTPClient{Client: client}
}
