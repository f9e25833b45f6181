// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-task-sync/internal/service"
)

// humanizeError turns service errors into short user-facing text.
func humanizeError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return "Not signed in. Run `login` first."
	case errors.Is(err, service.ErrWrongPassword):
		return "Wrong email or password."
	case errors.Is(err, service.ErrTokenIsExpired), errors.Is(err, service.ErrTokenExpiredOrInvalid):
		return "Session expired. Run `login` again."
	case errors.Is(err, service.ErrTaskNotFound):
		return "No such task."
	case errors.Is(err, service.ErrTagGroupNotFound):
		return "No such tag."
	case errors.Is(err, service.ErrTagGroupExists):
		return "A tag with this name already exists."
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "No network or the server is unavailable."
	}

	return err.Error()
}
