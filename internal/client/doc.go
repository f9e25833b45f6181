// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client application runtime.
//
// It wires client services, push listeners and the periodic refresh worker
// into a single process lifecycle. One-shot commands use [App.Sync] and
// [App.Login]; the long-running mode uses [App.Run].
package client
