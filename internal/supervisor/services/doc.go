// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

// Package services adapts long-running components to suture.Service.
//
// HTTPServerService wraps *http.Server and turns context cancellation into
// a graceful Shutdown. SweeperService runs a maintenance pass on a ticker:
// the security monitor's alert index cleanup, the in-memory store's expired
// key sweep and the resolved-session cache purge are all registered this
// way in cmd/server.
package services
