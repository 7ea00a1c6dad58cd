// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

//go:build integration

// Package testinfra starts Docker containers for integration tests with
// testcontainers-go. Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/store/...
//
// # Redis
//
//	redis, err := testinfra.NewRedisContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, redis)
//
// # Postgres
//
//	pg, err := testinfra.NewPostgresContainer(ctx)
//	db, err := gorm.Open(postgres.Open(pg.DSN), &gorm.Config{})
package testinfra
