// Gigmarket - Freelance Marketplace Request Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gigmarket

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultRedisImage is the Redis image used for shared store tests.
	DefaultRedisImage = "redis:7-alpine"

	// DefaultRedisPort is the Redis port inside the container.
	DefaultRedisPort = "6379/tcp"
)

// RedisContainer represents a running Redis container for testing.
type RedisContainer struct {
	testcontainers.Container
	// URL is a redis:// connection string suitable for REDIS_URL.
	URL string
	// Addr is the plain host:port form.
	Addr string
}

// ContainerOption configures a test container.
type ContainerOption func(*containerConfig)

type containerConfig struct {
	image        string
	startTimeout time.Duration
}

// WithImage sets a custom Docker image.
func WithImage(image string) ContainerOption {
	return func(c *containerConfig) {
		c.image = image
	}
}

// WithStartTimeout sets the timeout for waiting for the container to start.
func WithStartTimeout(timeout time.Duration) ContainerOption {
	return func(c *containerConfig) {
		c.startTimeout = timeout
	}
}

// NewRedisContainer creates and starts a Redis container.
//
//	redis, err := testinfra.NewRedisContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, redis)
//
//	s, _ := store.NewRedisStore(redis.URL, store.RedisOptions{})
func NewRedisContainer(ctx context.Context, opts ...ContainerOption) (*RedisContainer, error) {
	cfg := &containerConfig{
		image:        DefaultRedisImage,
		startTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultRedisPort},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultRedisPort),
			wait.ForLog("Ready to accept connections"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultRedisPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	addr := fmt.Sprintf("%s:%s", host, port.Port())
	return &RedisContainer{
		Container: container,
		URL:       "redis://" + addr + "/0",
		Addr:      addr,
	}, nil
}
