//go:build integration

// Package testutil starts throwaway MongoDB and Redis containers for
// integration tests. Run them with `go test -tags integration ./...`.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/dwikikusuma/ordersvc/pkg/mongodb"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

func startContainer(t *testing.T, image, port string) string {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port + "/tcp"},
			WaitingFor:   wait.ForListeningPort(nat.Port(port + "/tcp")).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start %s: %v", image, err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, nat.Port(port+"/tcp"))
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

// OpenMongo returns a fresh database on a new mongo:7 container.
func OpenMongo(t *testing.T) *mongo.Database {
	t.Helper()
	addr := startContainer(t, "mongo:7", "27017")

	client, db, err := mongodb.Open(context.Background(), mongodb.Config{
		URI:      "mongodb://" + addr,
		Database: "ordersvc_test_" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("open mongo: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return db
}

// RedisURL returns the URL of a new redis:7 container.
func RedisURL(t *testing.T) string {
	t.Helper()
	return "redis://" + startContainer(t, "redis:7", "6379") + "/0"
}
