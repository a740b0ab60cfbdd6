package tenancy_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for tenancy service end-to-end tests.
 * This includes container setup, account helpers, and assertions.
 */

const (
	testImageName = "tenancy-service-test:latest"
	redisImage    = "redis:7-alpine"

	testPassword = "correct-horse-battery"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Tenancy Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Tenancy Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/tenancy/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// relaxedRateLimits lifts the per-IP limits; every request in a test comes
// from the same address.
var relaxedRateLimits = map[string]string{
	"RATELIMIT_CREDENTIAL_REQUESTS": "1000",
	"RATELIMIT_CREDENTIAL_BURST":    "1000",
	"RATELIMIT_WRITE_REQUESTS":      "1000",
	"RATELIMIT_WRITE_BURST":         "1000",
}

// setupTenancyContainer starts the service in dev mode, with in-process
// notifications, and returns the base URL.
func setupTenancyContainer(t *testing.T, extraEnv map[string]string) string {
	t.Helper()

	env := map[string]string{
		"ENV":        "dev",
		"LOG_LEVEL":  "info",
		"LOG_FORMAT": "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	return startTenancy(t, testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	})
}

// setupTenancyWithRedis starts Redis and the service on a shared network,
// with notifications going through the Redis queue.
func setupTenancyWithRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	net, err := network.New(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := net.Remove(ctx); err != nil {
			t.Logf("failed to remove network: %v", err)
		}
	})

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          redisImage,
			Networks:       []string{net.Name},
			NetworkAliases: map[string][]string{net.Name: {"redis"}},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := redisC.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	env := map[string]string{
		"ENV":                  "staging",
		"LOG_LEVEL":            "info",
		"JWT_ACCESS_SECRET":    "e2e-access-secret-e2e-access-secret-0001",
		"JWT_REFRESH_SECRET":   "e2e-refresh-secret-e2e-refresh-secret-0002",
		"REDIS_ADDR":           "redis:6379",
		"EXPOSE_INVITE_TOKENS": "true",
	}
	for k, v := range relaxedRateLimits {
		env[k] = v
	}

	return startTenancy(t, testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Networks:     []string{net.Name},
		Env:          env,
		WaitingFor: wait.ForHTTP("/readyz").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	})
}

func startTenancy(t *testing.T, req testcontainers.ContainerRequest) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// registerUser creates an account and returns its session.
func registerUser(t *testing.T, client *tenancysdk.SDKClient, email, name string) *tenancysdk.Session {
	t.Helper()

	session, err := client.Register(t.Context(), tenancysdk.RegisterRequest{
		Email:    email,
		Password: testPassword,
		Name:     name,
	})
	require.NoError(t, err, "Register should succeed")
	require.NotEmpty(t, session.AccessToken(), "Access token should not be empty")
	require.NotEmpty(t, session.RefreshToken(), "Refresh token should not be empty")

	return session
}

// createTenant creates a tenant owned by session.
func createTenant(t *testing.T, session *tenancysdk.Session, name, slug string) *tenancysdk.TenantResponse {
	t.Helper()

	tenant, err := session.CreateTenant(t.Context(), tenancysdk.CreateTenantRequest{Name: name, Slug: slug})
	require.NoError(t, err, "CreateTenant should succeed")
	require.Equal(t, "OWNER", tenant.Role)

	return tenant
}

// assertStatus checks that err is an API error with the given status.
func assertStatus(t *testing.T, err error, status int, context string) {
	t.Helper()
	require.Error(t, err, context)
	require.True(t, tenancysdk.IsStatus(err, status), "%s - expected HTTP %d, got: %v", context, status, err)
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *tenancysdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
