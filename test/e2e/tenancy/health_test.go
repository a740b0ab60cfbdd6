package tenancy_test

import (
	"testing"

	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
	"github.com/stretchr/testify/require"
)

// TestHealthEndpoints verifies liveness and readiness without Redis.
func TestHealthEndpoints(t *testing.T) {
	baseURL := setupTenancyContainer(t, nil)
	client := tenancysdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	ready, err := client.GetReadiness(t.Context())
	assertHealthy(t, ready, err)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Empty(t, ready.Checks.Redis, "Redis is not configured")
}
