package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/tenancy/internal/tenancy/telemetry"
	"github.com/aussiebroadwan/tenancy/pkg/slogx"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown := telemetry.Setup(t.Context(), telemetry.Config{ServiceName: "tenancy"}, slogx.Discard())
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(t.Context()))
}
