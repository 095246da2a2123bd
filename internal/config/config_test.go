package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SERVICE_NAME", "PORT", "PORT_SCAN_ATTEMPTS", "SHUTDOWN_TIMEOUT", "OUTBOX_TOPIC", "KAFKA_ADDR", "REDIS_ADDR"} {
		t.Setenv(k, "")
	}

	c, err := Load("order-service")

	require.NoError(t, err)
	assert.Equal(t, "order-service", c.ServiceName)
	assert.Equal(t, 5000, c.Port)
	assert.Equal(t, 20, c.PortScanAttempts)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, "order-service.events", c.OutboxTopic)
	assert.Empty(t, c.KafkaBrokers)
	assert.Empty(t, c.RedisAddr)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "6100")
	t.Setenv("KAFKA_ADDR", "k1:9092, k2:9092,")
	t.Setenv("IDEMPOTENCY_TTL", "90m")
	t.Setenv("INVENTORY_GRPC_ADDR", "inventory:50051")

	c, err := Load("order-service")

	require.NoError(t, err)
	assert.Equal(t, 6100, c.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.KafkaBrokers)
	assert.Equal(t, 90*time.Minute, c.IdempotencyTTL)
	assert.Equal(t, "inventory:50051", c.InventoryGRPCAddr)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]struct {
		key, value string
	}{
		"should reject non-numeric port":   {key: "PORT", value: "http"},
		"should reject port out of range":  {key: "PORT", value: "70000"},
		"should reject malformed timeout":  {key: "SHUTDOWN_TIMEOUT", value: "soon"},
		"should reject malformed attempts": {key: "PORT_SCAN_ATTEMPTS", value: "many"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)

			_, err := Load("order-service")

			assert.Error(t, err)
		})
	}
}
