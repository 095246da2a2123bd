package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServiceName string
	LogLevel    string

	Port             int
	PortScanAttempts int
	ShutdownTimeout  time.Duration

	// GRPCAddr serves the inventory gRPC API when set.
	GRPCAddr string
	// InventoryGRPCAddr makes the order service use a remote inventory.
	InventoryGRPCAddr string

	CatalogPGURL string
	OutboxPGURL  string

	KafkaBrokers []string
	OutboxTopic  string

	RedisAddr      string
	IdempotencyTTL time.Duration
}

func Load(service string) (*Config, error) {
	c := &Config{
		ServiceName:       env("SERVICE_NAME", service),
		LogLevel:          env("LOG_LEVEL", "info"),
		GRPCAddr:          env("GRPC_ADDR", ""),
		InventoryGRPCAddr: env("INVENTORY_GRPC_ADDR", ""),
		CatalogPGURL:      env("CATALOG_PG_URL", ""),
		OutboxPGURL:       env("OUTBOX_PG_URL", ""),
		KafkaBrokers:      list(env("KAFKA_ADDR", "")),
		OutboxTopic:       env("OUTBOX_TOPIC", service+".events"),
		RedisAddr:         env("REDIS_ADDR", ""),
	}

	var err error
	if c.Port, err = envInt("PORT", 5000); err != nil {
		return nil, err
	}
	if c.PortScanAttempts, err = envInt("PORT_SCAN_ATTEMPTS", 20); err != nil {
		return nil, err
	}
	if c.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if c.IdempotencyTTL, err = envDuration("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if c.Port < 1 || c.Port > 65535 {
		return nil, fmt.Errorf("PORT %d out of range", c.Port)
	}
	return c, nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

func list(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
