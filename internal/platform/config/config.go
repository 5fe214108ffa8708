package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"leasehold/pkg/domain"
)

// Server captures process-level configuration for the registrar.
type Server struct {
	Addr          string
	JWTSigningKey string

	// ParentNode is the hex name id of the namespace this registrar leases
	// children under. SelfIdentity is the identity the registrar binds those
	// children to in the external registry.
	ParentNode   domain.NameID
	SelfIdentity domain.Identity
	Admin        domain.Identity

	Fee           uint64
	LeaseDuration time.Duration

	// Optional backends. Empty values select the in-process fallbacks.
	RegistryURL  string
	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string
	KafkaTopic   string
}

// FromEnv builds a Server config from environment variables so main stays
// lean. Only the identity knobs are required; everything else has a
// standalone-friendly default.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:          envOr("LEASEHOLD_ADDR", ":8080"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		RegistryURL:   os.Getenv("REGISTRY_URL"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		KafkaTopic:    envOr("KAFKA_TOPIC", "leasehold.events"),
		Fee:           100,
		LeaseDuration: 365 * 24 * time.Hour,
	}

	admin, err := domain.ParseIdentity(envOr("LEASEHOLD_ADMIN", "admin"))
	if err != nil {
		return Server{}, fmt.Errorf("LEASEHOLD_ADMIN: %w", err)
	}
	cfg.Admin = admin

	selfIdentity, err := domain.ParseIdentity(envOr("LEASEHOLD_SELF_IDENTITY", "leasehold-registrar"))
	if err != nil {
		return Server{}, fmt.Errorf("LEASEHOLD_SELF_IDENTITY: %w", err)
	}
	cfg.SelfIdentity = selfIdentity

	if raw := os.Getenv("LEASEHOLD_PARENT_NODE"); raw != "" {
		node, err := domain.ParseNameID(raw)
		if err != nil {
			return Server{}, fmt.Errorf("LEASEHOLD_PARENT_NODE: %w", err)
		}
		cfg.ParentNode = node
	}

	if raw := os.Getenv("LEASEHOLD_FEE"); raw != "" {
		feeValue, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Server{}, fmt.Errorf("LEASEHOLD_FEE: %w", err)
		}
		cfg.Fee = feeValue
	}

	if raw := os.Getenv("LEASEHOLD_LEASE_DURATION"); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil {
			return Server{}, fmt.Errorf("LEASEHOLD_LEASE_DURATION: %w", err)
		}
		if duration <= 0 {
			return Server{}, fmt.Errorf("LEASEHOLD_LEASE_DURATION must be positive")
		}
		cfg.LeaseDuration = duration
	}

	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		cfg.KafkaBrokers = strings.Split(raw, ",")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
