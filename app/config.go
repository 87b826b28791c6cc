package main

import (
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultTimeout        = 30
	defaultAddress        = ":9090"
	defaultBackendAddress = ":8080"
	defaultBackendURL     = "http://localhost:8080"
	defaultCacheDB        = 0
	defaultCacheTTLSec    = 30
	defaultIdleMinutes    = 30
	defaultRateLimit      = 50
	defaultSeed           = 30
	defaultSQLitePath     = "market.db"
	dbMaxRetry            = 10
	dbRetryIntervalSec    = 2
)

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("failed to parse %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func envSeconds(key string, def int) time.Duration {
	return time.Duration(envInt(key, def)) * time.Second
}
