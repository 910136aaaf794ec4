// Package config loads the abacus runtime configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables prefixed with ABACUS_. CLI flags are applied on top by
// the commands themselves.
//
// Example file:
//
//	log:
//	  level: debug
//	server:
//	  addr: ":8080"
//	  shutdown_timeout: 10s
//	store:
//	  driver: redis
//	  redis_url: redis://localhost:6379/0
//	  ttl: 24h
//	session:
//	  distributed: true
//
// Environment Variables:
//   - ABACUS_LOG_LEVEL, ABACUS_LOG_FORMAT
//   - ABACUS_SERVER_ADDR, ABACUS_SERVER_SHUTDOWN_TIMEOUT, ABACUS_SERVER_CORS_ORIGIN
//   - ABACUS_METRICS_ENABLED, ABACUS_METRICS_PATH
//   - ABACUS_STORE_DRIVER, ABACUS_STORE_DIR, ABACUS_STORE_REDIS_URL, ABACUS_STORE_PREFIX, ABACUS_STORE_TTL,
//     ABACUS_STORE_ENCRYPTION_KEY
//   - ABACUS_SESSION_LOCK_TTL, ABACUS_SESSION_DISTRIBUTED
package config
