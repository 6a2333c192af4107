// Package config handles configuration loading for tubecast.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  access_secret: "${TUBECAST_ACCESS_SECRET}"
//	  refresh_secret: "${TUBECAST_REFRESH_SECRET}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  access_ttl: "15m"
//	  refresh_ttl: "168h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//
// Database:
//
//	database:
//	  path: "/var/lib/tubecast/tubecast.db"
//
// Authentication:
//
//	auth:
//	  access_secret: "${TUBECAST_ACCESS_SECRET}"
//	  refresh_secret: "${TUBECAST_REFRESH_SECRET}"
//	  access_ttl: "15m"
//	  refresh_ttl: "168h"
//
// Media storage:
//
//	media:
//	  dir: "/var/lib/tubecast/media"
//	  base_url: "http://localhost:8080/media"
//	  max_upload_mb: 512
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Validation
//
// Load() validates:
//
//   - Both signing secrets present and distinct
//   - Access TTL strictly shorter than refresh TTL
//   - Database path and media directory configured
//   - Duration format validity
package config
