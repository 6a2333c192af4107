// ABOUTME: Package documentation for the HTTP API
// ABOUTME: Describes route layout, auth tiers, and error conventions

// Package api exposes the HTTP surface under /api/v1.
//
// Routes come in three tiers: public session endpoints (register, login,
// refresh), public reads with optional auth (video browsing, channels,
// playlists), and authenticated endpoints behind the access-token
// middleware. Mutations on owned resources additionally pass the ownership
// guard, so a valid session is never enough to edit someone else's content.
//
// All responses are JSON. Errors use a single {"error": "..."} shape with
// sentinel errors mapped to conventional status codes.
package api
