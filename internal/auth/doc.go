// ABOUTME: Package documentation for the auth package
// ABOUTME: Describes session credentials, rotation, and the ownership guard

// Package auth implements session credentials and access control.
//
// Sessions are a pair of HS256 JWTs signed with distinct secrets: a
// short-lived access token presented on every request and a long-lived
// refresh token used only to mint the next pair. Each user has exactly one
// refresh slot in the store. Refreshing rotates the slot atomically, so a
// refresh token works at most once and a replay is rejected.
//
// The HTTP middleware reads the access token from a cookie or a bearer
// Authorization header, resolves the user, and attaches a sanitized Identity
// to the request context. Handlers guard mutations on owned resources with
// RequireOwner, which compares the resource owner against the caller.
package auth
