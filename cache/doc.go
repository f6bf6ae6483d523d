// Package cache provides the content-addressed incident cache.
//
// Dispatch notes are normalized (trimmed, lower-cased) and hashed with
// SHA-256 to form a Key. Classified incidents are stored as JSON under
// "<namespace>_<hex key>" in an injected Store and expire lazily once
// older than the Policy TTL (24 hours by default), measured from the
// incident's own timestamp.
//
// The package also persists operator Preferences under a second key.
package cache
