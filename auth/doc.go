// Package auth authenticates operators of the incident API.
//
// Requests carry either a static API key (X-API-Key) or an HMAC-signed
// bearer JWT. A RoleAuthorizer then maps the identity's roles to the
// read and write actions exposed by the dashboard API.
package auth
