// Package secret resolves credential-bearing configuration values.
//
// Values may use strict environment expansion (${VAR} must be set) and
// secret references of the form secretref:<provider>:<ref>:
//
//	secretref:env:GEMINI_API_KEY
//	secretref:file:/run/secrets/jwt_secret
//	Bearer secretref:env:OPS_TOKEN
//
// NewDefaultResolver wires the env and file providers.
package secret
