// Package config loads incidentops settings from INCIDENTOPS_* environment
// variables. Secret-bearing fields accept ${VAR} expansion and
// secretref:<provider>:<ref> references, resolved by Resolve.
package config
