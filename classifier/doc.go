// Package classifier turns free-text dispatch notes into incident results
// by calling an external extraction Service.
//
// Classifier validates input, retries rate-limited and status-less failures
// with exponential backoff plus jitter, normalizes what the service returns
// and, when every attempt is spent or the failure is permanent, hands back a
// fallback Result with Status ERROR instead of an error. The only error a
// caller sees is ErrInvalidInput.
//
// The package never touches the incident cache.
package classifier
