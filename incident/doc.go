// Package incident defines the classified incident records shared by the
// cache, classifier, and dispatch packages.
//
// A Result is the structured output of classifying one free-text dispatch
// note. Its JSON form is the storage and wire format, so every field
// (including the optional ones) must round-trip without loss.
package incident
