// Package dispatch coordinates incident submissions.
//
// A Coordinator sits between operators and the classifier: it counts
// requests, answers repeated notes from the content-addressed cache,
// classifies new notes, stores what it classified and keeps the ordered
// incident Board that the dashboard renders. Concurrent submissions of the
// same note share a single classification.
package dispatch
