package classifier

import "errors"

var (
	// ErrInvalidInput is returned for input shorter than MinInputLength
	// after trimming. No service call is made.
	ErrInvalidInput = errors.New("classifier: input invalid")

	// ErrNilService indicates New was called without a Service.
	ErrNilService = errors.New("classifier: service is nil")

	// ErrEmptyExtraction indicates the service returned neither a record
	// nor an error.
	ErrEmptyExtraction = errors.New("classifier: empty extraction")
)
