package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies failures so callers can tell client mistakes from server faults.
type Kind uint

const (
	KindUnknown Kind = iota
	KindValidation
	KindArtifact
	KindIngestion
	KindTransform
	KindTraining
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindArtifact:
		return "artifact"
	case KindIngestion:
		return "ingestion"
	case KindTransform:
		return "transform"
	case KindTraining:
		return "training"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error represents a classified error with additional context
type Error struct {
	Kind       Kind
	Message    string
	Details    map[string]interface{}
	Err        error
	StatusCode int
	ErrorCode  string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithDetail adds a single context detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new classified error
func New(kind Kind, message string, err error) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		Err:        err,
		StatusCode: kindToStatusCode(kind),
		ErrorCode:  kindToCode(kind),
	}
}

func NewValidationError(field, message string) *Error {
	return New(KindValidation, fmt.Sprintf("invalid %s: %s", field, message), nil).
		WithDetail("field", field)
}

func NewArtifactError(path string, err error) *Error {
	return New(KindArtifact, fmt.Sprintf("artifact %s unavailable", path), err).
		WithDetail("path", path)
}

func NewIngestionError(message string, err error) *Error {
	return New(KindIngestion, message, err)
}

func NewTransformError(message string, err error) *Error {
	return New(KindTransform, message, err)
}

func NewTrainingError(message string, err error) *Error {
	return New(KindTraining, message, err)
}

func NewInternalError(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	return errors.Is(err, &Error{Kind: kind})
}

func kindToStatusCode(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func kindToCode(kind Kind) string {
	switch kind {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindArtifact:
		return "ARTIFACT_ERROR"
	case KindIngestion:
		return "INGESTION_ERROR"
	case KindTransform:
		return "TRANSFORM_ERROR"
	case KindTraining:
		return "TRAINING_ERROR"
	case KindInternal:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Response is the JSON body written for failed API calls.
type Response struct {
	Status    string                 `json:"status"`
	ErrorCode string                 `json:"error_code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// NewResponse builds the API payload for err. Only validation failures expose
// their message; everything else is reported as an opaque internal failure.
func NewResponse(err error, requestID string) (int, *Response) {
	var e *Error
	if !errors.As(err, &e) {
		e = NewInternalError("internal server error", err)
	}

	resp := &Response{
		Status:    "error",
		ErrorCode: e.ErrorCode,
		RequestID: requestID,
		Timestamp: time.Now().Unix(),
	}
	if e.Kind == KindValidation {
		resp.Message = e.Message
		resp.Details = e.Details
	} else {
		resp.ErrorCode = kindToCode(KindInternal)
		resp.Message = "internal server error"
	}
	return e.StatusCode, resp
}
