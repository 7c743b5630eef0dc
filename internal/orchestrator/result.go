package orchestrator

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// FailureKind classifies why a provider-facing operation failed.
type FailureKind string

const (
	CredentialError FailureKind = "credential_error"
	ProviderError   FailureKind = "provider_error"
	TimeoutError    FailureKind = "timeout_error"
	NotFound        FailureKind = "not_found"
)

// Failure is the uniform envelope returned for any provider-side failure.
// It travels in a 200 response body; callers branch on the error field.
type Failure struct {
	Kind    FailureKind `json:"-"`
	Error   string      `json:"error"`
	Message string      `json:"message"`
}

// Result is the discriminated outcome of an orchestration call: either a
// payload or a Failure, never both. Provider failures are values here —
// authentication failures are the only errors that abort a request.
type Result struct {
	payload any
	failure *Failure
}

func OK(payload any) Result {
	return Result{payload: payload}
}

func Fail(kind FailureKind, err error, message string) Result {
	return Result{failure: &Failure{Kind: kind, Error: err.Error(), Message: message}}
}

func (r Result) Failed() bool { return r.failure != nil }

func (r Result) Failure() *Failure { return r.failure }

func (r Result) Payload() any { return r.payload }

// Body returns whatever should be serialized to the caller.
func (r Result) Body() any {
	if r.failure != nil {
		return r.failure
	}
	return r.payload
}

// failFrom classifies a provider error into the failure taxonomy. Waiter
// exhaustion maps to TimeoutError; AWS API error codes decide between
// credential, missing-resource and generic provider failures.
func failFrom(err error, message string) Result {
	return Fail(classify(err), err, message)
}

func classify(err error) FailureKind {
	if strings.Contains(err.Error(), "exceeded max wait time") {
		return TimeoutError
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		code := ae.ErrorCode()
		switch code {
		case "AuthFailure", "UnauthorizedOperation", "InvalidClientTokenId",
			"SignatureDoesNotMatch", "RequestExpired", "MissingAuthenticationToken":
			return CredentialError
		}
		if strings.Contains(code, "NotFound") {
			return NotFound
		}
	}
	return ProviderError
}
