/*
Copyright 2024 Noba Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package svcerror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	// ErrUnsupportedWorkflow is raised when dispatch receives a workflow
	// name outside the closed enumeration, or a capability is requested
	// from a workflow that does not implement it. Not retryable.
	ErrUnsupportedWorkflow ErrorCode = "UNSUPPORTED_WORKFLOW"

	// ErrSemanticValidation covers static and dynamic validation failures.
	// The message names the offending field(s) or condition. Not retryable
	// without the caller changing their input.
	ErrSemanticValidation ErrorCode = "SEMANTIC_VALIDATION"

	// ErrRateUnavailable means the exchange-rate lookup returned nothing
	// for the requested currency pair. Retryable once rate data exists.
	ErrRateUnavailable ErrorCode = "RATE_UNAVAILABLE"

	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

// ServiceError is the single tagged error type every failure in the intake
// pipeline surfaces as. Code is machine-readable; Message is for humans.
type ServiceError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code ErrorCode, message string, details interface{}) ServiceError {
	return ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// CodeOf extracts the machine-readable code from err, or ErrInternalServer
// when err is not a ServiceError.
func CodeOf(err error) ErrorCode {
	var svcErr ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ErrInternalServer
}

// MapErrorToHTTPStatus translates an intake error into the transport status
// the controller responds with.
func MapErrorToHTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrSemanticValidation, ErrUnsupportedWorkflow:
		return http.StatusBadRequest
	case ErrRateUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
