/*
Copyright 2025 The CDM Spark Manager authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"errors"
	"net/http"

	"github.com/kbase/cdm-spark-manager/internal/auth"
	"github.com/kbase/cdm-spark-manager/internal/cluster"
)

// errorType pairs a stable numeric code with a short type label.
type errorType struct {
	code  int
	label string
}

var (
	errTypeAuthenticationFailed = errorType{10000, "Authentication failed"}
	errTypeNoToken              = errorType{10010, "No authentication token"}
	errTypeInvalidToken         = errorType{10020, "Invalid token"}
	errTypeInvalidAuthHeader    = errorType{10030, "Invalid authentication header"}
	errTypeMissingRole          = errorType{10040, "Missing required role"}
	errTypeLimitExceeded        = errorType{10050, "Configuration limit exceeded"}
	errTypeDeletionFailed       = errorType{10060, "Cluster deletion failed"}
	errTypeValidationFailed     = errorType{30010, "Request validation failed"}
)

// mapping is the resolved transport representation of an error.
type mapping struct {
	status  int
	errType *errorType
	message string
	// internal marks failures whose detail must not reach the caller.
	internal bool
}

// mapError maps an error to its HTTP status and error payload. The mapping
// is an explicit finite table; any unmapped kind falls through to an
// internal server error with a generic message.
func mapError(err error) mapping {
	var (
		missingToken  *auth.MissingTokenError
		invalidHeader *auth.InvalidHeaderError
		invalidToken  *auth.InvalidTokenError
		missingRole   *auth.MissingRoleError
		authFailed    *auth.Error
		limitExceeded *cluster.LimitExceededError
		validation    *validationError
	)

	switch {
	case errors.As(err, &missingToken):
		return mapping{http.StatusUnauthorized, &errTypeNoToken, err.Error(), false}
	case errors.As(err, &invalidHeader):
		return mapping{http.StatusUnauthorized, &errTypeInvalidAuthHeader, err.Error(), false}
	case errors.As(err, &invalidToken):
		return mapping{http.StatusUnauthorized, &errTypeInvalidToken, err.Error(), false}
	case errors.As(err, &missingRole):
		return mapping{http.StatusForbidden, &errTypeMissingRole, err.Error(), false}
	case errors.As(err, &authFailed):
		return mapping{http.StatusUnauthorized, &errTypeAuthenticationFailed, err.Error(), false}
	case errors.As(err, &limitExceeded):
		return mapping{http.StatusBadRequest, &errTypeLimitExceeded, err.Error(), false}
	case errors.As(err, &validation):
		return mapping{http.StatusBadRequest, &errTypeValidationFailed, err.Error(), false}
	default:
		return mapping{http.StatusInternalServerError, nil, "An unexpected error occurred", true}
	}
}
