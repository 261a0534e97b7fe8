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

package auth

// MissingTokenError indicates a token was required but absent.
type MissingTokenError struct {
	Message string
}

func (e *MissingTokenError) Error() string {
	return e.Message
}

// InvalidHeaderError indicates a malformed authorization header.
type InvalidHeaderError struct {
	Message string
}

func (e *InvalidHeaderError) Error() string {
	return e.Message
}

// InvalidTokenError indicates the presented token is not valid.
type InvalidTokenError struct {
	Message string
}

func (e *InvalidTokenError) Error() string {
	return e.Message
}

// MissingRoleError indicates the user lacks a required role. No route
// currently gates on a role beyond token validity; the type completes the
// error code space (10040) for deployments that configure a required role
// at the auth service.
type MissingRoleError struct {
	Message string
}

func (e *MissingRoleError) Error() string {
	return e.Message
}

// Error is a general authentication failure not covered by the specific
// types above.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
