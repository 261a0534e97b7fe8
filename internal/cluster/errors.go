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

package cluster

import (
	"fmt"
	"strings"
)

// LimitExceededError indicates a non-admin request exceeded the default
// configuration ceiling. User-correctable.
type LimitExceededError struct {
	Message string
}

func (e *LimitExceededError) Error() string {
	return e.Message
}

// ReconcileError indicates a create or replace of a cluster object failed
// and was not resolved by the single recreate attempt.
type ReconcileError struct {
	// Kind and Name identify the object the failure applies to.
	Kind string
	Name string
	Err  error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("failed to reconcile %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// StatusError indicates a read of cluster state failed for a reason other
// than the object not existing.
type StatusError struct {
	Kind string
	Name string
	Err  error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to read status of %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// DeletionError reports that one or more cluster object deletions failed.
// Deleted lists the objects that were removed before and after the failures;
// every object is attempted exactly once regardless of earlier failures.
type DeletionError struct {
	Deleted []string
	Errors  []string
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("cluster deletion failed: %s", strings.Join(e.Errors, "; "))
}
