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
	"context"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Reconciler applies desired cluster objects against the live platform using
// create-or-replace semantics.
type Reconciler struct {
	client client.Client
}

// NewReconciler creates a Reconciler backed by the given client.
func NewReconciler(c client.Client) *Reconciler {
	return &Reconciler{client: c}
}

// Apply creates obj, replacing any existing object with the same name.
//
// On an already-exists conflict the existing object is deleted by name and
// the create retried exactly once; a failure of the retried create surfaces
// as a ReconcileError with no further attempts. Every other failure is
// surfaced immediately.
func (r *Reconciler) Apply(ctx context.Context, obj client.Object) error {
	logger := log.FromContext(ctx)
	kind := obj.GetObjectKind().GroupVersionKind().Kind

	err := r.client.Create(ctx, obj)
	if err == nil {
		logger.Info("Created object", "kind", kind, "name", obj.GetName())
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return &ReconcileError{Kind: kind, Name: obj.GetName(), Err: err}
	}

	logger.Info("Object already exists, replacing", "kind", kind, "name", obj.GetName())
	if err := r.client.Delete(ctx, obj); err != nil && !apierrors.IsNotFound(err) {
		return &ReconcileError{Kind: kind, Name: obj.GetName(), Err: err}
	}

	obj.SetResourceVersion("")
	obj.SetUID("")
	if err := r.client.Create(ctx, obj); err != nil {
		return &ReconcileError{Kind: kind, Name: obj.GetName(), Err: err}
	}
	logger.Info("Recreated object", "kind", kind, "name", obj.GetName())
	return nil
}

// Delete removes obj by name. A not-found response is normalized to success;
// the object is treated as already deleted.
func (r *Reconciler) Delete(ctx context.Context, obj client.Object) (bool, error) {
	logger := log.FromContext(ctx)
	kind := obj.GetObjectKind().GroupVersionKind().Kind

	if err := r.client.Delete(ctx, obj); err != nil {
		if apierrors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	logger.Info("Deleted object", "kind", kind, "name", obj.GetName())
	return true, nil
}
