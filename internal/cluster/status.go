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

	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// statusReader derives a consolidated cluster view from live Deployment
// state. Nothing is cached; every read reflects current platform truth.
type statusReader struct {
	client    client.Client
	namespace string
}

// ReadStatus reads the master and worker Deployments independently and
// normalizes their counters. A missing Deployment is not an error, it
// yields Exists false in that sub-status.
func (s *statusReader) ReadStatus(ctx context.Context, id Identity) (*ClusterStatus, error) {
	master, err := s.deploymentStatus(ctx, id.MasterName())
	if err != nil {
		return nil, err
	}
	workers, err := s.deploymentStatus(ctx, id.WorkerName())
	if err != nil {
		return nil, err
	}

	status := &ClusterStatus{
		Master:  master,
		Workers: workers,
	}

	// Readiness gate: the URLs are only usable once the master has a ready
	// replica, mere existence is not enough.
	if master.ReadyReplicas > 0 {
		status.MasterURL = MasterURL(id, s.namespace)
		status.MasterUIURL = MasterUIURL(id, s.namespace)
	}
	return status, nil
}

func (s *statusReader) deploymentStatus(ctx context.Context, name string) (DeploymentStatus, error) {
	deployment := &appsv1.Deployment{}
	key := types.NamespacedName{Name: name, Namespace: s.namespace}
	if err := s.client.Get(ctx, key, deployment); err != nil {
		if apierrors.IsNotFound(err) {
			return DeploymentStatus{Exists: false}, nil
		}
		return DeploymentStatus{}, &StatusError{Kind: "Deployment", Name: name, Err: err}
	}

	replicas := int32(1)
	if deployment.Spec.Replicas != nil {
		replicas = *deployment.Spec.Replicas
	}
	return DeploymentStatus{
		Exists:              true,
		Replicas:            replicas,
		ReadyReplicas:       deployment.Status.ReadyReplicas,
		AvailableReplicas:   deployment.Status.AvailableReplicas,
		UnavailableReplicas: deployment.Status.UnavailableReplicas,
	}, nil
}
