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
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/kbase/cdm-spark-manager/internal/config"
	"github.com/kbase/cdm-spark-manager/internal/metrics"
)

// Manager provides the cluster lifecycle operations: create, status and
// delete. One logical cluster per identity.
//
// The manager performs no cross-request locking. Two concurrent create calls
// for the same identity can race; the platform's conflict detection is the
// only safety net, with the second writer taking the replace path.
type Manager struct {
	client     client.Client
	cfg        *config.Config
	builder    *SpecBuilder
	reconciler *Reconciler
	status     *statusReader
	metrics    *metrics.ClusterMetrics
}

// NewManager constructs a Manager. The configuration is validated here;
// construction fails fast if any required setting is absent or blank.
func NewManager(c client.Client, cfg *config.Config, m *metrics.ClusterMetrics) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	builder, err := NewSpecBuilder(cfg)
	if err != nil {
		return nil, err
	}
	return &Manager{
		client:     c,
		cfg:        cfg,
		builder:    builder,
		reconciler: NewReconciler(c),
		status:     &statusReader{client: c, namespace: cfg.Namespace},
		metrics:    m,
	}, nil
}

// Create provisions the identity's cluster: master Deployment, then master
// Service, then worker Deployment, strictly in that order. A failure aborts
// the remaining steps and is surfaced; already-applied steps are not rolled
// back, so partial cluster state can persist after a failed create.
func (m *Manager) Create(ctx context.Context, id Identity, cfg ClusterConfig) (*CreateResult, error) {
	logger := log.FromContext(ctx)
	clusterID := NewClusterID(id)
	logger.Info("Creating Spark cluster", "user", id.Username, "clusterID", clusterID,
		"workers", cfg.WorkerCount, "namespace", m.cfg.Namespace)

	steps := []client.Object{
		m.builder.MasterDeployment(id, clusterID, cfg.MasterCores, cfg.MasterMemory),
		m.builder.MasterService(id, clusterID),
		m.builder.WorkerDeployment(id, clusterID, cfg.WorkerCount, cfg.WorkerCores, cfg.WorkerMemory),
	}
	for _, obj := range steps {
		if err := m.reconciler.Apply(ctx, obj); err != nil {
			m.metrics.CreateFailed(id.Username)
			return nil, err
		}
	}

	m.metrics.Created(id.Username)
	return &CreateResult{
		ClusterID:   clusterID,
		MasterURL:   MasterURL(id, m.cfg.Namespace),
		MasterUIURL: MasterUIURL(id, m.cfg.Namespace),
	}, nil
}

// Status returns the current state of the identity's cluster, read live from
// the platform. A cluster that was never created, or was deleted out of
// band, reports Exists false on both components.
func (m *Manager) Status(ctx context.Context, id Identity) (*ClusterStatus, error) {
	status, err := m.status.ReadStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	m.metrics.StatusRead(id.Username)
	return status, nil
}

// Delete removes the identity's cluster objects: worker Deployment, master
// Deployment, master Service, each attempted exactly once. An object that is
// already gone is tolerated; any other failure is collected and the
// remaining deletions still run. On any failure the returned DeletionError
// also reports which objects were removed.
func (m *Manager) Delete(ctx context.Context, id Identity) (*DeleteResult, error) {
	logger := log.FromContext(ctx)
	logger.Info("Deleting Spark cluster", "user", id.Username, "namespace", m.cfg.Namespace)

	targets := []client.Object{
		m.deploymentRef(id.WorkerName()),
		m.deploymentRef(id.MasterName()),
		m.serviceRef(id.MasterName()),
	}

	result := &DeleteResult{Deleted: []string{}}
	var failures []string
	for _, obj := range targets {
		kind := obj.GetObjectKind().GroupVersionKind().Kind
		removed, err := m.reconciler.Delete(ctx, obj)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s/%s: %v", kind, obj.GetName(), err))
			continue
		}
		if removed {
			result.Deleted = append(result.Deleted, fmt.Sprintf("%s/%s", kind, obj.GetName()))
		}
	}

	if len(failures) > 0 {
		m.metrics.DeleteFailed(id.Username)
		return result, &DeletionError{Deleted: result.Deleted, Errors: failures}
	}
	m.metrics.Deleted(id.Username)
	return result, nil
}

func (m *Manager) deploymentRef(name string) *appsv1.Deployment {
	return &appsv1.Deployment{
		TypeMeta:   metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: m.cfg.Namespace},
	}
}

func (m *Manager) serviceRef(name string) *corev1.Service {
	return &corev1.Service{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: m.cfg.Namespace},
	}
}
