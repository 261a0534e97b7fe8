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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

func newTestManager(t *testing.T, objs ...client.Object) (*Manager, client.Client) {
	c := newFakeClient(t, objs...)
	m, err := NewManager(c, newTestConfig(), nil)
	require.NoError(t, err)
	return m, c
}

func TestNewManagerRejectsInvalidConfig(t *testing.T) {
	cfg := newTestConfig()
	cfg.Namespace = ""
	_, err := NewManager(newFakeClient(t), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KUBE_NAMESPACE")
}

func TestCreateProvisionsAllObjects(t *testing.T) {
	m, c := newTestManager(t)
	id := Identity{Username: "Alice"}

	result, err := m.Create(context.Background(), id, ClusterConfig{
		WorkerCount:  3,
		WorkerCores:  2,
		WorkerMemory: resource.MustParse("4G"),
		MasterCores:  2,
		MasterMemory: resource.MustParse("4G"),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.ClusterID, "spark-alice-"))
	assert.Equal(t, "spark://spark-master-alice.test-namespace:7077", result.MasterURL)
	assert.Equal(t, "http://spark-master-alice.test-namespace:8090", result.MasterUIURL)

	ctx := context.Background()
	master := &appsv1.Deployment{}
	require.NoError(t, c.Get(ctx, types.NamespacedName{Name: "spark-master-alice", Namespace: "test-namespace"}, master))

	service := &corev1.Service{}
	require.NoError(t, c.Get(ctx, types.NamespacedName{Name: "spark-master-alice", Namespace: "test-namespace"}, service))
	assert.Equal(t, master.Spec.Template.Labels["user"], service.Spec.Selector["user"])

	workers := &appsv1.Deployment{}
	require.NoError(t, c.Get(ctx, types.NamespacedName{Name: "spark-worker-alice", Namespace: "test-namespace"}, workers))
	require.NotNil(t, workers.Spec.Replicas)
	assert.Equal(t, int32(3), *workers.Spec.Replicas)
}

func TestCreateReplacesExistingCluster(t *testing.T) {
	m, c := newTestManager(t)
	id := Identity{Username: "alice"}
	cfg := DefaultClusterConfig()

	first, err := m.Create(context.Background(), id, cfg)
	require.NoError(t, err)

	cfg.WorkerCount = 1
	second, err := m.Create(context.Background(), id, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, first.ClusterID, second.ClusterID)

	workers := &appsv1.Deployment{}
	require.NoError(t, c.Get(context.Background(),
		types.NamespacedName{Name: "spark-worker-alice", Namespace: "test-namespace"}, workers))
	require.NotNil(t, workers.Spec.Replicas)
	assert.Equal(t, int32(1), *workers.Spec.Replicas)

	list := &appsv1.DeploymentList{}
	require.NoError(t, c.List(context.Background(), list, client.InNamespace("test-namespace")))
	assert.Len(t, list.Items, 2)
}

func TestStatusAfterCreate(t *testing.T) {
	m, _ := newTestManager(t)
	id := Identity{Username: "alice"}

	_, err := m.Create(context.Background(), id, DefaultClusterConfig())
	require.NoError(t, err)

	status, err := m.Status(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, status.Master.Exists)
	assert.True(t, status.Workers.Exists)

	// Freshly created, nothing is ready yet.
	assert.Equal(t, int32(0), status.Master.ReadyReplicas)
	assert.Empty(t, status.MasterURL)
}

func TestDeleteRemovesAllObjects(t *testing.T) {
	m, c := newTestManager(t)
	id := Identity{Username: "alice"}

	_, err := m.Create(context.Background(), id, DefaultClusterConfig())
	require.NoError(t, err)

	result, err := m.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"Deployment/spark-worker-alice",
		"Deployment/spark-master-alice",
		"Service/spark-master-alice",
	}, result.Deleted)

	list := &appsv1.DeploymentList{}
	require.NoError(t, c.List(context.Background(), list, client.InNamespace("test-namespace")))
	assert.Empty(t, list.Items)
}

func TestDeleteMissingClusterSucceeds(t *testing.T) {
	m, _ := newTestManager(t)

	result, err := m.Delete(context.Background(), Identity{Username: "alice"})
	require.NoError(t, err)
	assert.Empty(t, result.Deleted)
}

func TestCheckLimits(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ClusterConfig)
		wantErr bool
	}{
		{name: "defaults pass", mutate: func(*ClusterConfig) {}},
		{name: "below ceiling passes", mutate: func(c *ClusterConfig) {
			c.WorkerCount = 1
			c.WorkerMemory = resource.MustParse("2G")
		}},
		{name: "too many workers", mutate: func(c *ClusterConfig) { c.WorkerCount = 3 }, wantErr: true},
		{name: "too many worker cores", mutate: func(c *ClusterConfig) { c.WorkerCores = 11 }, wantErr: true},
		{name: "too much worker memory", mutate: func(c *ClusterConfig) { c.WorkerMemory = resource.MustParse("11G") }, wantErr: true},
		{name: "too many master cores", mutate: func(c *ClusterConfig) { c.MasterCores = 11 }, wantErr: true},
		{name: "too much master memory", mutate: func(c *ClusterConfig) { c.MasterMemory = resource.MustParse("20G") }, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultClusterConfig()
			tc.mutate(&cfg)
			err := CheckLimits(cfg)
			if tc.wantErr {
				var limitErr *LimitExceededError
				require.ErrorAs(t, err, &limitErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
