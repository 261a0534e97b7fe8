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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func newFakeClient(t *testing.T, objs ...client.Object) client.Client {
	scheme := runtime.NewScheme()
	require.NoError(t, clientgoscheme.AddToScheme(scheme))
	return fake.NewClientBuilder().WithScheme(scheme).WithObjects(objs...).Build()
}

func TestApplyCreatesObject(t *testing.T) {
	c := newFakeClient(t)
	r := NewReconciler(c)
	b := newTestBuilder(t)
	id := Identity{Username: "alice"}

	deployment := b.MasterDeployment(id, "cid", 4, resource.MustParse("8G"))
	require.NoError(t, r.Apply(context.Background(), deployment))

	got := &appsv1.Deployment{}
	key := types.NamespacedName{Name: "spark-master-alice", Namespace: "test-namespace"}
	require.NoError(t, c.Get(context.Background(), key, got))
}

func TestApplyTwiceLeavesOneObject(t *testing.T) {
	c := newFakeClient(t)
	r := NewReconciler(c)
	b := newTestBuilder(t)
	id := Identity{Username: "alice"}

	require.NoError(t, r.Apply(context.Background(), b.MasterDeployment(id, "cid1", 4, resource.MustParse("8G"))))

	// The second apply must not surface the conflict to the caller.
	require.NoError(t, r.Apply(context.Background(), b.MasterDeployment(id, "cid2", 4, resource.MustParse("8G"))))

	list := &appsv1.DeploymentList{}
	require.NoError(t, c.List(context.Background(), list, client.InNamespace("test-namespace")))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, "cid2", list.Items[0].Spec.Template.Labels["cluster-id"])
}

func TestApplyReplacesExistingSpec(t *testing.T) {
	c := newFakeClient(t)
	r := NewReconciler(c)
	b := newTestBuilder(t)
	id := Identity{Username: "alice"}

	require.NoError(t, r.Apply(context.Background(), b.WorkerDeployment(id, "cid", 2, 2, resource.MustParse("4G"))))
	require.NoError(t, r.Apply(context.Background(), b.WorkerDeployment(id, "cid", 6, 2, resource.MustParse("4G"))))

	got := &appsv1.Deployment{}
	key := types.NamespacedName{Name: "spark-worker-alice", Namespace: "test-namespace"}
	require.NoError(t, c.Get(context.Background(), key, got))
	require.NotNil(t, got.Spec.Replicas)
	assert.Equal(t, int32(6), *got.Spec.Replicas)
}

func TestDeleteMissingObjectTolerated(t *testing.T) {
	c := newFakeClient(t)
	r := NewReconciler(c)
	b := newTestBuilder(t)

	deployment := b.MasterDeployment(Identity{Username: "alice"}, "cid", 4, resource.MustParse("8G"))
	removed, err := r.Delete(context.Background(), deployment)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDeleteExistingObject(t *testing.T) {
	b := newTestBuilder(t)
	deployment := b.MasterDeployment(Identity{Username: "alice"}, "cid", 4, resource.MustParse("8G"))
	c := newFakeClient(t, deployment)
	r := NewReconciler(c)

	removed, err := r.Delete(context.Background(), deployment.DeepCopy())
	require.NoError(t, err)
	assert.True(t, removed)
}
