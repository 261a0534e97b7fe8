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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

func TestToClusterConfigDefaults(t *testing.T) {
	req := &ClusterRequest{}
	cfg, err := req.toClusterConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 10, cfg.WorkerCores)
	assert.Equal(t, "10G", cfg.WorkerMemory.String())
	assert.Equal(t, 10, cfg.MasterCores)
	assert.Equal(t, "10G", cfg.MasterMemory.String())
}

func TestToClusterConfigPartialOverride(t *testing.T) {
	req := &ClusterRequest{WorkerCount: ptr.To(5), WorkerMemory: "16G"}
	cfg, err := req.toClusterConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.WorkerCount)
	assert.Equal(t, "16G", cfg.WorkerMemory.String())
	assert.Equal(t, 10, cfg.WorkerCores)
}

func TestToClusterConfigRejectsBadMemory(t *testing.T) {
	for _, memory := range []string{"lots", "-4G", "0"} {
		req := &ClusterRequest{WorkerMemory: memory}
		_, err := req.toClusterConfig()
		var vErr *validationError
		require.ErrorAs(t, err, &vErr, "memory %q", memory)
	}
}

func TestToClusterConfigRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		req  ClusterRequest
	}{
		{"too many workers", ClusterRequest{WorkerCount: ptr.To(26)}},
		{"negative workers", ClusterRequest{WorkerCount: ptr.To(-1)}},
		// An explicit zero is a bounds violation, not an omitted field.
		{"zero workers", ClusterRequest{WorkerCount: ptr.To(0)}},
		{"zero worker cores", ClusterRequest{WorkerCores: ptr.To(0)}},
		{"too many worker cores", ClusterRequest{WorkerCores: ptr.To(65)}},
		{"too many master cores", ClusterRequest{MasterCores: ptr.To(65)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.req.toClusterConfig()
			var vErr *validationError
			require.ErrorAs(t, err, &vErr)
		})
	}
}
