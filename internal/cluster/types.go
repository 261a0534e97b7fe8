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

	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/kbase/cdm-spark-manager/pkg/common"
)

// ClusterConfig is a validated cluster sizing request. Callers must
// range-check every field before constructing one; the cluster manager
// trusts its input and treats out-of-range values as a caller bug.
type ClusterConfig struct {
	WorkerCount  int
	WorkerCores  int
	WorkerMemory resource.Quantity
	MasterCores  int
	MasterMemory resource.Quantity
}

// DefaultClusterConfig returns the ceiling applied to non-admin requests.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		WorkerCount:  common.DefaultWorkerCount,
		WorkerCores:  common.DefaultWorkerCores,
		WorkerMemory: resource.MustParse(common.DefaultWorkerMemory),
		MasterCores:  common.DefaultMasterCores,
		MasterMemory: resource.MustParse(common.DefaultMasterMemory),
	}
}

// CheckLimits enforces the non-admin ceiling policy: every requested
// dimension must not exceed the default configuration. The whole request is
// rejected on the first violation, before any platform call is made.
func CheckLimits(cfg ClusterConfig) error {
	limits := DefaultClusterConfig()
	if cfg.WorkerCount > limits.WorkerCount ||
		cfg.WorkerCores > limits.WorkerCores ||
		cfg.WorkerMemory.Cmp(limits.WorkerMemory) > 0 ||
		cfg.MasterCores > limits.MasterCores ||
		cfg.MasterMemory.Cmp(limits.MasterMemory) > 0 {
		return &LimitExceededError{
			Message: fmt.Sprintf(
				"configuration exceeds default limits for non-admin users: "+
					"max workers: %d, max worker cores: %d, max worker memory: %s, "+
					"max master cores: %d, max master memory: %s",
				limits.WorkerCount, limits.WorkerCores, limits.WorkerMemory.String(),
				limits.MasterCores, limits.MasterMemory.String()),
		}
	}
	return nil
}

// CreateResult describes a successfully created cluster.
type CreateResult struct {
	// ClusterID is a display and audit token, random per create call. It is
	// not persisted and cannot be used for later lookups.
	ClusterID   string
	MasterURL   string
	MasterUIURL string
}

// DeleteResult describes the outcome of a delete call.
type DeleteResult struct {
	// Deleted lists the objects removed, as kind/name identifiers.
	Deleted []string
}

// DeploymentStatus is the normalized state of one Deployment. A Deployment
// that does not exist yields the zero value with Exists false; that is not
// an error.
type DeploymentStatus struct {
	Exists              bool
	Replicas            int32
	ReadyReplicas       int32
	AvailableReplicas   int32
	UnavailableReplicas int32
}

// ClusterStatus is the consolidated view of a user's cluster, computed fresh
// from live platform state on every query. MasterURL and MasterUIURL are set
// only when the master has at least one ready replica.
type ClusterStatus struct {
	Master      DeploymentStatus
	Workers     DeploymentStatus
	MasterURL   string
	MasterUIURL string
}
