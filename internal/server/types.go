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
	"fmt"

	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/kbase/cdm-spark-manager/internal/cluster"
	"github.com/kbase/cdm-spark-manager/pkg/common"
)

// ClusterRequest is the body of a cluster create call. Memory values accept
// Kubernetes quantity syntax ("16G", "10500M"). Omitted fields take the
// non-admin default values; numeric fields are pointers so an explicit zero
// is bounds-checked rather than defaulted.
type ClusterRequest struct {
	WorkerCount  *int   `json:"worker_count"`
	WorkerCores  *int   `json:"worker_cores"`
	WorkerMemory string `json:"worker_memory"`
	MasterCores  *int   `json:"master_cores"`
	MasterMemory string `json:"master_memory"`
}

// validationError marks a request that failed bounds checking. It maps to
// HTTP 400 with the request-validation error code.
type validationError struct {
	message string
}

func (e *validationError) Error() string {
	return e.message
}

// toClusterConfig applies defaults, bounds-checks every field and converts
// the request into the validated form the cluster manager requires.
func (r *ClusterRequest) toClusterConfig() (cluster.ClusterConfig, error) {
	cfg := cluster.DefaultClusterConfig()

	if r.WorkerCount != nil {
		cfg.WorkerCount = *r.WorkerCount
	}
	if r.WorkerCores != nil {
		cfg.WorkerCores = *r.WorkerCores
	}
	if r.MasterCores != nil {
		cfg.MasterCores = *r.MasterCores
	}

	if cfg.WorkerCount < common.MinWorkerCount || cfg.WorkerCount > common.MaxWorkerCount {
		return cluster.ClusterConfig{}, &validationError{
			message: fmt.Sprintf("worker_count must be between %d and %d", common.MinWorkerCount, common.MaxWorkerCount),
		}
	}
	if cfg.WorkerCores < common.MinCores || cfg.WorkerCores > common.MaxCores {
		return cluster.ClusterConfig{}, &validationError{
			message: fmt.Sprintf("worker_cores must be between %d and %d", common.MinCores, common.MaxCores),
		}
	}
	if cfg.MasterCores < common.MinCores || cfg.MasterCores > common.MaxCores {
		return cluster.ClusterConfig{}, &validationError{
			message: fmt.Sprintf("master_cores must be between %d and %d", common.MinCores, common.MaxCores),
		}
	}

	if r.WorkerMemory != "" {
		q, err := resource.ParseQuantity(r.WorkerMemory)
		if err != nil || q.Sign() <= 0 {
			return cluster.ClusterConfig{}, &validationError{message: "worker_memory is not a valid positive quantity"}
		}
		cfg.WorkerMemory = q
	}
	if r.MasterMemory != "" {
		q, err := resource.ParseQuantity(r.MasterMemory)
		if err != nil || q.Sign() <= 0 {
			return cluster.ClusterConfig{}, &validationError{message: "master_memory is not a valid positive quantity"}
		}
		cfg.MasterMemory = q
	}

	return cfg, nil
}

// CreateResponse is the body returned from a successful cluster create.
type CreateResponse struct {
	ClusterID   string `json:"cluster_id"`
	MasterURL   string `json:"master_url"`
	MasterUIURL string `json:"master_ui_url"`
}

// DeploymentStatusResponse is the normalized state of one Deployment.
type DeploymentStatusResponse struct {
	Exists              bool  `json:"exists"`
	Replicas            int32 `json:"replicas"`
	ReadyReplicas       int32 `json:"ready_replicas"`
	AvailableReplicas   int32 `json:"available_replicas"`
	UnavailableReplicas int32 `json:"unavailable_replicas"`
}

// StatusResponse is the aggregated cluster status. A 200 response does not
// imply a healthy cluster; callers must inspect the nested existence and
// readiness fields.
type StatusResponse struct {
	Master      DeploymentStatusResponse `json:"master"`
	Workers     DeploymentStatusResponse `json:"workers"`
	MasterURL   string                   `json:"master_url,omitempty"`
	MasterUIURL string                   `json:"master_ui_url,omitempty"`
}

// DeleteResponse summarizes a successful delete call.
type DeleteResponse struct {
	Deleted []string `json:"deleted"`
}

// DeleteFailedResponse reports a delete call where one or more removals
// failed. It carries the standard error fields alongside what was removed;
// every object is attempted regardless of earlier failures.
type DeleteFailedResponse struct {
	Error     *int     `json:"error"`
	ErrorType *string  `json:"error_type"`
	Message   string   `json:"message"`
	Deleted   []string `json:"deleted"`
	Errors    []string `json:"errors"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error     *int    `json:"error"`
	ErrorType *string `json:"error_type"`
	Message   string  `json:"message"`
}

func statusResponse(status *cluster.ClusterStatus) StatusResponse {
	return StatusResponse{
		Master:      deploymentStatusResponse(status.Master),
		Workers:     deploymentStatusResponse(status.Workers),
		MasterURL:   status.MasterURL,
		MasterUIURL: status.MasterUIURL,
	}
}

func deploymentStatusResponse(s cluster.DeploymentStatus) DeploymentStatusResponse {
	return DeploymentStatusResponse{
		Exists:              s.Exists,
		Replicas:            s.Replicas,
		ReadyReplicas:       s.ReadyReplicas,
		AvailableReplicas:   s.AvailableReplicas,
		UnavailableReplicas: s.UnavailableReplicas,
	}
}
