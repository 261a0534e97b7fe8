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

package common

// Spark platform ports. Fixed per deployment, never settable per request.
const (
	DefaultMasterPort   int32 = 7077
	DefaultMasterUIPort int32 = 8090
	DefaultWorkerUIPort int32 = 8081
)

// Default Spark tuning values. Overridable through the process environment
// only; a cluster request cannot change them.
const (
	DefaultExecutorCores          = 2
	DefaultMaxCoresPerApplication = 10
	DefaultMaxExecutors           = 5
	DefaultImagePullPolicy        = "IfNotPresent"
)

// Ceiling applied to cluster requests from non-admin users.
const (
	DefaultWorkerCount  = 2
	DefaultWorkerCores  = 10
	DefaultWorkerMemory = "10G"
	DefaultMasterCores  = 10
	DefaultMasterMemory = "10G"
)

// Hard bounds enforced on every cluster request before it reaches the
// cluster manager.
const (
	MinWorkerCount = 1
	MaxWorkerCount = 25
	MinCores       = 1
	MaxCores       = 64
)

const (
	// LabelApp is the label common to every object the manager creates.
	LabelApp = "app"

	// LabelComponent distinguishes master objects from worker objects.
	LabelComponent = "component"

	// LabelUser records the owning user on every object.
	LabelUser = "user"

	// LabelClusterID records the display id of the create call that produced
	// the object.
	LabelClusterID = "cluster-id"

	AppLabelValue   = "spark"
	ComponentMaster = "master"
	ComponentWorker = "worker"
)

// Container names.
const (
	SparkMasterContainerName = "spark-master"
	SparkWorkerContainerName = "spark-worker"
)

// Environment variables injected into Spark containers.
const (
	EnvSparkMasterHost      = "SPARK_MASTER_HOST"
	EnvSparkMasterPort      = "SPARK_MASTER_PORT"
	EnvSparkMasterWebUIPort = "SPARK_MASTER_WEBUI_PORT"
	EnvSparkMasterURL       = "SPARK_MASTER_URL"
	EnvSparkWorkerCores     = "SPARK_WORKER_CORES"
	EnvSparkWorkerMemory    = "SPARK_WORKER_MEMORY"
	EnvSparkWorkerWebUIPort = "SPARK_WORKER_WEBUI_PORT"
	EnvExecutorCores        = "EXECUTOR_CORES"
	EnvMaxCoresPerApp       = "MAX_CORES_PER_APPLICATION"
	EnvMaxExecutors         = "MAX_EXECUTORS"
	EnvPostgresUser         = "POSTGRES_USER"
	EnvPostgresPassword     = "POSTGRES_PASSWORD"
	EnvPostgresDB           = "POSTGRES_DB"
	EnvPostgresURL          = "POSTGRES_URL"
)

// Metric names.
const (
	MetricClusterCreateCount       = "spark_cluster_create_count"
	MetricClusterCreateFailedCount = "spark_cluster_create_failed_count"
	MetricClusterDeleteCount       = "spark_cluster_delete_count"
	MetricClusterDeleteFailedCount = "spark_cluster_delete_failed_count"
	MetricClusterStatusReadCount   = "spark_cluster_status_read_count"
)
