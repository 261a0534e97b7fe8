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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kbase/cdm-spark-manager/pkg/common"
)

// ClusterMetrics collects counters for cluster lifecycle operations. A nil
// *ClusterMetrics is a valid no-op collector.
type ClusterMetrics struct {
	createCount       *prometheus.CounterVec
	createFailedCount *prometheus.CounterVec
	deleteCount       *prometheus.CounterVec
	deleteFailedCount *prometheus.CounterVec
	statusReadCount   *prometheus.CounterVec
}

func NewClusterMetrics() *ClusterMetrics {
	labels := []string{"user"}
	return &ClusterMetrics{
		createCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: common.MetricClusterCreateCount,
				Help: "Total number of Spark clusters created",
			},
			labels,
		),
		createFailedCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: common.MetricClusterCreateFailedCount,
				Help: "Total number of failed Spark cluster creations",
			},
			labels,
		),
		deleteCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: common.MetricClusterDeleteCount,
				Help: "Total number of Spark clusters deleted",
			},
			labels,
		),
		deleteFailedCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: common.MetricClusterDeleteFailedCount,
				Help: "Total number of failed Spark cluster deletions",
			},
			labels,
		),
		statusReadCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: common.MetricClusterStatusReadCount,
				Help: "Total number of Spark cluster status reads",
			},
			labels,
		),
	}
}

// Register registers all collectors with the default registry.
func (m *ClusterMetrics) Register() {
	if m == nil {
		return
	}
	prometheus.MustRegister(
		m.createCount,
		m.createFailedCount,
		m.deleteCount,
		m.deleteFailedCount,
		m.statusReadCount,
	)
}

func (m *ClusterMetrics) Created(user string) {
	if m == nil {
		return
	}
	m.createCount.WithLabelValues(user).Inc()
}

func (m *ClusterMetrics) CreateFailed(user string) {
	if m == nil {
		return
	}
	m.createFailedCount.WithLabelValues(user).Inc()
}

func (m *ClusterMetrics) Deleted(user string) {
	if m == nil {
		return
	}
	m.deleteCount.WithLabelValues(user).Inc()
}

func (m *ClusterMetrics) DeleteFailed(user string) {
	if m == nil {
		return
	}
	m.deleteFailedCount.WithLabelValues(user).Inc()
}

func (m *ClusterMetrics) StatusRead(user string) {
	if m == nil {
		return
	}
	m.statusReadCount.WithLabelValues(user).Inc()
}
