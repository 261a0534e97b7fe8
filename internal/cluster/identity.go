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
	"strings"

	"github.com/google/uuid"
)

// Identity is the authenticated principal a cluster is provisioned for.
// It is the sole key for resource naming: one logical cluster per username.
type Identity struct {
	Username string
	Admin    bool
}

// MasterName returns the name of the user's master Deployment and Service.
// Deterministic, so repeated create calls target the same objects.
func (id Identity) MasterName() string {
	return "spark-master-" + strings.ToLower(id.Username)
}

// WorkerName returns the name of the user's worker Deployment.
func (id Identity) WorkerName() string {
	return "spark-worker-" + strings.ToLower(id.Username)
}

// NewClusterID generates the display id returned from a create call. The id
// is random per call and is not part of any resource name; it cannot be used
// to look the cluster up later.
func NewClusterID(id Identity) string {
	return fmt.Sprintf("spark-%s-%s", strings.ToLower(id.Username), uuid.NewString()[:8])
}
