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

package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/kbase/cdm-spark-manager/pkg/common"
)

// Required environment variables and their descriptions, reported verbatim
// when validation fails.
var requiredVars = map[string]string{
	"KUBE_NAMESPACE":    "Kubernetes namespace for Spark clusters",
	"SPARK_IMAGE":       "Container image for Spark master and workers",
	"POSTGRES_USER":     "PostgreSQL username",
	"POSTGRES_PASSWORD": "PostgreSQL password",
	"POSTGRES_DB":       "PostgreSQL database name",
	"POSTGRES_URL":      "PostgreSQL connection URL",
}

// Config holds all process-level settings for the Spark cluster manager.
// It is constructed once at startup and passed explicitly to the components
// that need it.
type Config struct {
	// Namespace is the Kubernetes namespace all cluster objects live in.
	Namespace string

	// Image is the container image used for Spark masters and workers.
	Image string

	// ImagePullPolicy applies to every generated container.
	ImagePullPolicy string

	// Postgres connection settings injected into every Spark container for
	// the shared metadata store. Sourced from the environment, never from
	// a request.
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresURL      string

	// Spark tuning defaults applied to every cluster.
	ExecutorCores          int
	MaxCoresPerApplication int
	MaxExecutors           int

	// PodTemplateFile optionally points at a YAML PodTemplateSpec whose
	// labels, annotations, node selector and tolerations are merged into
	// generated pod templates.
	PodTemplateFile string

	// AuthURL is the base URL of the token validation service.
	AuthURL string

	// AdminRoles are the auth service roles that grant admin permission.
	AdminRoles []string
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SPARK_IMAGE_PULL_POLICY", common.DefaultImagePullPolicy)
	v.SetDefault("EXECUTOR_CORES", common.DefaultExecutorCores)
	v.SetDefault("MAX_CORES_PER_APPLICATION", common.DefaultMaxCoresPerApplication)
	v.SetDefault("MAX_EXECUTORS", common.DefaultMaxExecutors)
	v.SetDefault("KBASE_AUTH_URL", "https://ci.kbase.us/services/auth/")
	v.SetDefault("KBASE_ADMIN_ROLES", "KBASE_ADMIN")

	cfg := &Config{
		Namespace:              v.GetString("KUBE_NAMESPACE"),
		Image:                  v.GetString("SPARK_IMAGE"),
		ImagePullPolicy:        v.GetString("SPARK_IMAGE_PULL_POLICY"),
		PostgresUser:           v.GetString("POSTGRES_USER"),
		PostgresPassword:       v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:             v.GetString("POSTGRES_DB"),
		PostgresURL:            v.GetString("POSTGRES_URL"),
		ExecutorCores:          v.GetInt("EXECUTOR_CORES"),
		MaxCoresPerApplication: v.GetInt("MAX_CORES_PER_APPLICATION"),
		MaxExecutors:           v.GetInt("MAX_EXECUTORS"),
		PodTemplateFile:        v.GetString("SPARK_POD_TEMPLATE_FILE"),
		AuthURL:                v.GetString("KBASE_AUTH_URL"),
		AdminRoles:             splitRoles(v.GetString("KBASE_ADMIN_ROLES")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every required setting that is absent or blank.
func (c *Config) Validate() error {
	values := map[string]string{
		"KUBE_NAMESPACE":    c.Namespace,
		"SPARK_IMAGE":       c.Image,
		"POSTGRES_USER":     c.PostgresUser,
		"POSTGRES_PASSWORD": c.PostgresPassword,
		"POSTGRES_DB":       c.PostgresDB,
		"POSTGRES_URL":      c.PostgresURL,
	}

	var missing []string
	for name := range requiredVars {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, fmt.Sprintf("%s (%s)", name, requiredVars[name]))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitRoles(roles string) []string {
	var out []string
	for _, role := range strings.Split(roles, ",") {
		role = strings.TrimSpace(role)
		if role != "" {
			out = append(out, role)
		}
	}
	return out
}
