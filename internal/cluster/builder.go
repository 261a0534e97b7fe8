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
	"os"
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/kbase/cdm-spark-manager/internal/config"
	"github.com/kbase/cdm-spark-manager/pkg/common"
)

// SpecBuilder maps cluster requests to Kubernetes object manifests. Pure and
// deterministic: building performs no I/O and never mutates its inputs.
type SpecBuilder struct {
	namespace       string
	image           string
	imagePullPolicy corev1.PullPolicy

	executorCores  int
	maxCoresPerApp int
	maxExecutors   int

	postgresEnv []corev1.EnvVar

	// template optionally carries labels, annotations, node selector and
	// tolerations merged into every generated pod template.
	template *corev1.PodTemplateSpec
}

// NewSpecBuilder constructs a SpecBuilder from process configuration. The
// optional pod template file is read once, here.
func NewSpecBuilder(cfg *config.Config) (*SpecBuilder, error) {
	b := &SpecBuilder{
		namespace:       cfg.Namespace,
		image:           cfg.Image,
		imagePullPolicy: corev1.PullPolicy(cfg.ImagePullPolicy),
		executorCores:   cfg.ExecutorCores,
		maxCoresPerApp:  cfg.MaxCoresPerApplication,
		maxExecutors:    cfg.MaxExecutors,
		postgresEnv: []corev1.EnvVar{
			{Name: common.EnvPostgresUser, Value: cfg.PostgresUser},
			{Name: common.EnvPostgresPassword, Value: cfg.PostgresPassword},
			{Name: common.EnvPostgresDB, Value: cfg.PostgresDB},
			{Name: common.EnvPostgresURL, Value: cfg.PostgresURL},
		},
	}

	if cfg.PodTemplateFile != "" {
		data, err := os.ReadFile(cfg.PodTemplateFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read pod template file: %w", err)
		}
		template := &corev1.PodTemplateSpec{}
		if err := yaml.Unmarshal(data, template); err != nil {
			return nil, fmt.Errorf("failed to parse pod template file: %w", err)
		}
		b.template = template
	}

	return b, nil
}

// Labels returns the label set shared between a component's pod template and
// the Service selecting it. The set must stay identical on both sides or
// traffic routing silently breaks.
func Labels(id Identity, clusterID, component string) map[string]string {
	return map[string]string{
		common.LabelApp:       common.AppLabelValue,
		common.LabelComponent: component,
		common.LabelUser:      id.Username,
		common.LabelClusterID: clusterID,
	}
}

// selectorLabels is the stable subset used for Deployment pod selection. The
// cluster id is excluded, it changes on every create call.
func selectorLabels(id Identity, component string) map[string]string {
	return map[string]string{
		common.LabelApp:       common.AppLabelValue,
		common.LabelComponent: component,
		common.LabelUser:      id.Username,
	}
}

// MasterDeployment builds the Spark master Deployment for the identity.
func (b *SpecBuilder) MasterDeployment(id Identity, clusterID string, cores int, memory resource.Quantity) *appsv1.Deployment {
	name := id.MasterName()
	labels := Labels(id, clusterID, common.ComponentMaster)

	container := corev1.Container{
		Name:            common.SparkMasterContainerName,
		Image:           b.image,
		ImagePullPolicy: b.imagePullPolicy,
		Ports: []corev1.ContainerPort{
			{Name: "spark", ContainerPort: common.DefaultMasterPort},
			{Name: "web-ui", ContainerPort: common.DefaultMasterUIPort},
		},
		Env: append([]corev1.EnvVar{
			{Name: common.EnvSparkMasterHost, Value: name},
			{Name: common.EnvSparkMasterPort, Value: strconv.Itoa(int(common.DefaultMasterPort))},
			{Name: common.EnvSparkMasterWebUIPort, Value: strconv.Itoa(int(common.DefaultMasterUIPort))},
			{Name: common.EnvExecutorCores, Value: strconv.Itoa(b.executorCores)},
			{Name: common.EnvMaxCoresPerApp, Value: strconv.Itoa(b.maxCoresPerApp)},
			{Name: common.EnvMaxExecutors, Value: strconv.Itoa(b.maxExecutors)},
		}, b.postgresEnv...),
		Resources: requests(cores, memory),
		ReadinessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromInt32(common.DefaultMasterPort)},
			},
			InitialDelaySeconds: 5,
			PeriodSeconds:       10,
		},
	}

	return b.deployment(name, id, labels, selectorLabels(id, common.ComponentMaster), 1, container)
}

// MasterService builds the Service fronting the master Deployment. Its
// selector is the same label set stamped on the master pod template.
func (b *SpecBuilder) MasterService(id Identity, clusterID string) *corev1.Service {
	name := id.MasterName()
	labels := Labels(id, clusterID, common.ComponentMaster)

	return &corev1.Service{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: "Service"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: b.namespace,
			Labels:    labels,
		},
		Spec: corev1.ServiceSpec{
			Selector: selectorLabels(id, common.ComponentMaster),
			Ports: []corev1.ServicePort{
				{
					Name:       "spark",
					Port:       common.DefaultMasterPort,
					TargetPort: intstr.FromInt32(common.DefaultMasterPort),
					Protocol:   corev1.ProtocolTCP,
				},
				{
					Name:       "web-ui",
					Port:       common.DefaultMasterUIPort,
					TargetPort: intstr.FromInt32(common.DefaultMasterUIPort),
					Protocol:   corev1.ProtocolTCP,
				},
			},
		},
	}
}

// WorkerDeployment builds the Spark worker Deployment. Workers address the
// master by its service DNS name and retry the connection themselves until
// the master is up.
func (b *SpecBuilder) WorkerDeployment(id Identity, clusterID string, count, cores int, memory resource.Quantity) *appsv1.Deployment {
	name := id.WorkerName()
	labels := Labels(id, clusterID, common.ComponentWorker)
	masterURL := MasterURL(id, b.namespace)

	container := corev1.Container{
		Name:            common.SparkWorkerContainerName,
		Image:           b.image,
		ImagePullPolicy: b.imagePullPolicy,
		Ports: []corev1.ContainerPort{
			{Name: "web-ui", ContainerPort: common.DefaultWorkerUIPort},
		},
		Env: append([]corev1.EnvVar{
			{Name: common.EnvSparkMasterURL, Value: masterURL},
			{Name: common.EnvSparkWorkerCores, Value: strconv.Itoa(cores)},
			{Name: common.EnvSparkWorkerMemory, Value: CeilGig(memory)},
			{Name: common.EnvSparkWorkerWebUIPort, Value: strconv.Itoa(int(common.DefaultWorkerUIPort))},
		}, b.postgresEnv...),
		Resources: requests(cores, memory),
		ReadinessProbe: &corev1.Probe{
			ProbeHandler: corev1.ProbeHandler{
				TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromInt32(common.DefaultWorkerUIPort)},
			},
			InitialDelaySeconds: 5,
			PeriodSeconds:       10,
		},
	}

	return b.deployment(name, id, labels, selectorLabels(id, common.ComponentWorker), int32(count), container)
}

func (b *SpecBuilder) deployment(name string, id Identity, labels, selector map[string]string, replicas int32, container corev1.Container) *appsv1.Deployment {
	podTemplate := corev1.PodTemplateSpec{
		ObjectMeta: metav1.ObjectMeta{
			Labels: labels,
		},
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{container},
		},
	}
	b.applyTemplate(&podTemplate)

	return &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{APIVersion: "apps/v1", Kind: "Deployment"},
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: b.namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(replicas),
			Selector: &metav1.LabelSelector{MatchLabels: selector},
			Template: podTemplate,
		},
	}
}

// applyTemplate merges the optional pod template overrides into a generated
// pod template. Generated labels win on key collision.
func (b *SpecBuilder) applyTemplate(pod *corev1.PodTemplateSpec) {
	if b.template == nil {
		return
	}
	for k, v := range b.template.Labels {
		if _, ok := pod.Labels[k]; !ok {
			pod.Labels[k] = v
		}
	}
	if len(b.template.Annotations) > 0 && pod.Annotations == nil {
		pod.Annotations = map[string]string{}
	}
	for k, v := range b.template.Annotations {
		pod.Annotations[k] = v
	}
	if len(b.template.Spec.NodeSelector) > 0 {
		pod.Spec.NodeSelector = b.template.Spec.NodeSelector
	}
	if len(b.template.Spec.Tolerations) > 0 {
		pod.Spec.Tolerations = append(pod.Spec.Tolerations, b.template.Spec.Tolerations...)
	}
	if b.template.Spec.ServiceAccountName != "" {
		pod.Spec.ServiceAccountName = b.template.Spec.ServiceAccountName
	}
}

// requests builds the container resource requests for a component. Memory is
// rounded up to whole gigabytes, never down.
func requests(cores int, memory resource.Quantity) corev1.ResourceRequirements {
	return corev1.ResourceRequirements{
		Requests: corev1.ResourceList{
			corev1.ResourceCPU:    *resource.NewQuantity(int64(cores), resource.DecimalSI),
			corev1.ResourceMemory: resource.MustParse(CeilGig(memory)),
		},
	}
}

// CeilGig renders a memory quantity in the platform's quantity grammar as a
// whole number of gigabytes, rounding up so clusters are never
// under-provisioned.
func CeilGig(memory resource.Quantity) string {
	const gig = int64(1_000_000_000)
	bytes := memory.Value()
	gigs := bytes / gig
	if bytes%gig != 0 {
		gigs++
	}
	if gigs < 1 {
		gigs = 1
	}
	return fmt.Sprintf("%dG", gigs)
}

// MasterURL returns the spark:// connection URL for the identity's master,
// derived from the deterministic naming scheme rather than read back from
// the platform.
func MasterURL(id Identity, namespace string) string {
	return fmt.Sprintf("spark://%s.%s:%d", id.MasterName(), namespace, common.DefaultMasterPort)
}

// MasterUIURL returns the master web UI URL for the identity.
func MasterUIURL(id Identity, namespace string) string {
	return fmt.Sprintf("http://%s.%s:%d", id.MasterName(), namespace, common.DefaultMasterUIPort)
}
