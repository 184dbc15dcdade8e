// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package manifest

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/validation"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	"github.com/repodeploy/repodeploy/pkg/defaults"
	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
)

// AppLabel is the label key shared by the Deployment selector, its pod
// template and the Service selector.
const AppLabel = "app"

const documentSeparator = "---\n"

// Options describes the application to render.
type Options struct {
	// AppName names both objects, the container and the app label value.
	AppName string
	// Image is the container image reference.
	Image string
	// Port is the container port and the Service target port.
	Port int
	// Source is the user's repository URL. When set it is recorded as the
	// OCI source annotation on the pod template.
	Source string
}

// Validate checks that the options produce valid Kubernetes objects.
func (o Options) Validate() error {
	if msgs := validation.IsDNS1123Label(o.AppName); len(msgs) > 0 {
		return rderrors.NewWithContext(rderrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid app name %q: %s", o.AppName, strings.Join(msgs, "; ")),
			map[string]any{"field": "app_name"})
	}
	if msgs := validation.IsValidPortNum(o.Port); len(msgs) > 0 {
		return rderrors.NewWithContext(rderrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid port %d: %s", o.Port, strings.Join(msgs, "; ")),
			map[string]any{"field": "port"})
	}
	if _, err := reference.ParseNormalizedNamed(normalizeImage(o.Image)); err != nil {
		return rderrors.WrapWithContext(rderrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid image reference %q", o.Image), err,
			map[string]any{"field": "image"})
	}
	return nil
}

// Pair holds the typed objects of a manifest.
type Pair struct {
	Deployment *appsv1.Deployment
	Service    *corev1.Service
}

// normalizeImage case folds the repository part of ref. The tag and digest
// are left as given.
func normalizeImage(ref string) string {
	name, suffix := ref, ""
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name, suffix = name[:i], name[i:]
	}
	if i := strings.LastIndexByte(name, ':'); i > strings.LastIndexByte(name, '/') {
		name, suffix = name[:i], name[i:]+suffix
	}
	return cases.Lower(language.Und).String(name) + suffix
}

// Build validates opts and constructs the Deployment and Service.
func Build(opts Options) (*Pair, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	labels := map[string]string{AppLabel: opts.AppName}

	var annotations map[string]string
	if opts.Source != "" {
		annotations = map[string]string{ocispec.AnnotationSource: opts.Source}
	}

	deployment := &appsv1.Deployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: appsv1.SchemeGroupVersion.String(),
			Kind:       "Deployment",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: opts.AppName,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: ptr.To(int32(1)),
			Selector: &metav1.LabelSelector{
				MatchLabels: labels,
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels:      labels,
					Annotations: annotations,
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  opts.AppName,
							Image: normalizeImage(opts.Image),
							Ports: []corev1.ContainerPort{
								{ContainerPort: int32(opts.Port)}, //nolint:gosec // range checked in Validate
							},
						},
					},
				},
			},
		},
	}

	service := &corev1.Service{
		TypeMeta: metav1.TypeMeta{
			APIVersion: corev1.SchemeGroupVersion.String(),
			Kind:       "Service",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: opts.AppName,
		},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeLoadBalancer,
			Selector: labels,
			Ports: []corev1.ServicePort{
				{
					Protocol:   corev1.ProtocolTCP,
					Port:       defaults.ServicePort,
					TargetPort: intstr.FromInt32(int32(opts.Port)), //nolint:gosec // range checked in Validate
				},
			},
		},
	}

	return &Pair{Deployment: deployment, Service: service}, nil
}

// Render serializes the pair as two YAML documents.
func (p *Pair) Render() (string, error) {
	var b strings.Builder
	for i, obj := range []runtime.Object{p.Deployment, p.Service} {
		doc, err := renderObject(obj)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteString(documentSeparator)
		}
		b.Write(doc)
	}
	return b.String(), nil
}

// Generate builds and renders the manifest for opts.
func Generate(opts Options) (string, error) {
	pair, err := Build(opts)
	if err != nil {
		return "", err
	}
	return pair.Render()
}

// prunedFields are populated by the API server and never belong in a
// committed manifest.
var prunedFields = [][]string{
	{"status"},
	{"metadata", "creationTimestamp"},
	{"spec", "template", "metadata", "creationTimestamp"},
}

func renderObject(obj runtime.Object) ([]byte, error) {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, rderrors.Wrap(rderrors.ErrCodeInternal, "failed to convert manifest object", err)
	}
	for _, path := range prunedFields {
		unstructured.RemoveNestedField(content, path...)
	}

	out, err := yaml.Marshal(content)
	if err != nil {
		return nil, rderrors.Wrap(rderrors.ErrCodeInternal, "failed to render manifest object", err)
	}
	return out, nil
}

// ImageRef is the image a deployment repository's build publishes:
// {registry}/{owner}/{repo}:latest. Repository paths must be lowercase, so
// owner and repo are case folded.
func ImageRef(registry, owner, repoName string) string {
	lower := cases.Lower(language.Und)
	return fmt.Sprintf("%s/%s/%s:latest",
		strings.TrimRight(registry, "/"), lower.String(owner), lower.String(repoName))
}
