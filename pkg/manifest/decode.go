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
	"bytes"
	"fmt"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"

	rderrors "github.com/repodeploy/repodeploy/pkg/errors"
)

// Decode parses a rendered manifest back into typed objects. It expects
// exactly one Deployment and one Service whose selectors agree.
func Decode(data []byte) (*Pair, error) {
	decoder := scheme.Codecs.UniversalDeserializer()
	pair := &Pair{}

	for i, doc := range splitDocuments(data) {
		obj, gvk, err := decoder.Decode(doc, nil, nil)
		if err != nil {
			return nil, rderrors.WrapWithContext(rderrors.ErrCodeInvalidRequest,
				"failed to decode manifest document", err, map[string]any{"document": i})
		}

		switch o := obj.(type) {
		case *appsv1.Deployment:
			if pair.Deployment != nil {
				return nil, rderrors.New(rderrors.ErrCodeInvalidRequest, "manifest contains more than one Deployment")
			}
			pair.Deployment = o
		case *corev1.Service:
			if pair.Service != nil {
				return nil, rderrors.New(rderrors.ErrCodeInvalidRequest, "manifest contains more than one Service")
			}
			pair.Service = o
		default:
			return nil, rderrors.New(rderrors.ErrCodeInvalidRequest,
				fmt.Sprintf("unexpected kind %s in manifest", gvk.Kind))
		}
	}

	if pair.Deployment == nil || pair.Service == nil {
		return nil, rderrors.New(rderrors.ErrCodeInvalidRequest, "manifest must contain a Deployment and a Service")
	}

	want := pair.Deployment.Spec.Template.Labels[AppLabel]
	if got := pair.Service.Spec.Selector[AppLabel]; want == "" || got != want {
		return nil, rderrors.New(rderrors.ErrCodeInvalidRequest,
			fmt.Sprintf("service selector %s=%q does not match deployment pods %q", AppLabel, got, want))
	}
	return pair, nil
}

func splitDocuments(data []byte) [][]byte {
	var docs [][]byte
	for _, doc := range bytes.Split(data, []byte("\n"+documentSeparator)) {
		doc = bytes.TrimPrefix(doc, []byte(documentSeparator))
		if strings.TrimSpace(string(doc)) == "" {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}
