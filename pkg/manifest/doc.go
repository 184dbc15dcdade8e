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

// Package manifest renders the Kubernetes manifest committed into a
// deployment repository.
//
// The manifest is two YAML documents separated by "---": an apps/v1
// Deployment running a single replica of the application image, and a
// LoadBalancer Service exposing port 80 in front of the container port.
//
//	out, err := manifest.Generate(manifest.Options{
//	    AppName: "shop",
//	    Image:   "ghcr.io/deploybot/alice-shop-deployed:latest",
//	    Port:    8080,
//	})
//
// Objects are built from the typed k8s.io/api structs and pruned of
// server-populated fields (status, creationTimestamp) before rendering, so
// the output is what a user would write by hand. Decode parses a rendered
// manifest back into typed objects through the client-go scheme.
package manifest
