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

// Package store keeps a best-effort registry of deployments created by the
// orchestrator.
//
// The hosting provider remains the source of truth: every deployment and
// webhook operation works with an empty store, since repository names are
// derived and callback URLs carry the identity. Records exist so operators
// can list what was deployed and see when pushes last re-triggered an import.
//
// Records live in sqlite through gorm. The default DSN is a shared
// in-memory database; pass a file path for persistence across restarts.
package store
