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

// Package deploy turns a user's source repository into a deployment
// repository on the hosting provider.
//
// A deploy is a fixed sequence of provider calls:
//
//  1. validate the request
//  2. generate the deployment repository from the template
//  3. wait, bounded, for its import workflow to become reachable
//  4. dispatch the import workflow with the user's repository URL
//  5. register a push webhook on the user's repository
//  6. commit the generated Kubernetes manifest (optional)
//
// The first failing step aborts the rest. Nothing is rolled back and there
// is no partial-success report: the caller gets the error of the step that
// failed, carrying a structured code.
//
// Orchestrator.HandleDeploy exposes the sequence as POST /deploy.
package deploy
