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

// Package serializer encodes and decodes the data repodeploy exchanges with
// its callers.
//
// Formats:
//   - JSON: API responses and machine-readable CLI output
//   - YAML: human-readable CLI output and request files
//   - Table: flattened FIELD/VALUE view for terminals (write-only)
//
// HTTP handlers respond through RespondJSON, which encodes into a buffer
// before any header is written so an encoding failure never produces a
// partial 200 response:
//
//	serializer.RespondJSON(w, http.StatusOK, result)
//
// Request bodies are decoded with a size cap:
//
//	var req deploy.Request
//	if err := serializer.DecodeJSON(r, &req); err != nil { ... }
//
// CLI output goes through a Writer, which falls back to stdout when the
// path is empty or cannot be created:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.(serializer.Closer).Close()
//	err := w.Serialize(ctx, result)
//
// Request files are loaded with FromFile, detecting the format from the
// extension. The path "-" reads standard input:
//
//	req, err := serializer.FromFile[deploy.Request]("deploy.yaml")
package serializer
