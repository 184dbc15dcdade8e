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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		// Handler timeouts
		{"DeployHandlerTimeout", DeployHandlerTimeout, 30 * time.Second, 120 * time.Second},
		{"WebhookHandlerTimeout", WebhookHandlerTimeout, 5 * time.Second, 60 * time.Second},
		{"RegistryHandlerTimeout", RegistryHandlerTimeout, 1 * time.Second, 30 * time.Second},

		// Workflow polling
		{"WorkflowWaitTimeout", WorkflowWaitTimeout, 5 * time.Second, 60 * time.Second},
		{"WorkflowPollInterval", WorkflowPollInterval, 100 * time.Millisecond, 5 * time.Second},

		// Server timeouts
		{"ServerReadTimeout", ServerReadTimeout, 5 * time.Second, 30 * time.Second},
		{"ServerWriteTimeout", ServerWriteTimeout, 15 * time.Second, 120 * time.Second},
		{"ServerIdleTimeout", ServerIdleTimeout, 30 * time.Second, 300 * time.Second},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 10 * time.Second, 60 * time.Second},

		// HTTP client timeouts
		{"HTTPClientTimeout", HTTPClientTimeout, 10 * time.Second, 60 * time.Second},
		{"HTTPConnectTimeout", HTTPConnectTimeout, 1 * time.Second, 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestDeployTimeoutRelationships(t *testing.T) {
	// The workflow wait happens inside a deploy request and must leave
	// room for the remaining API calls.
	if WorkflowWaitTimeout >= DeployHandlerTimeout {
		t.Errorf("WorkflowWaitTimeout (%v) should be less than DeployHandlerTimeout (%v)",
			WorkflowWaitTimeout, DeployHandlerTimeout)
	}

	if WorkflowPollInterval >= WorkflowWaitTimeout {
		t.Errorf("WorkflowPollInterval (%v) should be less than WorkflowWaitTimeout (%v)",
			WorkflowPollInterval, WorkflowWaitTimeout)
	}

	// Deploy errors must be written before the server write deadline.
	if DeployHandlerTimeout >= ServerWriteTimeout {
		t.Errorf("DeployHandlerTimeout (%v) should be less than ServerWriteTimeout (%v)",
			DeployHandlerTimeout, ServerWriteTimeout)
	}
}

func TestServerTimeoutRelationships(t *testing.T) {
	// Read timeout should be shorter than write timeout
	if ServerReadTimeout > ServerWriteTimeout {
		t.Errorf("ServerReadTimeout (%v) should not exceed ServerWriteTimeout (%v)",
			ServerReadTimeout, ServerWriteTimeout)
	}

	// Idle timeout should be longer than write timeout
	if ServerIdleTimeout < ServerWriteTimeout {
		t.Errorf("ServerIdleTimeout (%v) should be at least ServerWriteTimeout (%v)",
			ServerIdleTimeout, ServerWriteTimeout)
	}
}

func TestHTTPClientTimeoutRelationships(t *testing.T) {
	// Connect timeout should be less than total timeout
	if HTTPConnectTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPConnectTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPConnectTimeout, HTTPClientTimeout)
	}

	// TLS handshake timeout should be less than total timeout
	if HTTPTLSHandshakeTimeout >= HTTPClientTimeout {
		t.Errorf("HTTPTLSHandshakeTimeout (%v) should be less than HTTPClientTimeout (%v)",
			HTTPTLSHandshakeTimeout, HTTPClientTimeout)
	}
}

func TestAuxiliaryTimeouts(t *testing.T) {
	// Readiness probes are polled by orchestrators with short deadlines.
	if ReadinessCheckTimeout >= ServerReadTimeout {
		t.Errorf("ReadinessCheckTimeout (%v) should be less than ServerReadTimeout (%v)",
			ReadinessCheckTimeout, ServerReadTimeout)
	}

	if StoreWriteTimeout > RegistryHandlerTimeout {
		t.Errorf("StoreWriteTimeout (%v) should not exceed RegistryHandlerTimeout (%v)",
			StoreWriteTimeout, RegistryHandlerTimeout)
	}

	// The CLI runs the same sequence as the deploy handler without a write deadline.
	if CLIDeployTimeout < DeployHandlerTimeout {
		t.Errorf("CLIDeployTimeout (%v) should be at least DeployHandlerTimeout (%v)",
			CLIDeployTimeout, DeployHandlerTimeout)
	}
}
