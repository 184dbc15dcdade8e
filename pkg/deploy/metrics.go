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

package deploy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deploysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repodeploy_deploys_total",
			Help: "Total number of deploy runs by outcome and failing step",
		},
		[]string{"result", "step"},
	)

	deployStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repodeploy_deploy_step_duration_seconds",
			Help:    "Duration of each deploy step in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)
)
