// Copyright 2026 The Sigstore Authors.
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

package idtoken

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
)

var (
	metricVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "appidentity",
		Name:      "token_verifications_total",
		Help:      "The total number of identity tokens verified, by result",
	}, []string{"result"})

	metricAssertionsSigned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "appidentity",
		Name:      "assertions_signed_total",
		Help:      "The total number of outbound assertions signed",
	})
)
