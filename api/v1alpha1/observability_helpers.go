/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	"os"

	corev1 "k8s.io/api/core/v1"
)

// ObservabilityDisabled is the endpoint value that suppresses telemetry.
const ObservabilityDisabled = "disabled"

// BuildOTELEnvVars converts an ObservabilityConfig into environment variables
// for the API server container.
//
// When cfg is nil or a field is empty, the operator's own environment
// variable is used as the default, so the server inherits the operator's
// telemetry endpoint unless the resource overrides or disables it.
//
// An endpoint of "disabled", or no endpoint at all, returns nil.
func BuildOTELEnvVars(cfg *ObservabilityConfig) []corev1.EnvVar {
	if cfg == nil {
		cfg = &ObservabilityConfig{}
	}

	endpoint := envOr(cfg.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" || endpoint == ObservabilityDisabled {
		return nil
	}

	vars := []corev1.EnvVar{
		{Name: "OTEL_EXPORTER_OTLP_ENDPOINT", Value: endpoint},
	}
	appendIfSet := func(name, value string) {
		if v := envOr(value, name); v != "" {
			vars = append(vars, corev1.EnvVar{Name: name, Value: v})
		}
	}

	appendIfSet("OTEL_EXPORTER_OTLP_PROTOCOL", cfg.OTLPProtocol)
	appendIfSet("TRACING", cfg.Tracing)
	appendIfSet("METRICS", cfg.Metrics)
	appendIfSet("OTEL_TRACES_SAMPLER", cfg.TracesSampler)
	appendIfSet("OTEL_TRACES_SAMPLER_ARG", cfg.TracesSamplerArg)

	return vars
}

func envOr(value, envName string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envName)
}
