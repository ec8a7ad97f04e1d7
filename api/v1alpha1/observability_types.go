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

// ObservabilityConfig defines OpenTelemetry settings for the API server.
// When a field is empty, the operator's own OTEL_* environment variable of
// the same meaning is used at reconcile time. Set otlpEndpoint to "disabled"
// to turn telemetry off regardless of the operator settings.
type ObservabilityConfig struct {
	// OTLPEndpoint is the OTLP collector endpoint URL.
	// Maps to OTEL_EXPORTER_OTLP_ENDPOINT.
	// Example: "http://otel-collector:4317"
	// +optional
	OTLPEndpoint string `json:"otlpEndpoint,omitempty"`

	// OTLPProtocol is the OTLP transport protocol.
	// Maps to OTEL_EXPORTER_OTLP_PROTOCOL.
	// +optional
	// +kubebuilder:validation:Enum="http/protobuf";"grpc"
	OTLPProtocol string `json:"otlpProtocol,omitempty"`

	// Tracing enables trace export from the API server.
	// Maps to TRACING.
	// +optional
	// +kubebuilder:validation:Enum=enabled;disabled
	Tracing string `json:"tracing,omitempty"`

	// Metrics enables metrics export from the API server.
	// Maps to METRICS.
	// +optional
	// +kubebuilder:validation:Enum=enabled;disabled
	Metrics string `json:"metrics,omitempty"`

	// TracesSampler selects the sampler, e.g. parentbased_traceidratio.
	// Maps to OTEL_TRACES_SAMPLER.
	// +optional
	TracesSampler string `json:"tracesSampler,omitempty"`

	// TracesSamplerArg is the sampler argument, e.g. "0.1".
	// Maps to OTEL_TRACES_SAMPLER_ARG.
	// +optional
	TracesSamplerArg string `json:"tracesSamplerArg,omitempty"`
}
