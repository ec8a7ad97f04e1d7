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

// Package status folds the result of a reconcile pass into the status of a
// Trustify resource.
//
// Aggregate is the single place that decides between Processing, Successful
// and Error, so the controller and its tests agree on what each one means.
package status

import (
	"fmt"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	trustifyv1alpha1 "github.com/trustification/trustify-operator/api/v1alpha1"
	"github.com/trustification/trustify-operator/pkg/graph"
)

// ReadyConditionType is the metav1.Condition mirrored from the aggregated
// condition.
const ReadyConditionType = "Ready"

// Aggregate computes the workload condition for a pass.
//
// Any failed node makes the condition Error, with the failing nodes'
// messages first. A pass where every node was applied and every declared
// readiness predicate holds is Successful. Anything else is Processing.
// Configuration warnings are appended to the message without changing the
// condition type.
func Aggregate(r graph.Result) trustifyv1alpha1.WorkloadCondition {
	var (
		cond  trustifyv1alpha1.WorkloadCondition
		parts []string
	)

	switch failed := r.Failed(); {
	case len(failed) > 0:
		cond.Type = trustifyv1alpha1.ConditionError
		for _, n := range failed {
			parts = append(parts, describe(n))
		}
	case r.Converged():
		cond.Type = trustifyv1alpha1.ConditionSuccessful
		parts = append(parts, "All components are ready")
	default:
		cond.Type = trustifyv1alpha1.ConditionProcessing
		var pending []string
		for _, n := range r.Nodes {
			if n.Outcome == graph.OutcomeBlocked || !n.Ready {
				pending = append(pending, describe(n))
			}
		}
		parts = append(parts, "Waiting for "+strings.Join(pending, ", "))
	}

	for _, n := range r.Warnings() {
		parts = append(parts, fmt.Sprintf("%s: %s", n.Name, n.Warning))
	}

	cond.Message = strings.Join(parts, "; ")
	return cond
}

func describe(n graph.NodeResult) string {
	switch {
	case n.Message != "":
		return fmt.Sprintf("%s (%s)", n.Name, n.Message)
	case n.Err != nil:
		return fmt.Sprintf("%s (%v)", n.Name, n.Err)
	}
	return n.Name
}

// ReadyCondition mirrors cond as a standard Ready condition.
func ReadyCondition(cond trustifyv1alpha1.WorkloadCondition, generation int64) metav1.Condition {
	c := metav1.Condition{
		Type:               ReadyConditionType,
		Status:             metav1.ConditionFalse,
		Reason:             string(cond.Type),
		Message:            cond.Message,
		ObservedGeneration: generation,
	}
	if cond.Type == trustifyv1alpha1.ConditionSuccessful {
		c.Status = metav1.ConditionTrue
	}
	return c
}

// NodeSummaries lists the outcome of every node in evaluation order.
func NodeSummaries(r graph.Result) []trustifyv1alpha1.NodeStatus {
	out := make([]trustifyv1alpha1.NodeStatus, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		msg := n.Message
		if msg == "" {
			msg = n.Warning
		}
		out = append(out, trustifyv1alpha1.NodeStatus{
			Name:    n.Name,
			Outcome: string(n.Outcome),
			Ready:   n.Outcome.Applied() && n.Ready,
			Message: msg,
		})
	}
	return out
}
