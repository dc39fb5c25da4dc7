package domain

import "strings"

// SharedStepToken returns the step text that references the shared step with the given id.
func SharedStepToken(id string) string {
	return SharedStepMarker + " " + id
}

// ParseSharedStepToken extracts the shared step id from a step, if it is a reference.
func ParseSharedStepToken(step string) (string, bool) {
	if !strings.HasPrefix(step, SharedStepMarker) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(step, SharedStepMarker)), true
}
