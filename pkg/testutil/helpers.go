// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/cgt-calculator/internal/assessment"
)

// FindAssessment finds a scenario by name in the results slice.
// Returns a pointer to the assessment if found, nil otherwise.
func FindAssessment(results []assessment.Assessment, name string) *assessment.Assessment {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
