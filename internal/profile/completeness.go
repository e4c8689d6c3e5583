// Package profile evaluates onboarding completeness from a profile record.
package profile

import (
	"strings"

	"studyhub/internal/model"
)

// IsComplete reports whether p carries every field its role requires.
// Organization accounts (school, company) only need a country and a
// subscription; every other role also needs an education level, classes and
// subjects.
func IsComplete(p model.Profile) bool {
	if p.Role.IsOrganization() {
		return present(p.Country) && present(p.Subscription)
	}
	return present(p.Country) &&
		present(p.EducationLevel) &&
		presentList(p.Classes) &&
		presentList(p.Subjects) &&
		present(p.Subscription)
}

// MissingFields lists the required fields that are absent, in display order.
func MissingFields(p model.Profile) []string {
	var missing []string
	if !present(p.Country) {
		missing = append(missing, "country")
	}
	if !p.Role.IsOrganization() {
		if !present(p.EducationLevel) {
			missing = append(missing, "education_level")
		}
		if !presentList(p.Classes) {
			missing = append(missing, "classes")
		}
		if !presentList(p.Subjects) {
			missing = append(missing, "subjects")
		}
	}
	if !present(p.Subscription) {
		missing = append(missing, "subscription")
	}
	return missing
}

// QuestionnaireStatusOf derives the three onboarding flags.
func QuestionnaireStatusOf(p model.Profile) model.QuestionnaireStatus {
	return model.QuestionnaireStatus{
		ProfileCompleted:       IsComplete(p),
		QuestionnaireCompleted: p.QuestionnaireCompleted,
		LearningStyleCompleted: p.LearningStyleCompleted,
	}
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}

func presentList(values []string) bool {
	for _, v := range values {
		if present(v) {
			return true
		}
	}
	return false
}
