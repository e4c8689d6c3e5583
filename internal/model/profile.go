package model

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
	RoleSchool  Role = "school"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleParent, RoleSchool, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// IsOrganization reports whether the role is held by an organization account
// rather than an individual learner.
func (r Role) IsOrganization() bool {
	return r == RoleSchool || r == RoleCompany
}

// Profile is the onboarding record created at signup and filled in through the
// questionnaire.
type Profile struct {
	ID                     string    `json:"id"`
	Email                  string    `json:"email"`
	Role                   Role      `json:"role"`
	Country                string    `json:"country,omitempty"`
	EducationLevel         string    `json:"education_level,omitempty"`
	Classes                []string  `json:"classes,omitempty"`
	Subjects               []string  `json:"subjects,omitempty"`
	Subscription           string    `json:"subscription,omitempty"`
	QuestionnaireCompleted bool      `json:"questionnaire_completed"`
	LearningStyleCompleted bool      `json:"learning_style_completed"`
	OrganizationID         string    `json:"organization_id,omitempty"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (p Profile) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if p.Role != "" && !p.Role.Valid() {
		return fmt.Errorf("profile %s: %w %q", p.ID, ErrUnknownRole, p.Role)
	}
	return nil
}

// ProfileUpdate carries the fields a profile or questionnaire flow may change.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Role           *Role     `json:"role,omitempty"`
	Country        *string   `json:"country,omitempty"`
	EducationLevel *string   `json:"education_level,omitempty"`
	Classes        *[]string `json:"classes,omitempty"`
	Subjects       *[]string `json:"subjects,omitempty"`
	Subscription   *string   `json:"subscription,omitempty"`
}

// QuestionnaireKind names one of the onboarding questionnaires.
type QuestionnaireKind string

const (
	QuestionnaireProfile       QuestionnaireKind = "questionnaire"
	QuestionnaireLearningStyle QuestionnaireKind = "learning_style"
)

// QuestionnaireStatus is derived from the profile and never written directly.
type QuestionnaireStatus struct {
	ProfileCompleted       bool `json:"profile_completed"`
	QuestionnaireCompleted bool `json:"questionnaire_completed"`
	LearningStyleCompleted bool `json:"learning_style_completed"`
}

// Done reports whether every onboarding step is finished.
func (q QuestionnaireStatus) Done() bool {
	return q.ProfileCompleted && q.QuestionnaireCompleted && q.LearningStyleCompleted
}
