package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"studyhub/internal/model"
)

func fullProfile(role model.Role) model.Profile {
	return model.Profile{
		ID:             "u1",
		Role:           role,
		Country:        "FR",
		EducationLevel: "lycee",
		Classes:        []string{"terminale"},
		Subjects:       []string{"maths", "physique"},
		Subscription:   "premium",
	}
}

func TestIsComplete_IndividualRoles(t *testing.T) {
	for _, role := range []model.Role{model.RoleStudent, model.RoleTeacher, model.RoleParent, model.RoleAdmin, ""} {
		t.Run(string(role), func(t *testing.T) {
			assert.True(t, IsComplete(fullProfile(role)))

			tests := map[string]func(p *model.Profile){
				"country":         func(p *model.Profile) { p.Country = "" },
				"education_level": func(p *model.Profile) { p.EducationLevel = "  " },
				"classes":         func(p *model.Profile) { p.Classes = nil },
				"subjects":        func(p *model.Profile) { p.Subjects = []string{""} },
				"subscription":    func(p *model.Profile) { p.Subscription = "" },
			}
			for field, drop := range tests {
				p := fullProfile(role)
				drop(&p)
				assert.False(t, IsComplete(p), "missing %s", field)
				assert.Equal(t, []string{field}, MissingFields(p))
			}
		})
	}
}

func TestIsComplete_OrganizationRoles(t *testing.T) {
	for _, role := range []model.Role{model.RoleSchool, model.RoleCompany} {
		t.Run(string(role), func(t *testing.T) {
			p := model.Profile{ID: "o1", Role: role, Country: "FR", Subscription: "school"}
			assert.True(t, IsComplete(p))
			assert.Empty(t, MissingFields(p))

			// education fields are irrelevant for organizations
			p.EducationLevel = "college"
			p.Subjects = []string{"maths"}
			assert.True(t, IsComplete(p))

			noCountry := p
			noCountry.Country = ""
			assert.False(t, IsComplete(noCountry))

			noSub := p
			noSub.Subscription = ""
			assert.False(t, IsComplete(noSub))
			assert.Equal(t, []string{"subscription"}, MissingFields(noSub))
		})
	}
}

func TestIsComplete_Empty(t *testing.T) {
	p := model.Profile{ID: "u1", Role: model.RoleStudent}
	assert.False(t, IsComplete(p))
	assert.Equal(t, []string{"country", "education_level", "classes", "subjects", "subscription"}, MissingFields(p))
}

func TestQuestionnaireStatusOf(t *testing.T) {
	p := fullProfile(model.RoleStudent)
	p.QuestionnaireCompleted = true

	st := QuestionnaireStatusOf(p)
	assert.True(t, st.ProfileCompleted)
	assert.True(t, st.QuestionnaireCompleted)
	assert.False(t, st.LearningStyleCompleted)
	assert.False(t, st.Done())
}
