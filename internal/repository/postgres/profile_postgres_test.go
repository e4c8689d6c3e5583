package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyhub/internal/model"
	"studyhub/internal/repository"
)

var profileRowColumns = []string{
	"id", "email", "role", "country", "education_level", "classes", "subjects",
	"subscription", "questionnaire_completed", "learning_style_completed", "organization_id", "updated_at",
}

func TestProfilePostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProfilePostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id = \\$1").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(profileRowColumns).AddRow(
			"user-1", "a@b.fr", "student", "FR", "lycee", []byte(`["terminale"]`), []byte(`["maths","svt"]`),
			"premium", true, false, "", now,
		))

	p, err := repo.FindByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, p.Role)
	assert.Equal(t, []string{"terminale"}, p.Classes)
	assert.Equal(t, []string{"maths", "svt"}, p.Subjects)
	assert.True(t, p.QuestionnaireCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilePostgres_FindByID_Errors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProfilePostgres(db)

	mock.ExpectQuery("SELECT (.+) FROM profiles").WillReturnError(sql.ErrNoRows)
	_, err = repo.FindByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectQuery("SELECT (.+) FROM profiles").
		WillReturnRows(sqlmock.NewRows(profileRowColumns).AddRow(
			"user-1", "", "wizard", "", "", []byte(`[]`), []byte(`[]`), "", false, false, "", time.Now(),
		))
	_, err = repo.FindByID(context.Background(), "user-1")
	assert.ErrorIs(t, err, model.ErrUnknownRole)

	mock.ExpectQuery("SELECT (.+) FROM profiles").
		WillReturnRows(sqlmock.NewRows(profileRowColumns).AddRow(
			"user-1", "", "student", "", "", []byte(`{`), []byte(`[]`), "", false, false, "", time.Now(),
		))
	_, err = repo.FindByID(context.Background(), "user-1")
	assert.ErrorContains(t, err, "decode list column")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilePostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProfilePostgres(db)
	country := "BE"
	subjects := []string{"maths"}

	mock.ExpectQuery("UPDATE profiles SET country = \\$1, subjects = \\$2, updated_at = now\\(\\) WHERE id = \\$3 RETURNING").
		WithArgs("BE", []byte(`["maths"]`), "user-1").
		WillReturnRows(sqlmock.NewRows(profileRowColumns).AddRow(
			"user-1", "a@b.fr", "student", "BE", "", []byte(`[]`), []byte(`["maths"]`), "", false, false, "", time.Now(),
		))

	p, err := repo.Update(context.Background(), "user-1", model.ProfileUpdate{Country: &country, Subjects: &subjects})
	require.NoError(t, err)
	assert.Equal(t, "BE", p.Country)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilePostgres_Update_NoFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM profiles WHERE id = \\$1").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(profileRowColumns).AddRow(
			"user-1", "", "student", "", "", nil, nil, "", false, false, "", time.Now(),
		))

	p, err := NewProfilePostgres(db).Update(context.Background(), "user-1", model.ProfileUpdate{})
	require.NoError(t, err)
	assert.Nil(t, p.Classes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfilePostgres_SetQuestionnaireCompleted(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProfilePostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE profiles SET learning_style_completed = true").
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.SetQuestionnaireCompleted(ctx, "user-1", model.QuestionnaireLearningStyle))

	mock.ExpectExec("UPDATE profiles SET questionnaire_completed = true").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.SetQuestionnaireCompleted(ctx, "ghost", model.QuestionnaireProfile), repository.ErrNotFound)

	assert.Error(t, repo.SetQuestionnaireCompleted(ctx, "user-1", "survey"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
