package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"studyhub/internal/model"
	"studyhub/internal/repository"
)

// ProfilePostgres implements repository.ProfileRepository.
type ProfilePostgres struct {
	db *sql.DB
}

func NewProfilePostgres(db *sql.DB) *ProfilePostgres {
	return &ProfilePostgres{db: db}
}

var _ repository.ProfileRepository = (*ProfilePostgres)(nil)

const profileColumns = `id, email, role, COALESCE(country, ''), COALESCE(education_level, ''), classes, subjects,
	COALESCE(subscription, ''), questionnaire_completed, learning_style_completed,
	COALESCE(organization_id::text, ''), updated_at`

func scanProfile(row scanner) (*model.Profile, error) {
	var (
		p                 model.Profile
		role              string
		classes, subjects []byte
	)
	if err := row.Scan(
		&p.ID,
		&p.Email,
		&role,
		&p.Country,
		&p.EducationLevel,
		&classes,
		&subjects,
		&p.Subscription,
		&p.QuestionnaireCompleted,
		&p.LearningStyleCompleted,
		&p.OrganizationID,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Role = model.Role(role)

	var err error
	if p.Classes, err = jsonList(classes); err != nil {
		return nil, err
	}
	if p.Subjects, err = jsonList(subjects); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile row: %w", err)
	}
	return &p, nil
}

func (r *ProfilePostgres) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return p, err
}

// Update writes the non-nil fields of upd and returns the stored profile.
func (r *ProfilePostgres) Update(ctx context.Context, id string, upd model.ProfileUpdate) (*model.Profile, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Role != nil {
		add("role", string(*upd.Role))
	}
	if upd.Country != nil {
		add("country", *upd.Country)
	}
	if upd.EducationLevel != nil {
		add("education_level", *upd.EducationLevel)
	}
	if upd.Classes != nil {
		b, err := encodeList(*upd.Classes)
		if err != nil {
			return nil, err
		}
		add("classes", b)
	}
	if upd.Subjects != nil {
		b, err := encodeList(*upd.Subjects)
		if err != nil {
			return nil, err
		}
		add("subjects", b)
	}
	if upd.Subscription != nil {
		add("subscription", *upd.Subscription)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), profileColumns)
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return p, err
}

func (r *ProfilePostgres) SetQuestionnaireCompleted(ctx context.Context, id string, kind model.QuestionnaireKind) error {
	var col string
	switch kind {
	case model.QuestionnaireProfile:
		col = "questionnaire_completed"
	case model.QuestionnaireLearningStyle:
		col = "learning_style_completed"
	default:
		return fmt.Errorf("unknown questionnaire %q", kind)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET `+col+` = true, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
