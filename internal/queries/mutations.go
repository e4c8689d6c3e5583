package queries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"studyhub/internal/functions"
	"studyhub/internal/logging"
	"studyhub/internal/model"
	"studyhub/internal/querycache"
	"studyhub/internal/service"
	"studyhub/internal/storage"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrMissingParam     = errors.New("missing parameter")
	ErrNotReady         = errors.New("revision sheet is not ready")
)

const errorTitle = "Erreur"

// mutation describes the side effects of one write.
type mutation struct {
	name       string
	invalidate func(uid string) []querycache.Key
	// success notice; empty title means no notice
	title   string
	message string
}

// mutate runs a single remote call. Success invalidates the affected keys and
// notifies; failure leaves the cache untouched, logs and notifies. Nothing is retried.
func mutate[T any](ctx context.Context, h *Hooks, m mutation, run func(ctx context.Context, uid string) (T, error)) (T, error) {
	var zero T
	start := time.Now()
	fields := logging.Fields{"event": "mutation", "mutation": m.name}

	uid, ok := h.user()
	var (
		out T
		err error
	)
	if ok {
		fields["user_id"] = uid
		out, err = run(ctx, uid)
	} else {
		err = ErrNotAuthenticated
	}
	fields["duration_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		fields["status"] = "error"
		fields["error_message"] = err.Error()
		h.log.Event(fields)
		h.notify.Error(errorTitle, err.Error())
		return zero, fmt.Errorf("%s: %w", m.name, err)
	}

	var keys []string
	for _, k := range m.invalidate(uid) {
		h.cache.Invalidate(k)
		keys = append(keys, k.String())
	}
	fields["status"] = "success"
	fields["invalidated"] = keys
	h.log.Event(fields)
	if m.title != "" {
		h.notify.Success(m.title, m.message)
	}
	return out, nil
}

// UploadRequest is a document the signed-in user uploads.
type UploadRequest struct {
	CourseID    string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (h *Hooks) UploadDocument(ctx context.Context, req UploadRequest) (*model.Document, error) {
	return mutate(ctx, h, mutation{
		name: "upload_document",
		invalidate: func(uid string) []querycache.Key {
			return []querycache.Key{DocumentsKey(uid), CoursesKey(uid)}
		},
		title:   "Document ajouté",
		message: req.Filename,
	}, func(ctx context.Context, uid string) (*model.Document, error) {
		return h.remote.Documents.Upload(ctx, service.UploadInput{
			UserID:      uid,
			CourseID:    req.CourseID,
			Filename:    req.Filename,
			ContentType: req.ContentType,
			Size:        req.Size,
			Body:        req.Body,
		})
	})
}

func (h *Hooks) DeleteDocument(ctx context.Context, id string) error {
	_, err := mutate(ctx, h, mutation{
		name: "delete_document",
		invalidate: func(uid string) []querycache.Key {
			return []querycache.Key{DocumentsKey(uid)}
		},
		title: "Document supprimé",
	}, func(ctx context.Context, uid string) (struct{}, error) {
		return struct{}{}, h.remote.Documents.Delete(ctx, uid, id)
	})
	return err
}

// RequestRevisionSheet starts the generation of a course's revision sheet.
// The sheet shows up as generating on the next read and is polled until done.
func (h *Hooks) RequestRevisionSheet(ctx context.Context, courseID string) error {
	_, err := mutate(ctx, h, mutation{
		name: "request_revision_sheet",
		invalidate: func(uid string) []querycache.Key {
			return []querycache.Key{RevisionSheetsKey(uid)}
		},
		title:   "Génération lancée",
		message: "La fiche de révision est en cours de génération.",
	}, func(ctx context.Context, uid string) (struct{}, error) {
		if courseID == "" {
			return struct{}{}, fmt.Errorf("%w: course id", ErrMissingParam)
		}
		return struct{}{}, h.remote.Functions.Invoke(ctx, functions.GenerateRevisionSheet, map[string]string{
			"course_id": courseID,
			"user_id":   uid,
		}, nil)
	})
	return err
}

func (h *Hooks) CreateErrorRevision(ctx context.Context, exerciseID string) error {
	_, err := mutate(ctx, h, mutation{
		name: "create_error_revision",
		invalidate: func(uid string) []querycache.Key {
			return []querycache.Key{ErrorRevisionsKey(uid)}
		},
		title:   "Génération lancée",
		message: "La révision des erreurs est en cours de génération.",
	}, func(ctx context.Context, uid string) (struct{}, error) {
		if exerciseID == "" {
			return struct{}{}, fmt.Errorf("%w: exercise id", ErrMissingParam)
		}
		return struct{}{}, h.remote.Functions.Invoke(ctx, functions.GenerateErrorRevision, map[string]string{
			"exercise_id": exerciseID,
			"user_id":     uid,
		}, nil)
	})
	return err
}

func (h *Hooks) DeleteErrorRevision(ctx context.Context, id string) error {
	_, err := mutate(ctx, h, mutation{
		name: "delete_error_revision",
		invalidate: func(uid string) []querycache.Key {
			return []querycache.Key{ErrorRevisionsKey(uid)}
		},
		title: "Révision supprimée",
	}, func(ctx context.Context, uid string) (struct{}, error) {
		if id == "" {
			return struct{}{}, fmt.Errorf("%w: error revision id", ErrMissingParam)
		}
		return struct{}{}, h.remote.Revisions.DeleteErrorRevision(ctx, uid, id)
	})
	return err
}

func (h *Hooks) UpdateProfile(ctx context.Context, upd model.ProfileUpdate) (*model.Profile, error) {
	return mutate(ctx, h, mutation{
		name: "update_profile",
		invalidate: func(uid string) []querycache.Key {
			return []querycache.Key{ProfileKey(uid), QuestionnaireStatusKey(uid), UserRoleKey(uid)}
		},
		title: "Profil mis à jour",
	}, func(ctx context.Context, uid string) (*model.Profile, error) {
		if upd.Role != nil && !upd.Role.Valid() {
			return nil, fmt.Errorf("%w %q", model.ErrUnknownRole, *upd.Role)
		}
		return h.remote.Profiles.Update(ctx, uid, upd)
	})
}

func (h *Hooks) CompleteQuestionnaire(ctx context.Context, kind model.QuestionnaireKind) error {
	_, err := mutate(ctx, h, mutation{
		name: "complete_questionnaire",
		invalidate: func(uid string) []querycache.Key {
			return []querycache.Key{ProfileKey(uid), QuestionnaireStatusKey(uid)}
		},
		title: "Questionnaire terminé",
	}, func(ctx context.Context, uid string) (struct{}, error) {
		if kind != model.QuestionnaireProfile && kind != model.QuestionnaireLearningStyle {
			return struct{}{}, fmt.Errorf("%w: questionnaire kind %q", ErrMissingParam, kind)
		}
		return struct{}{}, h.remote.Profiles.SetQuestionnaireCompleted(ctx, uid, kind)
	})
	return err
}

// RevisionSheetURL signs a download URL for a completed sheet.
func (h *Hooks) RevisionSheetURL(ctx context.Context, sheet model.RevisionSheet) (string, error) {
	if sheet.Status != model.StatusCompleted || sheet.ArtifactPath == "" {
		return "", fmt.Errorf("%w: %s is %s", ErrNotReady, sheet.ID, sheet.Status)
	}
	key, err := storage.CleanKey(sheet.ArtifactPath)
	if err != nil {
		return "", err
	}
	return h.remote.Storage.PresignGet(ctx, key, h.policy.SignedURLTTL)
}

// DownloadDocument streams one of the signed-in user's documents.
func (h *Hooks) DownloadDocument(ctx context.Context, id string) (io.ReadCloser, *model.Document, error) {
	uid, ok := h.user()
	if !ok {
		return nil, nil, ErrNotAuthenticated
	}
	return h.remote.Documents.Open(ctx, uid, id)
}
