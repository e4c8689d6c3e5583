// Package remote bundles everything the entity hooks read from or write to:
// the tables, object storage and the serverless functions.
package remote

import (
	"database/sql"

	"studyhub/internal/functions"
	"studyhub/internal/repository"
	"studyhub/internal/repository/postgres"
	"studyhub/internal/service"
	"studyhub/internal/storage"
)

// Client is the remote data client handle.
type Client struct {
	Profiles      repository.ProfileRepository
	Courses       repository.CourseRepository
	Revisions     repository.RevisionRepository
	Organizations repository.OrganizationRepository
	Documents     service.DocumentService
	Storage       storage.Storage
	Functions     functions.Invoker
}

// NewPostgres wires the postgres repositories over db.
func NewPostgres(db *sql.DB, store storage.Storage, fn functions.Invoker) *Client {
	return &Client{
		Profiles:      postgres.NewProfilePostgres(db),
		Courses:       postgres.NewCoursePostgres(db),
		Revisions:     postgres.NewRevisionPostgres(db),
		Organizations: postgres.NewOrganizationPostgres(db),
		Documents:     service.NewDocumentService(store, postgres.NewDocumentPostgres(db)),
		Storage:       store,
		Functions:     fn,
	}
}
