package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"studyhub/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last step; its presence means the schema is in place.
const sentinelTable = "public.error_revisions"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email      TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_email",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email));`,
	},
	{
		Name: "create_table_organizations",
		SQL: `CREATE TABLE IF NOT EXISTS organizations (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL,
  seat_limit INTEGER     NOT NULL DEFAULT 0 CHECK (seat_limit >= 0),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_profiles",
		SQL: `CREATE TABLE IF NOT EXISTS profiles (
  id                       UUID        PRIMARY KEY REFERENCES users (id) ON DELETE CASCADE,
  email                    TEXT        NOT NULL DEFAULT '',
  role                     TEXT        NOT NULL DEFAULT 'student',
  country                  TEXT,
  education_level          TEXT,
  classes                  JSONB       NOT NULL DEFAULT '[]'::jsonb,
  subjects                 JSONB       NOT NULL DEFAULT '[]'::jsonb,
  subscription             TEXT,
  questionnaire_completed  BOOLEAN     NOT NULL DEFAULT false,
  learning_style_completed BOOLEAN     NOT NULL DEFAULT false,
  organization_id          UUID        REFERENCES organizations (id) ON DELETE SET NULL,
  updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_organization_members",
		SQL: `CREATE TABLE IF NOT EXISTS organization_members (
  organization_id UUID        NOT NULL REFERENCES organizations (id) ON DELETE CASCADE,
  user_id         UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  role            TEXT        NOT NULL DEFAULT 'member',
  status          TEXT        NOT NULL DEFAULT 'pending',
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (organization_id, user_id)
);`,
	},
	{
		Name: "create_table_courses",
		SQL: `CREATE TABLE IF NOT EXISTS courses (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id    UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  title      TEXT        NOT NULL,
  subject    TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id      UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  course_id    UUID        REFERENCES courses (id) ON DELETE SET NULL,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_user_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_user_id ON documents (user_id, created_at DESC);`,
	},
	{
		Name: "create_table_exercises",
		SQL: `CREATE TABLE IF NOT EXISTS exercises (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  course_id    UUID        NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
  user_id      UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  title        TEXT        NOT NULL,
  score        DOUBLE PRECISION,
  completed_at TIMESTAMPTZ
);`,
	},
	{
		Name: "create_table_revision_sheets",
		SQL: `CREATE TABLE IF NOT EXISTS revision_sheets (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  course_id     UUID        NOT NULL REFERENCES courses (id) ON DELETE CASCADE,
  user_id       UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  title         TEXT        NOT NULL DEFAULT '',
  subject       TEXT        NOT NULL DEFAULT '',
  status        TEXT        NOT NULL DEFAULT 'not_requested',
  artifact_path TEXT,
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_error_revisions",
		SQL: `CREATE TABLE IF NOT EXISTS error_revisions (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id     UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  exercise_id UUID        REFERENCES exercises (id) ON DELETE SET NULL,
  status      TEXT        NOT NULL DEFAULT 'generating',
  content     TEXT,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated checks for the sentinel table and applies every step when it is missing.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	start := time.Now()
	log = log.With(logging.Fields{"component": "database", "db_host": dbHost})

	log.Event(logging.Fields{
		"event":  "db_migration_check",
		"status": "starting",
	})

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinelTable).Scan(&exists)
	if err != nil {
		log.Event(logging.Fields{
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Event(logging.Fields{
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Event(logging.Fields{
		"event":  "db_migration_start",
		"status": "in_progress",
		"steps":  len(steps),
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Event(logging.Fields{
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Event(logging.Fields{
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Event(logging.Fields{
		"event":       "db_migration_success",
		"status":      "success",
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
