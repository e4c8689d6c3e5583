package queries

import "studyhub/internal/querycache"

// Entity names, the first element of every cache key.
const (
	EntityProfile                = "profile"
	EntityDocuments              = "documents"
	EntityCourses                = "courses"
	EntityExercises              = "exercises"
	EntityRevisionSheets         = "revision-sheets"
	EntityErrorRevisions         = "error-revisions"
	EntityQuestionnaireStatus    = "questionnaire-status"
	EntityUserRole               = "user-role"
	EntityOrganizationMembership = "organization-membership"
	EntityOrganizationCapacity   = "organization-capacity"
)

// userEntities are scoped by user id as their second key element.
var userEntities = []string{
	EntityProfile,
	EntityDocuments,
	EntityCourses,
	EntityExercises,
	EntityRevisionSheets,
	EntityErrorRevisions,
	EntityQuestionnaireStatus,
	EntityUserRole,
	EntityOrganizationMembership,
}

func ProfileKey(uid string) querycache.Key   { return querycache.NewKey(EntityProfile, uid) }
func DocumentsKey(uid string) querycache.Key { return querycache.NewKey(EntityDocuments, uid) }
func CoursesKey(uid string) querycache.Key   { return querycache.NewKey(EntityCourses, uid) }

func ExercisesKey(uid, courseID string) querycache.Key {
	return querycache.NewKey(EntityExercises, uid, courseID)
}

func RevisionSheetsKey(uid string) querycache.Key {
	return querycache.NewKey(EntityRevisionSheets, uid)
}

func ErrorRevisionsKey(uid string) querycache.Key {
	return querycache.NewKey(EntityErrorRevisions, uid)
}

func QuestionnaireStatusKey(uid string) querycache.Key {
	return querycache.NewKey(EntityQuestionnaireStatus, uid)
}

func UserRoleKey(uid string) querycache.Key { return querycache.NewKey(EntityUserRole, uid) }

func MembershipKey(uid string) querycache.Key {
	return querycache.NewKey(EntityOrganizationMembership, uid)
}

func CapacityKey(orgID string) querycache.Key {
	return querycache.NewKey(EntityOrganizationCapacity, orgID)
}
