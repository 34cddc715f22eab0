package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/assignment"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

var (
	assignmentColumns = []string{"id", "title", "description", "due_date", "course_id", "created_at", "updated_at"}
	submissionColumns = []string{"id", "assignment_id", "student_id", "file_url", "grade", "submitted_at", "graded_at"}
)

type assignmentRepository struct {
	base
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *sqlx.DB) *assignmentRepository {
	return &assignmentRepository{base{db: db}}
}

func (repo assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := psql.Insert("assignments").Columns(assignmentColumns...).
		Values(a.ID, a.Title, a.Description, a.DueDate, a.CourseID, a.CreatedAt, a.UpdatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return assignment.Assignment{}, database.MapError(err, "inserting assignment", assignment.ErrNotFound)
	}
	return a, nil
}

func (repo assignmentRepository) GetAssignment(ctx context.Context, id string) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := repo.get(ctx, &a, psql.Select(assignmentColumns...).From("assignments").Where(sq.Eq{"id": id}))
	return a, database.MapError(err, "finding assignment", assignment.ErrNotFound)
}

func (repo assignmentRepository) CourseExists(ctx context.Context, courseID string) (bool, error) {
	return repo.exists(ctx, psql.Select("1").From("courses").Where(sq.Eq{"id": courseID}))
}

func (repo assignmentRepository) QueryAssignments(ctx context.Context, filter assignment.QueryFilter, opts core.ListOptions) ([]assignment.Assignment, int, error) {
	q := psql.Select().From("assignments")
	if filter.CourseID != "" {
		q = q.Where(sq.Eq{"course_id": filter.CourseID})
	}
	if filter.Search != "" {
		q = q.Where(ilike(filter.Search, "title", "description"))
	}
	if filter.TeacherID != "" {
		q = q.Where(in("course_id", teacherCourses, filter.TeacherID))
	}
	if filter.StudentID != "" {
		q = q.Where(in("course_id", enrolledCourses, filter.StudentID))
	}

	assignments := []assignment.Assignment{}
	total, err := repo.page(ctx, &assignments, q, assignmentColumns, opts)
	if err != nil {
		return nil, 0, database.MapError(err, "querying assignments", assignment.ErrNotFound)
	}
	return assignments, total, nil
}

func (repo assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	q := psql.Update("assignments").SetMap(map[string]interface{}{
		"title":       a.Title,
		"description": a.Description,
		"due_date":    a.DueDate,
		"updated_at":  a.UpdatedAt,
	}).Where(sq.Eq{"id": a.ID})
	if err := repo.execOne(ctx, q, "updating assignment", assignment.ErrNotFound); err != nil {
		return assignment.Assignment{}, err
	}
	return a, nil
}

func (repo assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	q := psql.Delete("assignments").Where(sq.Eq{"id": id})
	return repo.execOne(ctx, q, "deleting assignment", assignment.ErrNotFound)
}

func (repo assignmentRepository) CreateSubmission(ctx context.Context, s assignment.Submission) (assignment.Submission, error) {
	q := psql.Insert("submissions").Columns(submissionColumns...).
		Values(s.ID, s.AssignmentID, s.StudentID, s.FileURL, s.Grade, s.SubmittedAt, s.GradedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return assignment.Submission{}, database.MapError(err, "inserting submission", assignment.ErrSubmissionNotFound)
	}
	return s, nil
}

func (repo assignmentRepository) GetSubmission(ctx context.Context, id string) (assignment.Submission, error) {
	var s assignment.Submission
	err := repo.get(ctx, &s, psql.Select(submissionColumns...).From("submissions").Where(sq.Eq{"id": id}))
	return s, database.MapError(err, "finding submission", assignment.ErrSubmissionNotFound)
}

func (repo assignmentRepository) SubmissionExists(ctx context.Context, assignmentID, studentID string) (bool, error) {
	return repo.exists(ctx, psql.Select("1").From("submissions").
		Where(sq.Eq{"assignment_id": assignmentID, "student_id": studentID}))
}

func (repo assignmentRepository) QuerySubmissions(ctx context.Context, filter assignment.SubmissionFilter, opts core.ListOptions) ([]assignment.Submission, int, error) {
	q := psql.Select().From("submissions")
	if filter.AssignmentID != "" {
		q = q.Where(sq.Eq{"assignment_id": filter.AssignmentID})
	}
	if filter.StudentID != "" {
		q = q.Where(sq.Eq{"student_id": filter.StudentID})
	}
	if filter.CourseID != "" {
		q = q.Where(in("assignment_id", "SELECT id FROM assignments WHERE course_id = ?", filter.CourseID))
	}
	if filter.TeacherID != "" {
		q = q.Where(in("assignment_id",
			"SELECT a.id FROM assignments a JOIN courses c ON c.id = a.course_id WHERE c.teacher_id = ?", filter.TeacherID))
	}
	if filter.Graded != nil {
		if *filter.Graded {
			q = q.Where(sq.NotEq{"grade": nil})
		} else {
			q = q.Where(sq.Eq{"grade": nil})
		}
	}

	subs := []assignment.Submission{}
	total, err := repo.page(ctx, &subs, q, submissionColumns, opts)
	if err != nil {
		return nil, 0, database.MapError(err, "querying submissions", assignment.ErrSubmissionNotFound)
	}
	return subs, total, nil
}

func (repo assignmentRepository) GradeSubmission(ctx context.Context, id string, grade float64, gradedAt time.Time) (assignment.Submission, error) {
	var s assignment.Submission
	q := psql.Update("submissions").
		Set("grade", grade).
		Set("graded_at", gradedAt).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(submissionColumns))
	err := repo.get(ctx, &s, q)
	return s, database.MapError(err, "grading submission", assignment.ErrSubmissionNotFound)
}

func (repo assignmentRepository) SubmissionRecipient(ctx context.Context, submissionID string) (string, string, error) {
	var row struct {
		UserID string `db:"user_id"`
		Title  string `db:"title"`
	}
	q := psql.Select("st.user_id", "a.title").
		From("submissions s").
		Join("students st ON st.id = s.student_id").
		Join("assignments a ON a.id = s.assignment_id").
		Where(sq.Eq{"s.id": submissionID})
	if err := repo.get(ctx, &row, q); err != nil {
		return "", "", database.MapError(err, "finding submission recipient", assignment.ErrSubmissionNotFound)
	}
	return row.UserID, row.Title, nil
}
