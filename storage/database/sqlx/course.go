package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/course"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

var courseColumns = []string{"id", "title", "code", "description", "teacher_id", "created_at", "updated_at"}

type courseRepository struct {
	base
}

var _ course.Repository = (*courseRepository)(nil)

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{base{db: db}}
}

func (repo courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	q := psql.Insert("courses").Columns(courseColumns...).
		Values(c.ID, c.Title, c.Code, c.Description, c.TeacherID, c.CreatedAt, c.UpdatedAt)
	if _, err := repo.exec(ctx, q); err != nil {
		return course.Course{}, database.MapError(err, "inserting course", course.ErrNotFound)
	}
	return c, nil
}

func (repo courseRepository) GetCourse(ctx context.Context, id string) (course.Course, error) {
	var c course.Course
	err := repo.get(ctx, &c, psql.Select(courseColumns...).From("courses").Where(sq.Eq{"id": id}))
	return c, database.MapError(err, "finding course", course.ErrNotFound)
}

func (repo courseRepository) CodeExists(ctx context.Context, code, excludedID string) (bool, error) {
	q := psql.Select("1").From("courses").Where(sq.Eq{"code": code})
	if excludedID != "" {
		q = q.Where(sq.NotEq{"id": excludedID})
	}
	return repo.exists(ctx, q)
}

func (repo courseRepository) TeacherExists(ctx context.Context, teacherID string) (bool, error) {
	return repo.exists(ctx, psql.Select("1").From("teachers").Where(sq.Eq{"id": teacherID}))
}

func (repo courseRepository) StudentExists(ctx context.Context, studentID string) (bool, error) {
	return repo.exists(ctx, psql.Select("1").From("students").Where(sq.Eq{"id": studentID}))
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter course.QueryFilter, opts core.ListOptions) ([]course.Course, int, error) {
	q := psql.Select().From("courses")
	if filter.Search != "" {
		q = q.Where(ilike(filter.Search, "title", "code"))
	}
	if filter.TeacherID != "" {
		q = q.Where(sq.Eq{"teacher_id": filter.TeacherID})
	}
	if filter.StudentID != "" {
		q = q.Where(in("id", enrolledCourses, filter.StudentID))
	}

	courses := []course.Course{}
	total, err := repo.page(ctx, &courses, q, courseColumns, opts)
	if err != nil {
		return nil, 0, database.MapError(err, "querying courses", course.ErrNotFound)
	}
	return courses, total, nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	q := psql.Update("courses").SetMap(map[string]interface{}{
		"title":       c.Title,
		"code":        c.Code,
		"description": c.Description,
		"teacher_id":  c.TeacherID,
		"updated_at":  c.UpdatedAt,
	}).Where(sq.Eq{"id": c.ID})
	if err := repo.execOne(ctx, q, "updating course", course.ErrNotFound); err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id string) error {
	return repo.execOne(ctx, psql.Delete("courses").Where(sq.Eq{"id": id}), "deleting course", course.ErrNotFound)
}

func (repo courseRepository) DeleteStudentRecords(ctx context.Context, courseID, studentID string) (course.Unenrollment, error) {
	res := course.Unenrollment{CourseID: courseID, StudentID: studentID}

	n, err := repo.exec(ctx, psql.Delete("attendance").Where(sq.Eq{"course_id": courseID, "student_id": studentID}))
	if err != nil {
		return course.Unenrollment{}, database.MapError(err, "deleting attendance", course.ErrNotFound)
	}
	res.Attendance = int(n)

	n, err = repo.exec(ctx, psql.Delete("submissions").
		Where(sq.Eq{"student_id": studentID}).
		Where(in("assignment_id", "SELECT id FROM assignments WHERE course_id = ?", courseID)))
	if err != nil {
		return course.Unenrollment{}, database.MapError(err, "deleting submissions", course.ErrNotFound)
	}
	res.Submissions = int(n)
	return res, nil
}
