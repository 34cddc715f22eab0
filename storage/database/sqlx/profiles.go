package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

var (
	teacherColumns = []string{"id", "user_id", "specialization", "contact", "is_active", "name", "email", "username"}
	studentColumns = []string{"id", "user_id", "enrollment_no", "semester", "section", "name", "email", "username"}
)

type teacherRepository struct {
	base
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository(db *sqlx.DB) *teacherRepository {
	return &teacherRepository{base{db: db}}
}

func (repo teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	q := psql.Insert("teachers").
		Columns("id", "user_id", "specialization", "contact", "is_active").
		Values(t.ID, t.UserID, t.Specialization, t.Contact, t.IsActive)
	if _, err := repo.exec(ctx, q); err != nil {
		return teacher.Teacher{}, database.MapError(err, "inserting teacher", teacher.ErrNotFound)
	}
	return repo.GetTeacher(ctx, t.ID)
}

func (repo teacherRepository) getBy(ctx context.Context, where sq.Eq) (teacher.Teacher, error) {
	var t teacher.Teacher
	err := repo.get(ctx, &t, psql.Select(teacherColumns...).From("teacher_profiles").Where(where))
	return t, database.MapError(err, "finding teacher", teacher.ErrNotFound)
}

func (repo teacherRepository) GetTeacher(ctx context.Context, id string) (teacher.Teacher, error) {
	return repo.getBy(ctx, sq.Eq{"id": id})
}

func (repo teacherRepository) GetTeacherByUser(ctx context.Context, userID string) (teacher.Teacher, error) {
	return repo.getBy(ctx, sq.Eq{"user_id": userID})
}

func (repo teacherRepository) QueryTeachers(ctx context.Context, filter teacher.QueryFilter, opts core.ListOptions) ([]teacher.Teacher, int, error) {
	q := psql.Select().From("teacher_profiles")
	if filter.Search != "" {
		q = q.Where(ilike(filter.Search, "name", "email", "specialization"))
	}
	if filter.IsActive != nil {
		q = q.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	if filter.StudentID != "" {
		q = q.Where(in("id", studentTeachers, filter.StudentID))
	}

	teachers := []teacher.Teacher{}
	total, err := repo.page(ctx, &teachers, q, teacherColumns, opts)
	if err != nil {
		return nil, 0, database.MapError(err, "querying teachers", teacher.ErrNotFound)
	}
	return teachers, total, nil
}

func (repo teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	q := psql.Update("teachers").SetMap(map[string]interface{}{
		"specialization": t.Specialization,
		"contact":        t.Contact,
		"is_active":      t.IsActive,
	}).Where(sq.Eq{"id": t.ID})
	if err := repo.execOne(ctx, q, "updating teacher", teacher.ErrNotFound); err != nil {
		return teacher.Teacher{}, err
	}
	return repo.GetTeacher(ctx, t.ID)
}

type studentRepository struct {
	base
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{base{db: db}}
}

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q := psql.Insert("students").
		Columns("id", "user_id", "enrollment_no", "semester", "section").
		Values(s.ID, s.UserID, s.EnrollmentNo, s.Semester, s.Section)
	if _, err := repo.exec(ctx, q); err != nil {
		return student.Student{}, database.MapError(err, "inserting student", student.ErrNotFound)
	}
	return repo.GetStudent(ctx, s.ID)
}

func (repo studentRepository) getBy(ctx context.Context, where sq.Eq) (student.Student, error) {
	var s student.Student
	err := repo.get(ctx, &s, psql.Select(studentColumns...).From("student_profiles").Where(where))
	return s, database.MapError(err, "finding student", student.ErrNotFound)
}

func (repo studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	return repo.getBy(ctx, sq.Eq{"id": id})
}

func (repo studentRepository) GetStudentByUser(ctx context.Context, userID string) (student.Student, error) {
	return repo.getBy(ctx, sq.Eq{"user_id": userID})
}

func (repo studentRepository) EnrollmentNoExists(ctx context.Context, enrollmentNo, excludedID string) (bool, error) {
	q := psql.Select("1").From("students").Where(sq.Eq{"enrollment_no": enrollmentNo})
	if excludedID != "" {
		q = q.Where(sq.NotEq{"id": excludedID})
	}
	return repo.exists(ctx, q)
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter, opts core.ListOptions) ([]student.Student, int, error) {
	q := psql.Select().From("student_profiles")
	if filter.Search != "" {
		q = q.Where(ilike(filter.Search, "name", "email", "enrollment_no"))
	}
	if filter.Semester > 0 {
		q = q.Where(sq.Eq{"semester": filter.Semester})
	}
	if filter.Section != "" {
		q = q.Where(sq.Eq{"section": filter.Section})
	}
	if filter.CourseID != "" {
		q = q.Where(in("id", enrolledStudents, filter.CourseID))
	}
	if filter.TeacherID != "" {
		q = q.Where(in("id", teacherStudents, filter.TeacherID))
	}

	students := []student.Student{}
	total, err := repo.page(ctx, &students, q, studentColumns, opts)
	if err != nil {
		return nil, 0, database.MapError(err, "querying students", student.ErrNotFound)
	}
	return students, total, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q := psql.Update("students").SetMap(map[string]interface{}{
		"enrollment_no": s.EnrollmentNo,
		"semester":      s.Semester,
		"section":       s.Section,
	}).Where(sq.Eq{"id": s.ID})
	if err := repo.execOne(ctx, q, "updating student", student.ErrNotFound); err != nil {
		return student.Student{}, err
	}
	return repo.GetStudent(ctx, s.ID)
}
