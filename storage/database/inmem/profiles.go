package inmemdb

import (
	"context"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
)

type teacherRepository struct {
	db *DB
}

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db}
}

// teacherWithUser must be called holding a lock.
func (db *DB) teacherWithUser(t teacher.Teacher) teacher.Teacher {
	usr := db.users[t.UserID]
	t.Name, t.Email, t.Username, t.IsActive = usr.Name, usr.Email, usr.Username, usr.IsActive
	return t
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	err := repo.db.write(ctx, func() error {
		repo.db.teachers[t.ID] = t
		t = repo.db.teacherWithUser(t)
		return nil
	})
	return t, err
}

func (repo *teacherRepository) GetTeacher(_ context.Context, id string) (t teacher.Teacher, err error) {
	err = repo.db.read(func() error {
		var ok bool
		if t, ok = repo.db.teachers[id]; !ok {
			return teacher.ErrNotFound
		}
		t = repo.db.teacherWithUser(t)
		return nil
	})
	return t, err
}

func (repo *teacherRepository) GetTeacherByUser(_ context.Context, userID string) (t teacher.Teacher, err error) {
	err = repo.db.read(func() error {
		for _, tchr := range repo.db.teachers {
			if tchr.UserID == userID {
				t = repo.db.teacherWithUser(tchr)
				return nil
			}
		}
		return teacher.ErrNotFound
	})
	return t, err
}

func teacherField(t teacher.Teacher, column string) interface{} {
	switch column {
	case "name":
		return t.Name
	case "email":
		return t.Email
	case "specialization":
		return t.Specialization
	}
	return t.ID
}

func (repo *teacherRepository) QueryTeachers(_ context.Context, filter teacher.QueryFilter, opts core.ListOptions) ([]teacher.Teacher, int, error) {
	var teachers []teacher.Teacher
	_ = repo.db.read(func() error {
		var studentTeachers map[string]bool
		if filter.StudentID != "" {
			studentTeachers = make(map[string]bool)
			for cid := range repo.db.enrolledCourses(filter.StudentID) {
				if c := repo.db.courses[cid]; c.TeacherID.Valid {
					studentTeachers[c.TeacherID.String] = true
				}
			}
		}

		for _, t := range repo.db.teachers {
			t = repo.db.teacherWithUser(t)
			if filter.Search != "" &&
				!contains(t.Name, filter.Search) && !contains(t.Email, filter.Search) && !contains(t.Specialization, filter.Search) {
				continue
			}
			if filter.IsActive != nil && t.IsActive != *filter.IsActive {
				continue
			}
			if studentTeachers != nil && !studentTeachers[t.ID] {
				continue
			}
			teachers = append(teachers, t)
		}
		return nil
	})
	page, total := list(teachers, opts, teacherField)
	return page, total, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	err := repo.db.write(ctx, func() error {
		if _, ok := repo.db.teachers[t.ID]; !ok {
			return teacher.ErrNotFound
		}
		repo.db.teachers[t.ID] = t
		t = repo.db.teacherWithUser(t)
		return nil
	})
	return t, err
}

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

// studentWithUser must be called holding a lock.
func (db *DB) studentWithUser(s student.Student) student.Student {
	usr := db.users[s.UserID]
	s.Name, s.Email, s.Username = usr.Name, usr.Email, usr.Username
	return s
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	err := repo.db.write(ctx, func() error {
		repo.db.students[s.ID] = s
		s = repo.db.studentWithUser(s)
		return nil
	})
	return s, err
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (s student.Student, err error) {
	err = repo.db.read(func() error {
		var ok bool
		if s, ok = repo.db.students[id]; !ok {
			return student.ErrNotFound
		}
		s = repo.db.studentWithUser(s)
		return nil
	})
	return s, err
}

func (repo *studentRepository) GetStudentByUser(_ context.Context, userID string) (s student.Student, err error) {
	err = repo.db.read(func() error {
		for _, stdt := range repo.db.students {
			if stdt.UserID == userID {
				s = repo.db.studentWithUser(stdt)
				return nil
			}
		}
		return student.ErrNotFound
	})
	return s, err
}

func (repo *studentRepository) EnrollmentNoExists(_ context.Context, enrollmentNo, excludedID string) (bool, error) {
	var exists bool
	_ = repo.db.read(func() error {
		for _, s := range repo.db.students {
			if s.EnrollmentNo == enrollmentNo && s.ID != excludedID {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, nil
}

func studentField(s student.Student, column string) interface{} {
	switch column {
	case "name":
		return s.Name
	case "enrollment_no":
		return s.EnrollmentNo
	case "semester":
		return s.Semester
	case "section":
		return s.Section
	}
	return s.ID
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter, opts core.ListOptions) ([]student.Student, int, error) {
	var students []student.Student
	_ = repo.db.read(func() error {
		var taught map[string]bool
		if filter.TeacherID != "" {
			taught = repo.db.teacherStudents(filter.TeacherID)
		}

		for _, s := range repo.db.students {
			s = repo.db.studentWithUser(s)
			if filter.Search != "" &&
				!contains(s.Name, filter.Search) && !contains(s.Email, filter.Search) && !contains(s.EnrollmentNo, filter.Search) {
				continue
			}
			if filter.Semester > 0 && s.Semester != filter.Semester {
				continue
			}
			if filter.Section != "" && s.Section != filter.Section {
				continue
			}
			if filter.CourseID != "" && !repo.db.isEnrolled(s.ID, filter.CourseID) {
				continue
			}
			if taught != nil && !taught[s.ID] {
				continue
			}
			students = append(students, s)
		}
		return nil
	})
	page, total := list(students, opts, studentField)
	return page, total, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	err := repo.db.write(ctx, func() error {
		if _, ok := repo.db.students[s.ID]; !ok {
			return student.ErrNotFound
		}
		repo.db.students[s.ID] = s
		s = repo.db.studentWithUser(s)
		return nil
	})
	return s, err
}
