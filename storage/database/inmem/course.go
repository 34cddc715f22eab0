package inmemdb

import (
	"context"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/course"
)

type courseRepository struct {
	db *DB
}

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	err := repo.db.write(ctx, func() error {
		repo.db.courses[c.ID] = c
		return nil
	})
	return c, err
}

func (repo *courseRepository) GetCourse(_ context.Context, id string) (c course.Course, err error) {
	err = repo.db.read(func() error {
		var ok bool
		if c, ok = repo.db.courses[id]; !ok {
			return course.ErrNotFound
		}
		return nil
	})
	return c, err
}

func (repo *courseRepository) CodeExists(_ context.Context, code, excludedID string) (bool, error) {
	var exists bool
	_ = repo.db.read(func() error {
		for _, c := range repo.db.courses {
			if c.Code == code && c.ID != excludedID {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, nil
}

func (repo *courseRepository) TeacherExists(_ context.Context, teacherID string) (bool, error) {
	var ok bool
	_ = repo.db.read(func() error {
		_, ok = repo.db.teachers[teacherID]
		return nil
	})
	return ok, nil
}

func (repo *courseRepository) StudentExists(_ context.Context, studentID string) (bool, error) {
	var ok bool
	_ = repo.db.read(func() error {
		_, ok = repo.db.students[studentID]
		return nil
	})
	return ok, nil
}

func courseField(c course.Course, column string) interface{} {
	switch column {
	case "title":
		return c.Title
	case "code":
		return c.Code
	case "created_at":
		return c.CreatedAt
	}
	return c.ID
}

func (repo *courseRepository) QueryCourses(_ context.Context, filter course.QueryFilter, opts core.ListOptions) ([]course.Course, int, error) {
	var courses []course.Course
	_ = repo.db.read(func() error {
		var enrolled map[string]bool
		if filter.StudentID != "" {
			enrolled = repo.db.enrolledCourses(filter.StudentID)
		}
		for _, c := range repo.db.courses {
			if filter.Search != "" && !contains(c.Title, filter.Search) && !contains(c.Code, filter.Search) {
				continue
			}
			if filter.TeacherID != "" && c.TeacherID.String != filter.TeacherID {
				continue
			}
			if enrolled != nil && !enrolled[c.ID] {
				continue
			}
			courses = append(courses, c)
		}
		return nil
	})
	page, total := list(courses, opts, courseField)
	return page, total, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	err := repo.db.write(ctx, func() error {
		orig, ok := repo.db.courses[c.ID]
		if !ok {
			return course.ErrNotFound
		}
		c.CreatedAt = orig.CreatedAt
		repo.db.courses[c.ID] = c
		return nil
	})
	return c, err
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	return repo.db.write(ctx, func() error {
		if _, ok := repo.db.courses[id]; !ok {
			return course.ErrNotFound
		}
		delete(repo.db.courses, id)
		for aid, a := range repo.db.assignments {
			if a.CourseID == id {
				repo.db.deleteAssignment(aid)
			}
		}
		for aid, a := range repo.db.attendance {
			if a.CourseID == id {
				delete(repo.db.attendance, aid)
			}
		}
		return nil
	})
}

func (repo *courseRepository) DeleteStudentRecords(ctx context.Context, courseID, studentID string) (course.Unenrollment, error) {
	res := course.Unenrollment{CourseID: courseID, StudentID: studentID}
	err := repo.db.write(ctx, func() error {
		for id, a := range repo.db.attendance {
			if a.CourseID == courseID && a.StudentID == studentID {
				delete(repo.db.attendance, id)
				res.Attendance++
			}
		}
		for id, s := range repo.db.submissions {
			if s.StudentID == studentID && repo.db.assignments[s.AssignmentID].CourseID == courseID {
				delete(repo.db.submissions, id)
				res.Submissions++
			}
		}
		return nil
	})
	return res, err
}
