package inmemdb

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/assignment"
)

type assignmentRepository struct {
	db *DB
}

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	err := repo.db.write(ctx, func() error {
		if _, ok := repo.db.courses[a.CourseID]; !ok {
			return assignment.ErrCourseNotFound
		}
		repo.db.assignments[a.ID] = a
		return nil
	})
	return a, err
}

func (repo *assignmentRepository) GetAssignment(_ context.Context, id string) (a assignment.Assignment, err error) {
	err = repo.db.read(func() error {
		var ok bool
		if a, ok = repo.db.assignments[id]; !ok {
			return assignment.ErrNotFound
		}
		return nil
	})
	return a, err
}

func (repo *assignmentRepository) CourseExists(_ context.Context, courseID string) (bool, error) {
	var ok bool
	_ = repo.db.read(func() error {
		_, ok = repo.db.courses[courseID]
		return nil
	})
	return ok, nil
}

func assignmentField(a assignment.Assignment, column string) interface{} {
	switch column {
	case "title":
		return a.Title
	case "due_date":
		return a.DueDate
	case "created_at":
		return a.CreatedAt
	}
	return a.ID
}

func (repo *assignmentRepository) QueryAssignments(_ context.Context, filter assignment.QueryFilter, opts core.ListOptions) ([]assignment.Assignment, int, error) {
	var items []assignment.Assignment
	_ = repo.db.read(func() error {
		var taught, enrolled map[string]bool
		if filter.TeacherID != "" {
			taught = repo.db.teacherCourses(filter.TeacherID)
		}
		if filter.StudentID != "" {
			enrolled = repo.db.enrolledCourses(filter.StudentID)
		}
		for _, a := range repo.db.assignments {
			if filter.CourseID != "" && a.CourseID != filter.CourseID {
				continue
			}
			if filter.Search != "" && !contains(a.Title, filter.Search) && !contains(a.Description, filter.Search) {
				continue
			}
			if taught != nil && !taught[a.CourseID] {
				continue
			}
			if enrolled != nil && !enrolled[a.CourseID] {
				continue
			}
			items = append(items, a)
		}
		return nil
	})
	page, total := list(items, opts, assignmentField)
	return page, total, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	err := repo.db.write(ctx, func() error {
		orig, ok := repo.db.assignments[a.ID]
		if !ok {
			return assignment.ErrNotFound
		}
		a.CourseID, a.CreatedAt = orig.CourseID, orig.CreatedAt
		repo.db.assignments[a.ID] = a
		return nil
	})
	return a, err
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id string) error {
	return repo.db.write(ctx, func() error {
		if _, ok := repo.db.assignments[id]; !ok {
			return assignment.ErrNotFound
		}
		repo.db.deleteAssignment(id)
		return nil
	})
}

// deleteAssignment must be called holding the write lock.
func (db *DB) deleteAssignment(id string) {
	delete(db.assignments, id)
	for sid, s := range db.submissions {
		if s.AssignmentID == id {
			delete(db.submissions, sid)
		}
	}
}

func (repo *assignmentRepository) CreateSubmission(ctx context.Context, s assignment.Submission) (assignment.Submission, error) {
	err := repo.db.write(ctx, func() error {
		if _, ok := repo.db.assignments[s.AssignmentID]; !ok {
			return assignment.ErrNotFound
		}
		for _, sub := range repo.db.submissions {
			if sub.AssignmentID == s.AssignmentID && sub.StudentID == s.StudentID {
				return assignment.ErrAlreadySubmitted
			}
		}
		repo.db.submissions[s.ID] = s
		return nil
	})
	return s, err
}

func (repo *assignmentRepository) GetSubmission(_ context.Context, id string) (s assignment.Submission, err error) {
	err = repo.db.read(func() error {
		var ok bool
		if s, ok = repo.db.submissions[id]; !ok {
			return assignment.ErrSubmissionNotFound
		}
		return nil
	})
	return s, err
}

func (repo *assignmentRepository) SubmissionExists(_ context.Context, assignmentID, studentID string) (bool, error) {
	var exists bool
	_ = repo.db.read(func() error {
		for _, s := range repo.db.submissions {
			if s.AssignmentID == assignmentID && s.StudentID == studentID {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, nil
}

func submissionField(s assignment.Submission, column string) interface{} {
	switch column {
	case "submitted_at":
		return s.SubmittedAt
	case "graded_at":
		return s.GradedAt
	case "grade":
		return s.Grade
	}
	return s.ID
}

func (repo *assignmentRepository) QuerySubmissions(_ context.Context, filter assignment.SubmissionFilter, opts core.ListOptions) ([]assignment.Submission, int, error) {
	var subs []assignment.Submission
	_ = repo.db.read(func() error {
		var taught map[string]bool
		if filter.TeacherID != "" {
			taught = repo.db.teacherCourses(filter.TeacherID)
		}
		for _, s := range repo.db.submissions {
			courseID := repo.db.assignments[s.AssignmentID].CourseID
			if filter.AssignmentID != "" && s.AssignmentID != filter.AssignmentID {
				continue
			}
			if filter.StudentID != "" && s.StudentID != filter.StudentID {
				continue
			}
			if filter.CourseID != "" && courseID != filter.CourseID {
				continue
			}
			if taught != nil && !taught[courseID] {
				continue
			}
			if filter.Graded != nil && s.IsGraded() != *filter.Graded {
				continue
			}
			subs = append(subs, s)
		}
		return nil
	})
	page, total := list(subs, opts, submissionField)
	return page, total, nil
}

func (repo *assignmentRepository) GradeSubmission(ctx context.Context, id string, grade float64, gradedAt time.Time) (s assignment.Submission, err error) {
	err = repo.db.write(ctx, func() error {
		var ok bool
		if s, ok = repo.db.submissions[id]; !ok {
			return assignment.ErrSubmissionNotFound
		}
		s.Grade = null.Float64From(grade)
		s.GradedAt = null.TimeFrom(gradedAt)
		repo.db.submissions[id] = s
		return nil
	})
	return s, err
}

func (repo *assignmentRepository) SubmissionRecipient(_ context.Context, submissionID string) (userID, title string, err error) {
	err = repo.db.read(func() error {
		s, ok := repo.db.submissions[submissionID]
		if !ok {
			return assignment.ErrSubmissionNotFound
		}
		userID = repo.db.students[s.StudentID].UserID
		title = repo.db.assignments[s.AssignmentID].Title
		return nil
	})
	return userID, title, err
}
