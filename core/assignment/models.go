package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
)

type Assignment struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"dueDate" db:"due_date"`
	CourseID    string    `json:"courseId" db:"course_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type NewAssignment struct {
	Title       string    `json:"title" validate:"required,max=128"`
	Description string    `json:"description" validate:"max=4000"`
	DueDate     time.Time `json:"dueDate" validate:"required"`
	CourseID    string    `json:"courseId" validate:"required,id"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.CourseID = core.CleanString(na.CourseID)
	return validate.Struct(na)
}

type UpdateAssignment struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=128"`
	Description *string    `json:"description" validate:"omitempty,max=4000"`
	DueDate     *time.Time `json:"dueDate"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	if ua.Title != nil {
		*ua.Title = core.CleanString(*ua.Title)
	}
	if ua.Description != nil {
		*ua.Description = core.CleanString(*ua.Description)
	}
	return validate.Struct(ua)
}

type QueryFilter struct {
	CourseID string `query:"courseId"`
	Search   string `query:"search"`
	// TeacherID limits the result to the teacher's courses.
	TeacherID string `query:"-"`
	// StudentID limits the result to the courses the student is enrolled in.
	StudentID string `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.CourseID = core.CleanString(qf.CourseID)
	qf.Search = core.CleanString(qf.Search)
}

var OrderingFields = map[string]string{
	"title":     "title",
	"duedate":   "due_date",
	"createdat": "created_at",
}

type Submission struct {
	ID           string       `json:"id" db:"id"`
	AssignmentID string       `json:"assignmentId" db:"assignment_id"`
	StudentID    string       `json:"studentId" db:"student_id"`
	FileURL      string       `json:"fileUrl" db:"file_url"`
	Grade        null.Float64 `json:"grade" db:"grade"`
	SubmittedAt  time.Time    `json:"submittedAt" db:"submitted_at"`
	GradedAt     null.Time    `json:"gradedAt" db:"graded_at"`
}

func (s Submission) IsGraded() bool { return s.Grade.Valid }

type NewSubmission struct {
	AssignmentID string `json:"assignmentId" validate:"required,id"`
	FileURL      string `json:"fileUrl" validate:"required,url,max=512"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.AssignmentID = core.CleanString(ns.AssignmentID)
	ns.FileURL = core.CleanString(ns.FileURL)
	return validate.Struct(ns)
}

type GradeSubmission struct {
	Grade *float64 `json:"grade" validate:"required,min=0,max=100"`
}

func (gs *GradeSubmission) Validate(validate *validator.Validate) error {
	return validate.Struct(gs)
}

type SubmissionFilter struct {
	AssignmentID string `query:"assignmentId"`
	CourseID     string `query:"courseId"`
	StudentID    string `query:"studentId"`
	Graded       *bool  `query:"graded"`
	// TeacherID limits the result to the teacher's courses.
	TeacherID string `query:"-"`
}

func (sf *SubmissionFilter) Clean() {
	sf.AssignmentID = core.CleanString(sf.AssignmentID)
	sf.CourseID = core.CleanString(sf.CourseID)
	sf.StudentID = core.CleanString(sf.StudentID)
}

var SubmissionOrderingFields = map[string]string{
	"submittedat": "submitted_at",
	"gradedat":    "graded_at",
	"grade":       "grade",
}
