package report

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sudais-khan12/LMS-sub002/core"
)

// Report is a student's performance snapshot for a semester.
// StudentName and EnrollmentNo are read from the student.
type Report struct {
	ID           string    `json:"id" db:"id"`
	StudentID    string    `json:"studentId" db:"student_id"`
	Semester     int       `json:"semester" db:"semester"`
	GPA          float64   `json:"gpa" db:"gpa"`
	Credits      int       `json:"credits" db:"credits"`
	Remarks      string    `json:"remarks" db:"remarks"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
	StudentName  string    `json:"studentName" db:"student_name"`
	EnrollmentNo string    `json:"enrollmentNo" db:"enrollment_no"`
}

type NewReport struct {
	StudentID string   `json:"studentId" validate:"required,id"`
	Semester  int      `json:"semester" validate:"required,min=1,max=12"`
	GPA       *float64 `json:"gpa" validate:"required,min=0,max=4"`
	Credits   int      `json:"credits" validate:"min=0,max=200"`
	Remarks   string   `json:"remarks" validate:"max=2000"`
}

func (nr *NewReport) Validate(validate *validator.Validate) error {
	nr.StudentID = core.CleanString(nr.StudentID)
	nr.Remarks = core.CleanString(nr.Remarks)
	return validate.Struct(nr)
}

type UpdateReport struct {
	Semester *int     `json:"semester" validate:"omitempty,min=1,max=12"`
	GPA      *float64 `json:"gpa" validate:"omitempty,min=0,max=4"`
	Credits  *int     `json:"credits" validate:"omitempty,min=0,max=200"`
	Remarks  *string  `json:"remarks" validate:"omitempty,max=2000"`
}

func (ur *UpdateReport) Validate(validate *validator.Validate) error {
	if ur.Remarks != nil {
		*ur.Remarks = core.CleanString(*ur.Remarks)
	}
	return validate.Struct(ur)
}

type QueryFilter struct {
	StudentID string `query:"studentId"`
	Semester  int    `query:"semester"`
	// TeacherID limits the result to the teacher's students.
	TeacherID string `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.StudentID = core.CleanString(qf.StudentID)
}

var OrderingFields = map[string]string{
	"semester":  "semester",
	"gpa":       "gpa",
	"createdat": "created_at",
}
