package attendance

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/stats"
)

// Statuses
const (
	StatusPresent = stats.StatusPresent
	StatusAbsent  = stats.StatusAbsent
	StatusLate    = stats.StatusLate
)

var (
	statusTag  = "attendance_status"
	statusText = "{0} must be one of PRESENT, ABSENT or LATE"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// InitValidators registers the attendance validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		return IsValidStatus(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

type Attendance struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"studentId" db:"student_id"`
	CourseID  string    `json:"courseId" db:"course_id"`
	Date      core.Date `json:"date" db:"date"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// MarkAttendance records a student's status for a course day.
// Marking the same day again replaces the status.
type MarkAttendance struct {
	StudentID string    `json:"studentId" validate:"required,id"`
	CourseID  string    `json:"courseId" validate:"required,id"`
	Date      core.Date `json:"date" validate:"required"`
	Status    string    `json:"status" validate:"required,attendance_status"`
}

func (ma *MarkAttendance) Validate(validate *validator.Validate) error {
	ma.StudentID = core.CleanString(ma.StudentID)
	ma.CourseID = core.CleanString(ma.CourseID)
	ma.Status = core.CleanString(ma.Status)
	return validate.Struct(ma)
}

type UpdateAttendance struct {
	Status string `json:"status" validate:"required,attendance_status"`
}

func (ua *UpdateAttendance) Validate(validate *validator.Validate) error {
	ua.Status = core.CleanString(ua.Status)
	return validate.Struct(ua)
}

type QueryFilter struct {
	CourseID  string    `query:"courseId"`
	StudentID string    `query:"studentId"`
	Status    string    `query:"status"`
	From      core.Date `query:"from"`
	To        core.Date `query:"to"`
	// TeacherID limits the result to the teacher's courses.
	TeacherID string `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.CourseID = core.CleanString(qf.CourseID)
	qf.StudentID = core.CleanString(qf.StudentID)
	qf.Status = core.CleanString(qf.Status)
}

var OrderingFields = map[string]string{
	"date":      "date",
	"status":    "status",
	"createdat": "created_at",
}
