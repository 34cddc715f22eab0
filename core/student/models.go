package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

type Student struct {
	ID           string `json:"id" db:"id"`
	UserID       string `json:"userId" db:"user_id"`
	EnrollmentNo string `json:"enrollmentNo" db:"enrollment_no"`
	Semester     int    `json:"semester" db:"semester"`
	Section      string `json:"section" db:"section"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	Username     string `json:"username" db:"username"`
}

// NewStudent creates a STUDENT user and its profile.
type NewStudent struct {
	user.NewUser
	EnrollmentNo string `json:"enrollmentNo" validate:"required,max=32"`
	Semester     int    `json:"semester" validate:"required,min=1,max=12"`
	Section      string `json:"section" validate:"max=16"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Role = user.RoleStudent
	ns.NewUser.Clean()
	ns.EnrollmentNo = core.CleanString(ns.EnrollmentNo)
	ns.Section = core.CleanString(ns.Section)
	return validate.Struct(ns)
}

type UpdateStudent struct {
	user.UpdateUser
	EnrollmentNo *string `json:"enrollmentNo" validate:"omitempty,min=1,max=32"`
	Semester     *int    `json:"semester" validate:"omitempty,min=1,max=12"`
	Section      *string `json:"section" validate:"omitempty,max=16"`
}

func (us *UpdateStudent) Validate(origUsr user.User, validate *validator.Validate) error {
	us.Role = origUsr.Role
	if err := us.UpdateUser.Validate(origUsr, validate); err != nil {
		return err
	}
	if us.EnrollmentNo != nil {
		*us.EnrollmentNo = core.CleanString(*us.EnrollmentNo)
	}
	if us.Section != nil {
		*us.Section = core.CleanString(*us.Section)
	}
	return validate.Struct(us)
}

type QueryFilter struct {
	Search   string `query:"search"`
	Semester int    `query:"semester"`
	Section  string `query:"section"`
	CourseID string `query:"courseId"`
	// TeacherID limits the result to students enrolled in the teacher's courses.
	TeacherID string `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Section = core.CleanString(qf.Section)
	qf.CourseID = core.CleanString(qf.CourseID)
}

var OrderingFields = map[string]string{
	"name":         "name",
	"enrollmentno": "enrollment_no",
	"semester":     "semester",
	"section":      "section",
}
