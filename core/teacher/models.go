package teacher

import (
	"github.com/go-playground/validator/v10"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

// Teacher is the teaching profile of a TEACHER user.
// Name, Email and Username are read from the user.
type Teacher struct {
	ID             string `json:"id" db:"id"`
	UserID         string `json:"userId" db:"user_id"`
	Specialization string `json:"specialization" db:"specialization"`
	Contact        string `json:"contact" db:"contact"`
	IsActive       bool   `json:"isActive" db:"is_active"`
	Name           string `json:"name" db:"name"`
	Email          string `json:"email" db:"email"`
	Username       string `json:"username" db:"username"`
}

// NewTeacher creates a TEACHER user and its profile.
type NewTeacher struct {
	user.NewUser
	Specialization string `json:"specialization" validate:"max=128"`
	Contact        string `json:"contact" validate:"max=64"`
}

func (nt *NewTeacher) Validate(validate *validator.Validate) error {
	nt.Role = user.RoleTeacher
	nt.NewUser.Clean()
	nt.Specialization = core.CleanString(nt.Specialization)
	nt.Contact = core.CleanString(nt.Contact)
	return validate.Struct(nt)
}

type UpdateTeacher struct {
	user.UpdateUser
	Specialization *string `json:"specialization" validate:"omitempty,max=128"`
	Contact        *string `json:"contact" validate:"omitempty,max=64"`
}

// Validate fills unset fields from the current user; the role never changes.
func (ut *UpdateTeacher) Validate(origUsr user.User, validate *validator.Validate) error {
	ut.Role = origUsr.Role
	if err := ut.UpdateUser.Validate(origUsr, validate); err != nil {
		return err
	}
	if ut.Specialization != nil {
		*ut.Specialization = core.CleanString(*ut.Specialization)
	}
	if ut.Contact != nil {
		*ut.Contact = core.CleanString(*ut.Contact)
	}
	return validate.Struct(ut)
}

type QueryFilter struct {
	Search   string `query:"search"`
	IsActive *bool  `query:"isActive"`
	// StudentID limits the result to the teachers of the student's courses.
	StudentID string `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

var OrderingFields = map[string]string{
	"name":           "name",
	"email":          "email",
	"specialization": "specialization",
}
