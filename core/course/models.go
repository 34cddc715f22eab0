package course

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
)

type Course struct {
	ID          string      `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Code        string      `json:"code" db:"code"`
	Description string      `json:"description" db:"description"`
	TeacherID   null.String `json:"teacherId" db:"teacher_id"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

type NewCourse struct {
	Title       string `json:"title" validate:"required,max=128"`
	Code        string `json:"code" validate:"required,max=32,alphanum_"`
	Description string `json:"description" validate:"max=4000"`
	TeacherID   string `json:"teacherId" validate:"omitempty,id"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Code = cleanCode(nc.Code)
	nc.Description = core.CleanString(nc.Description)
	nc.TeacherID = core.CleanString(nc.TeacherID)
	return validate.Struct(nc)
}

// UpdateCourse changes the provided fields only.
// TeacherID: nil keeps the teacher, "" unassigns it.
type UpdateCourse struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=128"`
	Code        *string `json:"code" validate:"omitempty,min=1,max=32,alphanum_"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	TeacherID   *string `json:"teacherId" validate:"omitempty,id|len=0"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	if uc.Title != nil {
		*uc.Title = core.CleanString(*uc.Title)
	}
	if uc.Code != nil {
		*uc.Code = cleanCode(*uc.Code)
	}
	if uc.Description != nil {
		*uc.Description = core.CleanString(*uc.Description)
	}
	if uc.TeacherID != nil {
		*uc.TeacherID = core.CleanString(*uc.TeacherID)
	}
	return validate.Struct(uc)
}

func cleanCode(code string) string {
	return strings.ToUpper(core.CleanString(code))
}

type QueryFilter struct {
	Search    string `query:"search"`
	TeacherID string `query:"teacherId"`
	// StudentID limits the result to the courses the student is enrolled in.
	StudentID string `query:"studentId"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.TeacherID = core.CleanString(qf.TeacherID)
	qf.StudentID = core.CleanString(qf.StudentID)
}

var OrderingFields = map[string]string{
	"title":     "title",
	"code":      "code",
	"createdat": "created_at",
}
