package notification

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
)

// Categories
const (
	CategoryGeneral    = "general"
	CategoryAssignment = "assignment"
	CategoryLeave      = "leave"
	CategoryAttendance = "attendance"
	CategoryReport     = "report"
)

type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Link      string    `json:"link" db:"link"`
	Category  string    `json:"category" db:"category"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	Data      null.JSON `json:"data" db:"data"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Message is what gets delivered to every recipient of a notification.
type Message struct {
	Title    string
	Body     string
	Link     string
	Category string
	Data     interface{}
}

// Broadcast is an admin message to explicit users and/or every user of a role.
type Broadcast struct {
	UserIDs  []string `json:"userIds" validate:"omitempty,dive,id"`
	Role     string   `json:"role" validate:"omitempty,role"`
	Title    string   `json:"title" validate:"required,max=256"`
	Body     string   `json:"body" validate:"max=4000"`
	Link     string   `json:"link" validate:"max=512"`
	Category string   `json:"category" validate:"omitempty,max=32"`
}

func (b *Broadcast) Validate(validate *validator.Validate) error {
	b.Title = core.CleanString(b.Title)
	b.Body = core.CleanString(b.Body)
	b.Category = core.CleanString(b.Category, true /* lower */)
	if err := validate.Struct(b); err != nil {
		return err
	}
	if len(b.UserIDs) == 0 && b.Role == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "userIds", Error: "one of userIds or role is required"})
	}
	return nil
}

type QueryFilter struct {
	UserID   string `query:"-"`
	Category string `query:"category"`
	IsRead   *bool  `query:"isRead"`
}

func (qf *QueryFilter) Clean() {
	qf.Category = core.CleanString(qf.Category, true /* lower */)
}
