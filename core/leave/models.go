package leave

import (
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
)

// Statuses
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

var AllStatuses = []string{StatusPending, StatusApproved, StatusRejected}

// MaxPending is how many PENDING requests a requester may have at once.
const MaxPending = 3

var (
	statusTag  = "leave_status"
	statusText = "{0} must be one of PENDING, APPROVED or REJECTED"

	dateRangeTag  = "daterange"
	dateRangeText = "{0} must not be before fromDate"
)

func IsValidStatus(status string) bool {
	for _, s := range AllStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// InitValidators registers the leave validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		return IsValidStatus(fl.Field().String())
	})
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	validate.RegisterStructValidation(func(sl validator.StructLevel) {
		nl := sl.Current().Interface().(NewLeave)
		if !nl.FromDate.IsZero() && !nl.ToDate.IsZero() && nl.ToDate.Before(nl.FromDate) {
			sl.ReportError(nl.ToDate, "toDate", "ToDate", dateRangeTag, "")
		}
	}, NewLeave{})
	core.RegisterCustomTranslation(validate, translator, dateRangeTag, dateRangeText)
}

type Leave struct {
	ID          string      `json:"id" db:"id"`
	RequesterID string      `json:"requesterId" db:"requester_id"`
	StudentID   null.String `json:"studentId" db:"student_id"`
	Type        string      `json:"type" db:"type"`
	FromDate    core.Date   `json:"fromDate" db:"from_date"`
	ToDate      core.Date   `json:"toDate" db:"to_date"`
	Reason      string      `json:"reason" db:"reason"`
	Status      string      `json:"status" db:"status"`
	ApproverID  null.String `json:"approverId" db:"approver_id"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

func (l Leave) IsPending() bool { return l.Status == StatusPending }

type NewLeave struct {
	Type     string    `json:"type" validate:"required,oneof=SICK CASUAL ACADEMIC EMERGENCY OTHER"`
	FromDate core.Date `json:"fromDate" validate:"required"`
	ToDate   core.Date `json:"toDate" validate:"required"`
	Reason   string    `json:"reason" validate:"max=1000"`
}

func (nl *NewLeave) Validate(validate *validator.Validate) error {
	nl.Type = strings.ToUpper(core.CleanString(nl.Type))
	nl.Reason = core.CleanString(nl.Reason)
	return validate.Struct(nl)
}

type QueryFilter struct {
	Status      string `query:"status" validate:"omitempty,leave_status"`
	RequesterID string `query:"requesterId" validate:"omitempty,id"`
	StudentID   string `query:"studentId" validate:"omitempty,id"`
	// TeacherID limits the result to requests of the teacher's students,
	// plus the requests made by TeacherUserID when set.
	TeacherID     string `query:"-"`
	TeacherUserID string `query:"-"`
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Status = strings.ToUpper(core.CleanString(qf.Status))
	qf.RequesterID = core.CleanString(qf.RequesterID)
	qf.StudentID = core.CleanString(qf.StudentID)
	return validate.Struct(qf)
}

var OrderingFields = map[string]string{
	"fromdate":  "from_date",
	"todate":    "to_date",
	"status":    "status",
	"createdat": "created_at",
}
