package assignment

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/notification"
)

var (
	ErrNotFound           = core.NewNotFoundError("assignment")
	ErrSubmissionNotFound = core.NewNotFoundError("submission")
	ErrCourseNotFound     = core.NewNotFoundError("course")
	ErrAlreadySubmitted   = core.NewConflictError("this assignment was already submitted")
	ErrPastDue            = core.NewValidationError(errors.New("the due date of this assignment has passed"),
		core.FieldError{Field: "assignmentId", Error: "late submissions are not allowed"})
)

// nowFunc can be mocked in tests.
var nowFunc = time.Now

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignment(ctx context.Context, id string) (Assignment, error)
		CourseExists(ctx context.Context, courseID string) (bool, error)
		QueryAssignments(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Assignment, int, error)
		UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) error

		CreateSubmission(ctx context.Context, s Submission) (Submission, error)
		GetSubmission(ctx context.Context, id string) (Submission, error)
		SubmissionExists(ctx context.Context, assignmentID, studentID string) (bool, error)
		QuerySubmissions(ctx context.Context, filter SubmissionFilter, opts core.ListOptions) ([]Submission, int, error)
		GradeSubmission(ctx context.Context, id string, grade float64, gradedAt time.Time) (Submission, error)
		// SubmissionRecipient returns the user id of the submitting student and the assignment title.
		SubmissionRecipient(ctx context.Context, submissionID string) (userID, title string, err error)
	}

	Policy interface {
		AllowLateSubmissions() bool
	}

	Service struct {
		repo     Repository
		tx       core.Transactor
		policy   Policy
		notifier notification.Notifier
		logger   core.Logger
	}
)

func NewService(repo Repository, tx core.Transactor, policy Policy, notifier notification.Notifier, logger core.Logger) *Service {
	return &Service{
		repo:     repo,
		tx:       tx,
		policy:   policy,
		notifier: notifier,
		logger:   logger,
	}
}

// Create persists na; na must have been validated.
func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	ok, err := svc.repo.CourseExists(ctx, na.CourseID)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "finding course")
	}
	if !ok {
		return Assignment{}, ErrCourseNotFound
	}

	now := nowFunc().UTC()
	return svc.repo.CreateAssignment(ctx, Assignment{
		ID:          core.NewID(),
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate.UTC(),
		CourseID:    na.CourseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assignment, error) {
	if !core.IsValidID(id) {
		return Assignment{}, ErrNotFound
	}
	return svc.repo.GetAssignment(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, opts core.ListOptions) ([]Assignment, int, error) {
	opts.Ordering = core.CleanOrdering(opts.Ordering, OrderingFields)
	return svc.repo.QueryAssignments(ctx, filter, opts)
}

func (svc *Service) Update(ctx context.Context, a Assignment, ua UpdateAssignment) (Assignment, error) {
	if ua.Title != nil {
		a.Title = *ua.Title
	}
	if ua.Description != nil {
		a.Description = *ua.Description
	}
	if ua.DueDate != nil {
		a.DueDate = ua.DueDate.UTC()
	}
	a.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateAssignment(ctx, a)
}

// Delete removes the assignment with its submissions.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if !core.IsValidID(id) {
		return ErrNotFound
	}
	return svc.repo.DeleteAssignment(ctx, id)
}

// Submit records the student's work for an assignment, once per assignment.
func (svc *Service) Submit(ctx context.Context, studentID string, ns NewSubmission) (Submission, error) {
	a, err := svc.GetByID(ctx, ns.AssignmentID)
	if err != nil {
		return Submission{}, err
	}

	now := nowFunc().UTC()
	if now.After(a.DueDate) && !svc.policy.AllowLateSubmissions() {
		return Submission{}, ErrPastDue
	}

	exists, err := svc.repo.SubmissionExists(ctx, a.ID, studentID)
	if err != nil {
		return Submission{}, errors.Wrap(err, "checking submission uniqueness")
	}
	if exists {
		return Submission{}, ErrAlreadySubmitted
	}

	return svc.repo.CreateSubmission(ctx, Submission{
		ID:           core.NewID(),
		AssignmentID: a.ID,
		StudentID:    studentID,
		FileURL:      ns.FileURL,
		SubmittedAt:  now,
	})
}

func (svc *Service) GetSubmission(ctx context.Context, id string) (Submission, error) {
	if !core.IsValidID(id) {
		return Submission{}, ErrSubmissionNotFound
	}
	return svc.repo.GetSubmission(ctx, id)
}

func (svc *Service) QuerySubmissions(ctx context.Context, filter SubmissionFilter, opts core.ListOptions) ([]Submission, int, error) {
	opts.Ordering = core.CleanOrdering(opts.Ordering, SubmissionOrderingFields)
	return svc.repo.QuerySubmissions(ctx, filter, opts)
}

// Grade sets the grade of a submission and notifies the student once it is saved.
func (svc *Service) Grade(ctx context.Context, id string, gs GradeSubmission) (Submission, error) {
	var (
		sub    Submission
		userID string
		title  string
	)
	err := svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if sub, err = svc.repo.GradeSubmission(ctx, id, *gs.Grade, nowFunc().UTC()); err != nil {
			return err
		}
		userID, title, err = svc.repo.SubmissionRecipient(ctx, id)
		return errors.Wrap(err, "finding submission recipient")
	})
	if err != nil {
		return Submission{}, err
	}

	notification.Deliver(ctx, svc.notifier, svc.logger, []string{userID}, notification.Message{
		Title:    "Submission graded",
		Body:     fmt.Sprintf("Your submission for %q was graded: %s/100", title, FormatGrade(sub.Grade)),
		Link:     "/student/submissions/" + sub.ID,
		Category: notification.CategoryAssignment,
		Data: map[string]interface{}{
			"submissionId": sub.ID,
			"assignmentId": sub.AssignmentID,
			"grade":        sub.Grade.Float64,
		},
	})
	return sub, nil
}

// FormatGrade prints a grade without trailing zeros: 85, 92.5.
func FormatGrade(g null.Float64) string {
	if !g.Valid {
		return "-"
	}
	return strconv.FormatFloat(g.Float64, 'f', -1, 64)
}
