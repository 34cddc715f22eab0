package access

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

// Store answers the foreign-key lookups ownership depends on.
// Every method returns a *core.NotFoundError when the record does not exist.
type Store interface {
	UserExists(ctx context.Context, id string) error
	TeacherUser(ctx context.Context, teacherID string) (string, error)
	StudentUser(ctx context.Context, studentID string) (string, error)
	CourseTeacher(ctx context.Context, courseID string) (null.String, error)
	AssignmentCourse(ctx context.Context, assignmentID string) (string, error)
	SubmissionOwner(ctx context.Context, submissionID string) (assignmentID, studentID string, err error)
	AttendanceOwner(ctx context.Context, attendanceID string) (courseID, studentID string, err error)
	LeaveOwner(ctx context.Context, leaveID string) (requesterID string, studentID null.String, err error)
	ReportStudent(ctx context.Context, reportID string) (string, error)
	NotificationUser(ctx context.Context, notificationID string) (string, error)

	// StudentTeacherIDs returns the teachers of every course the student is enrolled in.
	StudentTeacherIDs(ctx context.Context, studentID string) ([]string, error)
	// IsEnrolled reports whether the student has at least one attendance record in the course.
	IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error)
}

// Owner holds who a record belongs to.
type Owner struct {
	UserID     string   `json:"userId,omitempty"`
	TeacherIDs []string `json:"teacherIds,omitempty"`
	StudentID  string   `json:"studentId,omitempty"`
	CourseID   string   `json:"courseId,omitempty"`
}

func (o Owner) hasTeacher(teacherID string) bool {
	if teacherID == "" {
		return false
	}
	for _, id := range o.TeacherIDs {
		if id == teacherID {
			return true
		}
	}
	return false
}

// Resolver maps records to their owners. Lookups are never cached.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

func teacherIDs(tid null.String) []string {
	if tid.Valid && tid.String != "" {
		return []string{tid.String}
	}
	return nil
}

// Resolve returns the owner of the record kind/id.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, id string) (Owner, error) {
	if kind != KindSettings && !core.IsValidID(id) {
		return Owner{}, core.NewNotFoundError(string(kind))
	}

	switch kind {
	case KindUser:
		if err := r.store.UserExists(ctx, id); err != nil {
			return Owner{}, err
		}
		return Owner{UserID: id}, nil

	case KindTeacher:
		uid, err := r.store.TeacherUser(ctx, id)
		if err != nil {
			return Owner{}, err
		}
		return Owner{UserID: uid, TeacherIDs: []string{id}}, nil

	case KindStudent:
		uid, err := r.store.StudentUser(ctx, id)
		if err != nil {
			return Owner{}, err
		}
		tids, err := r.store.StudentTeacherIDs(ctx, id)
		if err != nil {
			return Owner{}, errors.Wrap(err, "finding student teachers")
		}
		return Owner{UserID: uid, StudentID: id, TeacherIDs: tids}, nil

	case KindCourse:
		tid, err := r.store.CourseTeacher(ctx, id)
		if err != nil {
			return Owner{}, err
		}
		return Owner{TeacherIDs: teacherIDs(tid), CourseID: id}, nil

	case KindAssignment:
		cid, err := r.store.AssignmentCourse(ctx, id)
		if err != nil {
			return Owner{}, err
		}
		return r.courseOwner(ctx, cid, Owner{})

	case KindSubmission:
		aid, sid, err := r.store.SubmissionOwner(ctx, id)
		if err != nil {
			return Owner{}, err
		}
		cid, err := r.store.AssignmentCourse(ctx, aid)
		if err != nil {
			return Owner{}, errors.Wrap(err, "finding submission course")
		}
		return r.courseOwner(ctx, cid, Owner{StudentID: sid})

	case KindAttendance:
		cid, sid, err := r.store.AttendanceOwner(ctx, id)
		if err != nil {
			return Owner{}, err
		}
		return r.courseOwner(ctx, cid, Owner{StudentID: sid})

	case KindLeave:
		uid, sid, err := r.store.LeaveOwner(ctx, id)
		if err != nil {
			return Owner{}, err
		}
		owner := Owner{UserID: uid}
		if sid.Valid {
			owner.StudentID = sid.String
			if owner.TeacherIDs, err = r.store.StudentTeacherIDs(ctx, sid.String); err != nil {
				return Owner{}, errors.Wrap(err, "finding student teachers")
			}
		}
		return owner, nil

	case KindReport:
		sid, err := r.store.ReportStudent(ctx, id)
		if err != nil {
			return Owner{}, err
		}
		tids, err := r.store.StudentTeacherIDs(ctx, sid)
		if err != nil {
			return Owner{}, errors.Wrap(err, "finding student teachers")
		}
		return Owner{StudentID: sid, TeacherIDs: tids}, nil

	case KindNotification:
		uid, err := r.store.NotificationUser(ctx, id)
		if err != nil {
			return Owner{}, err
		}
		return Owner{UserID: uid}, nil

	case KindSettings:
		return Owner{}, nil
	}
	return Owner{}, errors.Errorf("unknown resource kind %q", kind)
}

func (r *Resolver) courseOwner(ctx context.Context, courseID string, owner Owner) (Owner, error) {
	tid, err := r.store.CourseTeacher(ctx, courseID)
	if err != nil {
		return Owner{}, errors.Wrap(err, "finding course teacher")
	}
	owner.CourseID = courseID
	owner.TeacherIDs = teacherIDs(tid)
	return owner, nil
}

// Authorize runs the Role Guard, resolves the record owner and checks that actor may act on it.
// For Create, id names the parent record: the course of an assignment or attendance record,
// the assignment of a submission. It is ignored for kinds created without a parent.
func (r *Resolver) Authorize(ctx context.Context, actor Actor, action Action, kind Kind, id string) error {
	if !CanAccess(actor.Role, action, kind) {
		return core.ErrForbidden
	}
	if action == Create {
		return r.authorizeCreate(ctx, actor, kind, id)
	}

	owner, err := r.Resolve(ctx, kind, id)
	if err != nil {
		return err
	}
	if actor.IsAdmin() {
		return nil
	}

	ok, err := r.owns(ctx, actor, action, kind, owner)
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrForbidden
	}
	return nil
}

func (r *Resolver) authorizeCreate(ctx context.Context, actor Actor, kind Kind, parentID string) error {
	var parentKind Kind
	switch kind {
	case KindAssignment, KindAttendance:
		parentKind = KindCourse
	case KindSubmission:
		parentKind = KindAssignment
	default:
		return nil
	}

	owner, err := r.Resolve(ctx, parentKind, parentID)
	if err != nil {
		return err
	}

	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsTeacher() && parentKind == KindCourse:
		if owner.hasTeacher(actor.TeacherID) {
			return nil
		}
	case actor.IsStudent() && kind == KindSubmission:
		ok, err := r.isEnrolled(ctx, actor.StudentID, owner.CourseID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return core.ErrForbidden
}

func (r *Resolver) owns(ctx context.Context, actor Actor, action Action, kind Kind, owner Owner) (bool, error) {
	isUser := owner.UserID != "" && owner.UserID == actor.UserID

	switch actor.Role {
	case user.RoleTeacher:
		switch {
		case action == Approve:
			// never on one's own request
			return owner.hasTeacher(actor.TeacherID) && !isUser, nil
		case action == Grade:
			return owner.hasTeacher(actor.TeacherID), nil
		case kind == KindLeave && action == Delete:
			return isUser, nil
		}
		return isUser || owner.hasTeacher(actor.TeacherID), nil

	case user.RoleStudent:
		if isUser || (actor.StudentID != "" && owner.StudentID == actor.StudentID) {
			return true, nil
		}
		switch {
		case action == Read && kind == KindTeacher:
			// teacher profiles are a directory
			return true, nil
		case action == Read && (kind == KindCourse || kind == KindAssignment):
			return r.isEnrolled(ctx, actor.StudentID, owner.CourseID)
		}
	}
	return false, nil
}

func (r *Resolver) isEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	if studentID == "" || courseID == "" {
		return false, nil
	}
	ok, err := r.store.IsEnrolled(ctx, studentID, courseID)
	return ok, errors.Wrap(err, "checking enrollment")
}

// IsEnrolled reports whether the student is enrolled in the course.
func (r *Resolver) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	return r.isEnrolled(ctx, studentID, courseID)
}
