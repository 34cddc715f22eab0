// Package access decides who may see or mutate what.
//
// Every request goes through the same three steps: the Role Guard (a static
// table keyed by role, action and resource kind), then the Ownership Resolver,
// which follows foreign keys to find the teacher(s) and student owning a
// record, then the ownership check itself.
package access

import "github.com/sudais-khan12/LMS-sub002/core/user"

type Action string

const (
	Create  Action = "create"
	Read    Action = "read"
	Update  Action = "update"
	Delete  Action = "delete"
	Grade   Action = "grade"
	Approve Action = "approve"
)

type Kind string

const (
	KindUser         Kind = "user"
	KindTeacher      Kind = "teacher"
	KindStudent      Kind = "student"
	KindCourse       Kind = "course"
	KindAssignment   Kind = "assignment"
	KindSubmission   Kind = "submission"
	KindAttendance   Kind = "attendance"
	KindLeave        Kind = "leave"
	KindNotification Kind = "notification"
	KindReport       Kind = "report"
	KindSettings     Kind = "settings"
)

type actionSet map[Action]struct{}

func actions(acts ...Action) actionSet {
	set := make(actionSet, len(acts))
	for _, a := range acts {
		set[a] = struct{}{}
	}
	return set
}

// guardTable lists what non-admin roles may attempt; ADMIN may do anything.
var guardTable = map[string]map[Kind]actionSet{
	user.RoleTeacher: {
		KindCourse:       actions(Create, Read, Update, Delete),
		KindAssignment:   actions(Create, Read, Update, Delete),
		KindAttendance:   actions(Create, Read, Update, Delete),
		KindSubmission:   actions(Read, Grade),
		KindLeave:        actions(Create, Read, Delete, Approve),
		KindStudent:      actions(Read),
		KindTeacher:      actions(Read),
		KindReport:       actions(Read),
		KindNotification: actions(Read, Update),
		KindSettings:     actions(Read),
	},
	user.RoleStudent: {
		KindSubmission:   actions(Create, Read),
		KindLeave:        actions(Create, Read, Delete),
		KindAttendance:   actions(Read),
		KindCourse:       actions(Read),
		KindAssignment:   actions(Read),
		KindReport:       actions(Read),
		KindStudent:      actions(Read),
		KindTeacher:      actions(Read),
		KindNotification: actions(Read, Update),
		KindSettings:     actions(Read),
	},
}

// CanAccess reports whether role may attempt action on resources of kind.
// It says nothing about a given record: ownership is checked by Resolver.Authorize.
func CanAccess(role string, action Action, kind Kind) bool {
	if role == user.RoleAdmin {
		return true
	}
	kinds, ok := guardTable[role]
	if !ok {
		return false
	}
	acts, ok := kinds[kind]
	if !ok {
		return false
	}
	_, ok = acts[action]
	return ok
}

// Actor is the authenticated caller.
type Actor struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	TeacherID string `json:"teacherId,omitempty"`
	StudentID string `json:"studentId,omitempty"`
}

func (a Actor) IsAdmin() bool   { return a.Role == user.RoleAdmin }
func (a Actor) IsTeacher() bool { return a.Role == user.RoleTeacher }
func (a Actor) IsStudent() bool { return a.Role == user.RoleStudent }
