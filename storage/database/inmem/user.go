package inmemdb

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	err := repo.db.write(ctx, func() error {
		repo.db.users[usr.ID] = usr
		return nil
	})
	return usr, err
}

func (repo *userRepository) GetUser(_ context.Context, id string) (usr user.User, err error) {
	err = repo.db.read(func() error {
		var ok bool
		if usr, ok = repo.db.users[id]; !ok {
			return user.ErrNotFound
		}
		return nil
	})
	return usr, err
}

func (repo *userRepository) find(match func(user.User) bool) (user.User, error) {
	var found user.User
	err := repo.db.read(func() error {
		for _, usr := range repo.db.users {
			if match(usr) {
				found = usr
				return nil
			}
		}
		return user.ErrNotFound
	})
	return found, err
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	return repo.find(func(usr user.User) bool { return usr.Email == email })
}

func (repo *userRepository) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	return repo.find(func(usr user.User) bool { return usr.Username == username })
}

func (repo *userRepository) GetUsers(_ context.Context, ids []string) ([]user.User, error) {
	users := []user.User{}
	err := repo.db.read(func() error {
		for _, id := range ids {
			if usr, ok := repo.db.users[id]; ok {
				users = append(users, usr)
			}
		}
		return nil
	})
	return users, err
}

func (repo *userRepository) EmailExists(_ context.Context, email, excludedID string) (bool, error) {
	_, err := repo.find(func(usr user.User) bool { return usr.Email == email && usr.ID != excludedID })
	return err == nil, nil
}

func (repo *userRepository) UsernameExists(_ context.Context, username, excludedID string) (bool, error) {
	_, err := repo.find(func(usr user.User) bool { return usr.Username == username && usr.ID != excludedID })
	return err == nil, nil
}

func userField(usr user.User, column string) interface{} {
	switch column {
	case "name":
		return usr.Name
	case "email":
		return usr.Email
	case "username":
		return usr.Username
	case "role":
		return usr.Role
	case "created_at":
		return usr.CreatedAt
	}
	return usr.ID
}

func (repo *userRepository) QueryUsers(_ context.Context, filter user.QueryFilter, opts core.ListOptions) ([]user.User, int, error) {
	var users []user.User
	_ = repo.db.read(func() error {
		for _, usr := range repo.db.users {
			if filter.Search != "" &&
				!contains(usr.Name, filter.Search) && !contains(usr.Email, filter.Search) && !contains(usr.Username, filter.Search) {
				continue
			}
			if filter.Role != "" && usr.Role != filter.Role {
				continue
			}
			if filter.IsActive != nil && usr.IsActive != *filter.IsActive {
				continue
			}
			users = append(users, usr)
		}
		return nil
	})
	page, total := list(users, opts, userField)
	return page, total, nil
}

func (repo *userRepository) UserIDsByRole(_ context.Context, role string) ([]string, error) {
	var users []user.User
	_ = repo.db.read(func() error {
		for _, usr := range repo.db.users {
			if usr.Role == role && usr.IsActive {
				users = append(users, usr)
			}
		}
		return nil
	})
	page, _ := list(users, core.ListOptions{Pagination: core.Pagination{Limit: len(users)}}, userField)

	ids := make([]string, 0, len(page))
	for _, usr := range page {
		ids = append(ids, usr.ID)
	}
	return ids, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	err := repo.db.write(ctx, func() error {
		orig, ok := repo.db.users[usr.ID]
		if !ok {
			return user.ErrNotFound
		}
		usr.LastLogin = orig.LastLogin
		usr.CreatedAt = orig.CreatedAt
		repo.db.users[usr.ID] = usr
		return nil
	})
	return usr, err
}

func (repo *userRepository) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	return repo.db.write(ctx, func() error {
		usr, ok := repo.db.users[id]
		if !ok {
			return user.ErrNotFound
		}
		usr.LastLogin = null.TimeFrom(t)
		repo.db.users[id] = usr
		return nil
	})
}

// DeleteUser applies the same cascades as the SQL schema.
func (repo *userRepository) DeleteUser(ctx context.Context, id string) error {
	return repo.db.write(ctx, func() error {
		if _, ok := repo.db.users[id]; !ok {
			return user.ErrNotFound
		}
		repo.db.deleteUser(id)
		return nil
	})
}

// deleteUser must be called holding the write lock.
func (db *DB) deleteUser(id string) {
	delete(db.users, id)

	for tid, t := range db.teachers {
		if t.UserID != id {
			continue
		}
		delete(db.teachers, tid)
		for cid, c := range db.courses {
			if c.TeacherID.Valid && c.TeacherID.String == tid {
				c.TeacherID = null.String{}
				db.courses[cid] = c
			}
		}
	}
	for sid, s := range db.students {
		if s.UserID == id {
			db.deleteStudent(sid)
		}
	}
	for lid, l := range db.leaves {
		switch {
		case l.RequesterID == id:
			delete(db.leaves, lid)
		case l.ApproverID.Valid && l.ApproverID.String == id:
			l.ApproverID = null.String{}
			db.leaves[lid] = l
		}
	}
	for nid, n := range db.notifications {
		if n.UserID == id {
			delete(db.notifications, nid)
		}
	}
}

// deleteStudent must be called holding the write lock.
func (db *DB) deleteStudent(id string) {
	delete(db.students, id)
	for sid, s := range db.submissions {
		if s.StudentID == id {
			delete(db.submissions, sid)
		}
	}
	for aid, a := range db.attendance {
		if a.StudentID == id {
			delete(db.attendance, aid)
		}
	}
	for rid, r := range db.reports {
		if r.StudentID == id {
			delete(db.reports, rid)
		}
	}
	for lid, l := range db.leaves {
		if l.StudentID.Valid && l.StudentID.String == id {
			l.StudentID = null.String{}
			db.leaves[lid] = l
		}
	}
}
