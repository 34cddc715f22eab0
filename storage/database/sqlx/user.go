package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/user"
	"github.com/sudais-khan12/LMS-sub002/storage/database"
)

var userColumns = []string{
	"id", "name", "email", "username", "password_hash", "role", "is_active", "created_at", "updated_at", "last_login",
}

type userRepository struct {
	base
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{base{db: db}}
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := psql.Insert("users").Columns(userColumns...).Values(
		usr.ID, usr.Name, usr.Email, usr.Username, usr.PasswordHash, usr.Role, usr.IsActive,
		usr.CreatedAt, usr.UpdatedAt, usr.LastLogin,
	)
	if _, err := repo.exec(ctx, q); err != nil {
		return user.User{}, database.MapError(err, "inserting user", user.ErrNotFound)
	}
	return usr, nil
}

func (repo userRepository) getBy(ctx context.Context, where sq.Eq) (user.User, error) {
	var usr user.User
	err := repo.get(ctx, &usr, psql.Select(userColumns...).From("users").Where(where))
	return usr, database.MapError(err, "finding user", user.ErrNotFound)
}

func (repo userRepository) GetUser(ctx context.Context, id string) (user.User, error) {
	return repo.getBy(ctx, sq.Eq{"id": id})
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getBy(ctx, sq.Eq{"email": email})
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.getBy(ctx, sq.Eq{"username": username})
}

func (repo userRepository) GetUsers(ctx context.Context, ids []string) ([]user.User, error) {
	users := []user.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := repo.selectAll(ctx, &users, psql.Select(userColumns...).From("users").Where(sq.Eq{"id": ids}).OrderBy("name"))
	return users, database.MapError(err, "finding users", user.ErrNotFound)
}

func (repo userRepository) fieldExists(ctx context.Context, field, value, excludedID string) (bool, error) {
	q := psql.Select("1").From("users").Where(sq.Eq{field: value})
	if excludedID != "" {
		q = q.Where(sq.NotEq{"id": excludedID})
	}
	return repo.exists(ctx, q)
}

func (repo userRepository) EmailExists(ctx context.Context, email, excludedID string) (bool, error) {
	return repo.fieldExists(ctx, "email", email, excludedID)
}

func (repo userRepository) UsernameExists(ctx context.Context, username, excludedID string) (bool, error) {
	return repo.fieldExists(ctx, "username", username, excludedID)
}

func (repo userRepository) QueryUsers(ctx context.Context, filter user.QueryFilter, opts core.ListOptions) ([]user.User, int, error) {
	q := psql.Select().From("users")
	if filter.Search != "" {
		q = q.Where(ilike(filter.Search, "name", "email", "username"))
	}
	if filter.Role != "" {
		q = q.Where(sq.Eq{"role": filter.Role})
	}
	if filter.IsActive != nil {
		q = q.Where(sq.Eq{"is_active": *filter.IsActive})
	}

	users := []user.User{}
	total, err := repo.page(ctx, &users, q, userColumns, opts)
	if err != nil {
		return nil, 0, database.MapError(err, "querying users", user.ErrNotFound)
	}
	return users, total, nil
}

func (repo userRepository) UserIDsByRole(ctx context.Context, role string) ([]string, error) {
	ids := []string{}
	err := repo.selectAll(ctx, &ids, psql.Select("id").From("users").
		Where(sq.Eq{"role": role, "is_active": true}).OrderBy("id"))
	return ids, database.MapError(err, "finding users by role", user.ErrNotFound)
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	q := psql.Update("users").SetMap(map[string]interface{}{
		"name":          usr.Name,
		"email":         usr.Email,
		"username":      usr.Username,
		"password_hash": usr.PasswordHash,
		"role":          usr.Role,
		"is_active":     usr.IsActive,
		"updated_at":    usr.UpdatedAt,
	}).Where(sq.Eq{"id": usr.ID})
	if err := repo.execOne(ctx, q, "updating user", user.ErrNotFound); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo userRepository) SetLastLogin(ctx context.Context, id string, t time.Time) error {
	q := psql.Update("users").Set("last_login", t).Where(sq.Eq{"id": id})
	return repo.execOne(ctx, q, "setting last login", user.ErrNotFound)
}

// DeleteUser removes the user; profiles, leave requests and notifications follow by cascade.
func (repo userRepository) DeleteUser(ctx context.Context, id string) error {
	return repo.execOne(ctx, psql.Delete("users").Where(sq.Eq{"id": id}), "deleting user", user.ErrNotFound)
}
