package echoapi

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/sudais-khan12/LMS-sub002/core"
	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/student"
	"github.com/sudais-khan12/LMS-sub002/core/teacher"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

const (
	tokenContextKey = "userToken"
	actorContextKey = "actor"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Role         string `json:"role"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	TeacherID    string `json:"teacherId,omitempty"`
	StudentID    string `json:"studentId,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// GetUserClaims builds the claims of usr. origIat is the issue time of the first token of the session.
func GetUserClaims(conf *core.Config, usr user.User, teacherID, studentID string, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   usr.ID,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Role:         usr.Role,
		Name:         usr.Name,
		Email:        usr.Email,
		TeacherID:    teacherID,
		StudentID:    studentID,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// profiles finds the teacher and student profiles of usr, if any.
type profiles struct {
	teachers *teacher.Service
	students *student.Service
}

func (p profiles) ids(ctx context.Context, usr user.User) (teacherID, studentID string, err error) {
	switch usr.Role {
	case user.RoleTeacher:
		t, err := p.teachers.GetByUser(ctx, usr.ID)
		if err != nil && !core.IsNotFound(err) {
			return "", "", errors.Wrap(err, "finding teacher profile")
		}
		return t.ID, "", nil
	case user.RoleStudent:
		s, err := p.students.GetByUser(ctx, usr.ID)
		if err != nil && !core.IsNotFound(err) {
			return "", "", errors.Wrap(err, "finding student profile")
		}
		return "", s.ID, nil
	}
	return "", "", nil
}

func authenticate(ctx context.Context, conf *core.Config, login, pwd string, users *user.Service, p profiles) (*Claims, error) {
	usr, err := users.GetByLogin(ctx, login)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding user by login")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	if !usr.IsActive {
		return nil, errAccountDeactivated
	}

	teacherID, studentID, err := p.ids(ctx, usr)
	if err != nil {
		return nil, err
	}
	if usr, err = users.SetLastLogin(ctx, usr); err != nil {
		return nil, errors.Wrap(err, "setting lastLogin")
	}
	return GetUserClaims(conf, usr, teacherID, studentID), nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, core.ErrUnauthenticated
}

// contextActor returns the actor set by actorMiddleware.
func contextActor(ctx echo.Context) (access.Actor, bool) {
	actor, ok := ctx.Get(actorContextKey).(access.Actor)
	return actor, ok
}

func mustActor(ctx echo.Context) (access.Actor, error) {
	if actor, ok := contextActor(ctx); ok {
		return actor, nil
	}
	return access.Actor{}, core.ErrUnauthenticated
}

func refreshToken(ctx echo.Context, conf *core.Config, users *user.Service, p profiles) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}

	usr, err := users.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if core.IsNotFound(err) {
			return "", core.ErrUnauthenticated
		}
		return "", errors.Wrap(err, "finding user by ID")
	}
	// check if user is still active
	if !usr.IsActive {
		return "", errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	teacherID, studentID, err := p.ids(ctx.Request().Context(), usr)
	if err != nil {
		return "", err
	}
	token, err := GenerateToken(conf, GetUserClaims(conf, usr, teacherID, studentID, claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}
