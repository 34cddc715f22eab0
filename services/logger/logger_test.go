package logsvc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

func Test_parseArgs(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")
	usr := user.User{ID: "u1", Username: "ada", Email: "ada@test.lms"}
	actor := access.Actor{UserID: "u2", Email: "bob@test.lms"}

	got := parseArgs([]interface{}{
		errA, nil, map[string]interface{}{"k": 1}, actor, usr, map[string]interface{}{"j": "x"}, errB, 42,
	})
	assert.Equal(t, []error{errA, errB}, got.errs)
	assert.Equal(t, map[string]interface{}{"k": 1, "j": "x"}, got.extras)
	assert.Equal(t, &person{ID: "u2", Email: "bob@test.lms"}, got.person)
	assert.Equal(t, []interface{}{42}, got.rest)

	assert.Equal(t, parsed{}, parseArgs(nil))
}

func TestZapLogger_fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &ZapLogger{base: zap.New(core), Level: zap.NewAtomicLevelAt(zap.DebugLevel)}

	l.Error("grading failed", errors.New("boom"), map[string]interface{}{"submissionId": "s1"}, access.Actor{UserID: "u1"})
	l.Info("plain")

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 2) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "grading failed", entries[0].Message)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "boom", ctx["error"])
		assert.Equal(t, "s1", ctx["submissionId"])
		assert.Equal(t, "u1", ctx["userId"])
		assert.Empty(t, entries[1].ContextMap())
	}
}
