// Package logsvc implements core.Logger on top of zap, Rollbar and Sentry.
package logsvc

import (
	"github.com/sudais-khan12/LMS-sub002/core/access"
	"github.com/sudais-khan12/LMS-sub002/core/user"
)

type person struct {
	ID       string
	Username string
	Email    string
}

// parsed holds the args given to a core.Logger method.
// expected: error, map[string]interface{}, user.User | access.Actor
type parsed struct {
	errs   []error
	extras map[string]interface{}
	person *person
	rest   []interface{}
}

func parseArgs(args []interface{}) parsed {
	var p parsed
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case error:
			p.errs = append(p.errs, v)
		case map[string]interface{}:
			if p.extras == nil {
				p.extras = make(map[string]interface{}, len(v))
			}
			for k, val := range v {
				p.extras[k] = val
			}
		case user.User:
			if p.person == nil {
				p.person = &person{ID: v.ID, Username: v.Username, Email: v.Email}
			}
		case access.Actor:
			if p.person == nil {
				p.person = &person{ID: v.UserID, Email: v.Email}
			}
		default:
			p.rest = append(p.rest, v)
		}
	}
	return p
}
