// Package throttle vetoes logins for accounts with too many recent
// attempts. The guard registers as an authorisation listener, so it runs
// on the broadcast after authentication and returns DENIED verdicts
// instead of dropping requests.
package throttle

import (
	"context"
	"errors"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/go-authgate/authchain/core"
)

// Guard rate-limits authorisation verdicts per username.
type Guard struct {
	limiter *limiter.Limiter
}

// New creates a guard allowing limit attempts per period for each
// username, tracked in memory.
func New(limit int64, period time.Duration) *Guard {
	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}
	return &Guard{limiter: limiter.New(memory.NewStore(), rate)}
}

// Authorise is a registry.HandlerFunc for the user authorisation event.
// It returns a StatusDenied verdict once the attempt budget for the
// username is exhausted, StatusSuccess otherwise.
func (g *Guard) Authorise(ctx context.Context, args ...any) (any, error) {
	if len(args) < 1 {
		return nil, errors.New("authorisation expects a *core.Response first arg")
	}
	resp, ok := args[0].(*core.Response)
	if !ok {
		return nil, errors.New("authorisation expects a *core.Response first arg")
	}

	lctx, err := g.limiter.Get(ctx, "login:"+resp.Username)
	if err != nil {
		return nil, err
	}

	verdict := &core.Response{Username: resp.Username}
	if lctx.Reached {
		verdict.Status = core.StatusDenied
		verdict.Message = "too many login attempts"
	} else {
		verdict.Status = core.StatusSuccess
	}
	return verdict, nil
}
