package llm

import (
	"context"
	"time"

	"resume-engine/internal/shared/telemetry"
)

// DefaultRetryDelay is the pause before a transport retry.
const DefaultRetryDelay = 300 * time.Millisecond

// Attempt describes one provider call made by Retrying.
type Attempt struct {
	Number   int
	Request  Request
	Response Response
	Err      error
	Latency  time.Duration
}

// Retrying calls Base and, when Retries is positive, repeats the call after transient
// transport failures up to Retries more times. The zero value of Retries makes exactly
// one attempt. OnAttempt, when set, observes every call so callers can account for
// each attempt separately.
type Retrying struct {
	Base      Client
	Retries   int
	Delay     time.Duration
	OnAttempt func(Attempt)
}

func (r *Retrying) Provider() string {
	return r.Base.Provider()
}

func (r *Retrying) Complete(ctx context.Context, req Request) (Response, error) {
	resp, err := r.call(ctx, req, 1)
	for n := 2; n <= r.Retries+1; n++ {
		if err == nil || !IsTransient(err) {
			return resp, err
		}
		telemetry.Warn("llm.retry", map[string]any{
			"provider": r.Base.Provider(),
			"model":    req.Model,
			"attempt":  n - 1,
			"err":      err,
		})
		select {
		case <-time.After(r.Delay):
		case <-ctx.Done():
			return Response{}, ctx.Err()
		}
		resp, err = r.call(ctx, req, n)
	}
	return resp, err
}

func (r *Retrying) call(ctx context.Context, req Request, n int) (Response, error) {
	start := time.Now()
	resp, err := r.Base.Complete(ctx, req)
	if r.OnAttempt != nil {
		r.OnAttempt(Attempt{Number: n, Request: req, Response: resp, Err: err, Latency: time.Since(start)})
	}
	return resp, err
}

var _ Client = (*Retrying)(nil)
