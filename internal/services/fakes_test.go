package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"eventtracks/internal/domain"
	"eventtracks/internal/retry"
)

// fakeAPI is an in-memory EventsAPI. Each method pops the next queued result;
// the last one repeats. Unconfigured methods succeed with no data.
type fakeAPI struct {
	mu       sync.Mutex
	results  map[string][]domain.Result
	calls    []string
	requests map[string][]any

	// when set, calls signal entered and wait for release.
	entered chan struct{}
	release chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		results:  make(map[string][]domain.Result),
		requests: make(map[string][]any),
	}
}

func (f *fakeAPI) on(method string, results ...domain.Result) *fakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[method] = append(f.results[method], results...)
	return f
}

func (f *fakeAPI) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeAPI) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeAPI) lastRequest(method string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	reqs := f.requests[method]
	if len(reqs) == 0 {
		return nil
	}
	return reqs[len(reqs)-1]
}

func (f *fakeAPI) record(ctx context.Context, method string, req any) domain.Result {
	if f.entered != nil {
		f.entered <- struct{}{}
		select {
		case <-f.release:
		case <-ctx.Done():
			return domain.Fail(ctx.Err())
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, method)
	f.requests[method] = append(f.requests[method], req)
	queue := f.results[method]
	switch len(queue) {
	case 0:
		return domain.Succeed(nil)
	case 1:
		return queue[0]
	default:
		f.results[method] = queue[1:]
		return queue[0]
	}
}

func (f *fakeAPI) ListEventTracks(ctx context.Context) domain.Result {
	return f.record(ctx, "ListEventTracks", nil)
}

func (f *fakeAPI) ListEvents(ctx context.Context) domain.Result {
	return f.record(ctx, "ListEvents", nil)
}

func (f *fakeAPI) ListFeedbacks(ctx context.Context) domain.Result {
	return f.record(ctx, "ListFeedbacks", nil)
}

func (f *fakeAPI) FullData(ctx context.Context) domain.Result {
	return f.record(ctx, "FullData", nil)
}

func (f *fakeAPI) GetEventTrack(ctx context.Context, id int64) domain.Result {
	return f.record(ctx, "GetEventTrack", id)
}

func (f *fakeAPI) GetEvent(ctx context.Context, id int64) domain.Result {
	return f.record(ctx, "GetEvent", id)
}

func (f *fakeAPI) CreateEventTrack(ctx context.Context, req domain.CreateEventTrackRequest) domain.Result {
	return f.record(ctx, "CreateEventTrack", req)
}

func (f *fakeAPI) CreateEvent(ctx context.Context, req domain.CreateEventRequest) domain.Result {
	return f.record(ctx, "CreateEvent", req)
}

func (f *fakeAPI) SendFeedback(ctx context.Context, req domain.FeedbackRequest) domain.Result {
	return f.record(ctx, "SendFeedback", req)
}

func (f *fakeAPI) EditEventTrack(ctx context.Context, patch domain.EventTrackPatch) domain.Result {
	return f.record(ctx, "EditEventTrack", patch)
}

func (f *fakeAPI) EditEvent(ctx context.Context, patch domain.EventPatch) domain.Result {
	return f.record(ctx, "EditEvent", patch)
}

func (f *fakeAPI) DeleteFeedback(ctx context.Context, id int64) domain.Result {
	return f.record(ctx, "DeleteFeedback", id)
}

func (f *fakeAPI) DeleteEvent(ctx context.Context, id int64) domain.Result {
	return f.record(ctx, "DeleteEvent", id)
}

func (f *fakeAPI) DeleteEventTrack(ctx context.Context, id int64) domain.Result {
	return f.record(ctx, "DeleteEventTrack", id)
}

// fakeEncoder maps local refs to a fixed data URI, or fails.
type fakeEncoder struct {
	mu    sync.Mutex
	err   error
	calls []domain.ImageRef
}

func (e *fakeEncoder) Encode(_ context.Context, ref domain.ImageRef) (domain.ImageRef, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, ref)
	if e.err != nil {
		return "", e.err
	}
	return domain.ImageRef("data:image/png;base64,ENC"), nil
}

type recordedSleeps struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func newDeps(api *fakeAPI, enc *fakeEncoder, sleeps *recordedSleeps) Deps {
	d := Deps{
		API:     api,
		Retry:   retry.Policy{MaxRetries: 2, InitialDelay: 10 * time.Millisecond},
		Timeout: 5 * time.Second,
	}
	if enc != nil {
		d.Images = enc
	}
	if sleeps != nil {
		d.Sleeper = sleeps.sleep
	}
	return d
}

func httpFail(status int, msg string) domain.Result {
	return domain.Fail(&domain.HTTPError{Status: status, Message: msg})
}

func networkFail() domain.Result {
	return domain.Fail(errors.Join(domain.ErrNetwork, errors.New("connection refused")))
}

func ptr[T any](v T) *T { return &v }
