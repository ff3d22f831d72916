package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schooladmin/internal/console/notify"
	"github.com/yigit/schooladmin/internal/console/store"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
)

type course struct {
	ID         int64
	SemesterID int64
}

func (c course) GetID() int64 { return c.ID }

type patch struct {
	SemesterID int64
}

// fakeGateway serves an in-memory collection. A List call snapshots the rows
// when it starts and then waits on the next queued gate, if any.
type fakeGateway struct {
	mu        sync.Mutex
	rows      []course
	nextID    int64
	gates     []chan struct{}
	listed    chan struct{}
	listCalls int
	hold      chan struct{}
	err       error
	// reply, when set, holds a mutation's response after it has been committed.
	// committed is signalled at that point.
	reply     chan struct{}
	committed chan struct{}
}

func newFakeGateway(rows ...course) *fakeGateway {
	return &fakeGateway{rows: rows, nextID: 100, listed: make(chan struct{}, 16)}
}

func (g *fakeGateway) gateNextList() chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	gate := make(chan struct{})
	g.gates = append(g.gates, gate)
	return gate
}

func (g *fakeGateway) List(ctx context.Context) ([]course, error) {
	g.mu.Lock()
	g.listCalls++
	rows := append([]course(nil), g.rows...)
	var gate chan struct{}
	if len(g.gates) > 0 {
		gate, g.gates = g.gates[0], g.gates[1:]
	}
	g.mu.Unlock()

	g.listed <- struct{}{}
	if gate != nil {
		<-gate
	}
	return rows, nil
}

func (g *fakeGateway) wait() error {
	g.mu.Lock()
	hold, err := g.hold, g.err
	g.mu.Unlock()
	if hold != nil {
		<-hold
	}
	return err
}

func (g *fakeGateway) holdReply() chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reply = make(chan struct{})
	g.committed = make(chan struct{}, 1)
	return g.reply
}

func (g *fakeGateway) respond() {
	g.mu.Lock()
	reply, committed := g.reply, g.committed
	g.mu.Unlock()
	if reply != nil {
		committed <- struct{}{}
		<-reply
	}
}

func (g *fakeGateway) Create(ctx context.Context, body patch) (course, error) {
	if err := g.wait(); err != nil {
		return course{}, err
	}
	g.mu.Lock()
	g.nextID++
	c := course{ID: g.nextID, SemesterID: body.SemesterID}
	g.rows = append(g.rows, c)
	g.mu.Unlock()
	g.respond()
	return c, nil
}

func (g *fakeGateway) Update(ctx context.Context, id int64, p patch) (course, error) {
	if err := g.wait(); err != nil {
		return course{}, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.rows {
		if g.rows[i].ID == id {
			g.rows[i].SemesterID = p.SemesterID
			return g.rows[i], nil
		}
	}
	return course{}, apperrors.NewResourceNotFoundError("Course not found")
}

func (g *fakeGateway) Delete(ctx context.Context, id int64) error {
	if err := g.wait(); err != nil {
		return err
	}
	g.mu.Lock()
	for i := range g.rows {
		if g.rows[i].ID == id {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			g.mu.Unlock()
			g.respond()
			return nil
		}
	}
	g.mu.Unlock()
	return apperrors.NewResourceNotFoundError("Course not found")
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listCalls
}

type recorder struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recorder) Notify(m notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

func (r *recorder) messages() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.msgs...)
}

func newOrchestrator(gw *fakeGateway, opts Options[patch, patch]) (*Orchestrator[course, patch, patch], *recorder) {
	rec := &recorder{}
	opts.Bridge = notify.NewBridge(rec)
	return New[course](store.New[course](), gw, opts), rec
}

func loaded(t *testing.T, o *Orchestrator[course, patch, patch]) {
	t.Helper()
	require.NoError(t, o.Refresh(context.Background()).Wait())
	o.Wait()
}

func TestUpdateWinsOverStaleFetch(t *testing.T) {
	gw := newFakeGateway(course{ID: 7, SemesterID: 1}, course{ID: 8, SemesterID: 1})
	o, rec := newOrchestrator(gw, Options[patch, patch]{})
	loaded(t, o)
	<-gw.listed

	gate := gw.gateNextList()
	stale := o.Refresh(context.Background())
	<-gw.listed // the stale fetch has captured the old rows

	p, err := o.Update(context.Background(), 7, patch{SemesterID: 2})
	require.NoError(t, err)
	require.NoError(t, p.Wait())

	close(gate)
	assert.ErrorIs(t, stale.Wait(), ErrStale)
	o.Wait()

	assert.Equal(t, []course{{ID: 7, SemesterID: 2}, {ID: 8, SemesterID: 1}}, o.Store().Items())
	assert.Equal(t, store.StatusSucceeded, o.Store().Status())
	assert.Equal(t, StateSucceeded, o.LastResult())
	assert.Equal(t, []notify.Message{{Level: notify.LevelSuccess, Text: "Updated successfully"}}, rec.messages())
}

func TestOnlyNewestFetchApplies(t *testing.T) {
	gw := newFakeGateway(course{ID: 1, SemesterID: 1})
	o, _ := newOrchestrator(gw, Options[patch, patch]{})

	gate := gw.gateNextList()
	first := o.Refresh(context.Background())
	<-gw.listed

	gw.mu.Lock()
	gw.rows = append(gw.rows, course{ID: 2, SemesterID: 1})
	gw.mu.Unlock()

	second := o.Refresh(context.Background())
	<-gw.listed
	require.NoError(t, second.Wait())

	close(gate)
	assert.ErrorIs(t, first.Wait(), ErrStale)
	assert.Len(t, o.Store().Items(), 2)
}

func TestCreateAppliesAndNotifiesOnce(t *testing.T) {
	gw := newFakeGateway()
	o, rec := newOrchestrator(gw, Options[patch, patch]{})
	loaded(t, o)

	p, err := o.Create(context.Background(), patch{SemesterID: 3})
	require.NoError(t, err)
	require.NoError(t, p.Wait())
	o.Wait()

	assert.Equal(t, []course{{ID: 101, SemesterID: 3}}, o.Store().Items())
	assert.Equal(t, StateIdle, o.State())
	assert.Equal(t, 2, gw.calls(), "a successful mutation triggers a refresh")
	assert.Equal(t, []notify.Message{{Level: notify.LevelSuccess, Text: "Created successfully"}}, rec.messages())
	assert.Equal(t, store.OutcomeNone, o.Store().ConsumeMutationNotice())
}

func TestFetchBeforeMutationReplyStillNotifies(t *testing.T) {
	tests := []struct {
		name    string
		rows    []course
		submit  func(o *Orchestrator[course, patch, patch]) (*Pending, error)
		want    []course
		message string
	}{
		{
			name: "create",
			submit: func(o *Orchestrator[course, patch, patch]) (*Pending, error) {
				return o.Create(context.Background(), patch{SemesterID: 3})
			},
			want:    []course{{ID: 101, SemesterID: 3}},
			message: "Created successfully",
		},
		{
			name: "delete",
			rows: []course{{ID: 5, SemesterID: 1}, {ID: 6, SemesterID: 1}},
			submit: func(o *Orchestrator[course, patch, patch]) (*Pending, error) {
				return o.Delete(context.Background(), 5)
			},
			want:    []course{{ID: 6, SemesterID: 1}},
			message: "Deleted successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway(tt.rows...)
			o, rec := newOrchestrator(gw, Options[patch, patch]{})
			loaded(t, o)

			reply := gw.holdReply()
			p, err := tt.submit(o)
			require.NoError(t, err)
			<-gw.committed

			// A fetch started now already sees the committed change.
			require.NoError(t, o.Refresh(context.Background()).Wait())
			assert.Equal(t, tt.want, o.Store().Items())

			close(reply)
			require.NoError(t, p.Wait())
			o.Wait()

			assert.Equal(t, tt.want, o.Store().Items())
			assert.Equal(t, store.StatusSucceeded, o.Store().Status())
			assert.Equal(t, StateSucceeded, o.LastResult())
			assert.Equal(t, []notify.Message{{Level: notify.LevelSuccess, Text: tt.message}}, rec.messages())
		})
	}
}

func TestBusyWhileSubmitting(t *testing.T) {
	gw := newFakeGateway()
	hold := make(chan struct{})
	gw.hold = hold
	o, _ := newOrchestrator(gw, Options[patch, patch]{})

	p, err := o.Create(context.Background(), patch{SemesterID: 1})
	require.NoError(t, err)
	assert.Equal(t, StateSubmitting, o.State())

	_, err = o.Create(context.Background(), patch{SemesterID: 1})
	assert.ErrorIs(t, err, apperrors.ErrBusy)
	_, err = o.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrBusy)

	close(hold)
	require.NoError(t, p.Wait())
	o.Wait()
	assert.Len(t, o.Store().Items(), 1)
}

func TestClientValidationStopsBeforeSubmit(t *testing.T) {
	gw := newFakeGateway()
	invalid := apperrors.NewValidationError("semesterId", "Semester is required")
	o, rec := newOrchestrator(gw, Options[patch, patch]{
		ValidateCreate: func(p patch) error {
			if p.SemesterID == 0 {
				return invalid
			}
			return nil
		},
	})

	p, err := o.Create(context.Background(), patch{})
	assert.Nil(t, p)
	assert.Equal(t, "semesterId", apperrors.FieldOf(err))
	assert.Equal(t, StateIdle, o.State())
	assert.Equal(t, store.StatusIdle, o.Store().Status())
	assert.Zero(t, gw.calls())
	assert.Empty(t, rec.messages())
}

func TestFailureHandling(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   store.Status
		wantMessages []notify.Message
		wantAuth     bool
	}{
		{
			name:       "server validation stays inline",
			err:        apperrors.NewValidationError("name", "Name is required"),
			wantStatus: store.StatusSucceeded,
		},
		{
			name:       "expired credential asks for login",
			err:        apperrors.NewAuthorizationError("Token has expired"),
			wantStatus: store.StatusSucceeded,
			wantAuth:   true,
		},
		{
			name:         "conflict",
			err:          apperrors.NewConflictError("name", "Algorithms", "Subject with this name already exists"),
			wantStatus:   store.StatusFailed,
			wantMessages: []notify.Message{{Level: notify.LevelError, Text: "Subject with this name already exists"}},
		},
		{
			name:         "network",
			err:          apperrors.NewNetworkError(errors.New("connection refused")),
			wantStatus:   store.StatusFailed,
			wantMessages: []notify.Message{{Level: notify.LevelError, Text: "Network error, please try again"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newFakeGateway(course{ID: 1, SemesterID: 1})
			var authErr error
			o, rec := newOrchestrator(gw, Options[patch, patch]{
				OnUnauthorized: func(err error) { authErr = err },
			})
			loaded(t, o)
			gw.err = tt.err

			p, err := o.Create(context.Background(), patch{SemesterID: 2})
			require.NoError(t, err)
			assert.Equal(t, tt.err, p.Wait())
			o.Wait()

			assert.Equal(t, tt.wantStatus, o.Store().Status())
			assert.Equal(t, []course{{ID: 1, SemesterID: 1}}, o.Store().Items())
			assert.Equal(t, tt.wantMessages, rec.messages())
			assert.Equal(t, tt.wantAuth, authErr != nil)
			assert.Equal(t, StateIdle, o.State())
			assert.Equal(t, StateFailed, o.LastResult())
		})
	}
}

func TestNotFoundRefreshesStaleRow(t *testing.T) {
	gw := newFakeGateway(course{ID: 5, SemesterID: 1}, course{ID: 6, SemesterID: 1})
	o, rec := newOrchestrator(gw, Options[patch, patch]{})
	loaded(t, o)

	// Another client removes the row behind our back.
	gw.mu.Lock()
	gw.rows = gw.rows[1:]
	gw.mu.Unlock()

	p, err := o.Update(context.Background(), 5, patch{SemesterID: 2})
	require.NoError(t, err)
	assert.ErrorIs(t, p.Wait(), apperrors.ErrResourceNotFound)
	o.Wait()

	assert.Equal(t, []course{{ID: 6, SemesterID: 1}}, o.Store().Items())
	assert.Equal(t, store.StatusSucceeded, o.Store().Status())
	assert.Equal(t, []notify.Message{{Level: notify.LevelError, Text: "Course not found"}}, rec.messages())
}

func TestDeleteTwice(t *testing.T) {
	gw := newFakeGateway(course{ID: 5, SemesterID: 1})
	o, rec := newOrchestrator(gw, Options[patch, patch]{})
	loaded(t, o)

	p, err := o.Delete(context.Background(), 5)
	require.NoError(t, err)
	require.NoError(t, p.Wait())
	o.Wait()
	assert.Empty(t, o.Store().Items())

	p, err = o.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(p.Wait()))
	o.Wait()

	assert.Equal(t, []notify.Message{
		{Level: notify.LevelSuccess, Text: "Deleted successfully"},
		{Level: notify.LevelError, Text: "Course not found"},
	}, rec.messages())
}

func TestPendingDone(t *testing.T) {
	gw := newFakeGateway()
	o, _ := newOrchestrator(gw, Options[patch, patch]{})
	p := o.Refresh(context.Background())
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not complete")
	}
	assert.NoError(t, p.Wait())
}
