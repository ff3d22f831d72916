package orchestrator_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/console/client"
	"github.com/yigit/schooladmin/internal/console/notify"
	"github.com/yigit/schooladmin/internal/console/orchestrator"
	"github.com/yigit/schooladmin/internal/console/resources"
	"github.com/yigit/schooladmin/internal/console/store"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
	"github.com/yigit/schooladmin/internal/testutil/apitest"
)

type subjectConsole = orchestrator.Orchestrator[models.Subject, dto.CreateSubjectRequest, dto.UpdateSubjectRequest]

type messages struct {
	mu  sync.Mutex
	all []notify.Message
}

func (m *messages) Notify(msg notify.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.all = append(m.all, msg)
}

func (m *messages) take() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.all
	m.all = nil
	return out
}

func newSubjectConsole(t *testing.T) (*subjectConsole, *messages) {
	t.Helper()
	ctx := context.Background()
	env := apitest.New(t)

	c := client.New(env.Server.URL)
	_, err := c.Login(ctx, apitest.AdminEmail, apitest.AdminPassword)
	require.NoError(t, err)

	d := resources.Subjects()
	sink := &messages{}
	o := orchestrator.New[models.Subject](
		store.New[models.Subject](),
		client.NewResource[models.Subject, dto.CreateSubjectRequest, dto.UpdateSubjectRequest](c, d.Path),
		orchestrator.Options[dto.CreateSubjectRequest, dto.UpdateSubjectRequest]{
			ValidateCreate: d.ValidateCreate,
			ValidateUpdate: d.ValidateUpdate,
			Bridge:         notify.NewBridge(sink),
		},
	)
	require.NoError(t, o.Refresh(ctx).Wait())
	o.Wait()
	return o, sink
}

func TestCreateThenDuplicateName(t *testing.T) {
	ctx := context.Background()
	o, sink := newSubjectConsole(t)
	before := len(o.Store().Items())

	p, err := o.Create(ctx, dto.CreateSubjectRequest{Name: "Algorithms", Credits: 3})
	require.NoError(t, err)
	require.NoError(t, p.Wait())
	o.Wait()

	assert.Len(t, o.Store().Items(), before+1)
	assert.Equal(t, []notify.Message{{Level: notify.LevelSuccess, Text: "Created successfully"}}, sink.take())

	p, err = o.Create(ctx, dto.CreateSubjectRequest{Name: "Algorithms", Credits: 3})
	require.NoError(t, err)
	err = p.Wait()
	o.Wait()

	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Len(t, o.Store().Items(), before+1)
	assert.Equal(t, store.StatusFailed, o.Store().Status())
	msgs := sink.take()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.LevelError, msgs[0].Level)
	assert.Equal(t, err.Error(), msgs[0].Text)
}

func TestDeleteSameIDTwice(t *testing.T) {
	ctx := context.Background()
	o, sink := newSubjectConsole(t)

	p, err := o.Create(ctx, dto.CreateSubjectRequest{Name: "Databases", Credits: 5})
	require.NoError(t, err)
	require.NoError(t, p.Wait())
	o.Wait()
	sink.take()

	items := o.Store().Items()
	require.Len(t, items, 1)
	id := items[0].ID

	p, err = o.Delete(ctx, id)
	require.NoError(t, err)
	require.NoError(t, p.Wait())
	o.Wait()
	assert.Empty(t, o.Store().Items())
	assert.Equal(t, []notify.Message{{Level: notify.LevelSuccess, Text: "Deleted successfully"}}, sink.take())

	p, err = o.Delete(ctx, id)
	require.NoError(t, err)
	err = p.Wait()
	o.Wait()
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Equal(t, orchestrator.StateFailed, o.LastResult())
	msgs := sink.take()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.LevelError, msgs[0].Level)
}

func TestInvalidInputNeverLeavesTheConsole(t *testing.T) {
	o, sink := newSubjectConsole(t)

	p, err := o.Create(context.Background(), dto.CreateSubjectRequest{Name: "Algorithms"})
	assert.Nil(t, p)
	assert.Equal(t, "credits", apperrors.FieldOf(err))
	assert.Equal(t, orchestrator.StateIdle, o.State())
	assert.Empty(t, sink.take())
}
