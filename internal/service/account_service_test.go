package service

import (
	"context"
	"testing"

	dom "github.com/kntgio-z/test-repo/internal/domain"
	"github.com/kntgio-z/test-repo/internal/repo/memrepo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*AccountService, *memrepo.MemAccountRepo) {
	t.Helper()
	r := memrepo.New()
	return NewAccountService(r, nil), r
}

func strPtr(s string) *string { return &s }

func TestCreateThenGetReturnsUsername(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)
	require.NotZero(t, id)

	u, err := svc.GetUsername(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", u)
}

func TestCreateDuplicateUsernameConflicts(t *testing.T) {
	svc, r := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "alice", "other")
	assert.ErrorIs(t, err, dom.ErrDuplicateUsername)
	assert.Equal(t, 1, r.Len(), "no duplicate row may be stored")
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetUsername(context.Background(), 42)
	assert.ErrorIs(t, err, dom.ErrNotFound)
}

func TestGetIsIdempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		u, err := svc.GetUsername(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "alice", u)
	}
}

func TestUpdateSameUsernameConflicts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)

	err = svc.Update(ctx, id, strPtr("alice"), nil)
	assert.ErrorIs(t, err, dom.ErrSameUsername)

	u, err := svc.GetUsername(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", u, "rejected edit must leave storage unchanged")
}

func TestUpdateSamePasswordConflicts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)

	err = svc.Update(ctx, id, nil, strPtr("secret"))
	assert.ErrorIs(t, err, dom.ErrSamePassword)
}

func TestUpdateTrimsBeforeComparison(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)

	// Whitespace padding does not turn a no-op edit into a real one.
	err = svc.Update(ctx, id, strPtr("  alice  "), nil)
	assert.ErrorIs(t, err, dom.ErrSameUsername)
}

func TestUpdateChangesSuppliedFieldsOnly(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, id, strPtr("bob"), nil))

	u, err := svc.GetUsername(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bob", u)

	// Password unchanged: deleting with the original password succeeds.
	assert.NoError(t, svc.Delete(ctx, id, "secret"))
}

func TestUpdateWithoutFieldsIsRejected(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)

	err = svc.Update(ctx, id, nil, nil)
	assert.ErrorIs(t, err, ErrNothingToUpdate)
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newService(t)

	err := svc.Update(context.Background(), 42, strPtr("bob"), nil)
	assert.ErrorIs(t, err, dom.ErrNotFound)
}

func TestDeleteWrongPasswordIsNotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)

	err = svc.Delete(ctx, id, "wrong")
	assert.ErrorIs(t, err, dom.ErrNotFound)

	u, err := svc.GetUsername(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", u, "row must survive a failed deletion")
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id, "secret"))

	_, err = svc.GetUsername(ctx, id)
	assert.ErrorIs(t, err, dom.ErrNotFound)
}

func TestPressureReturnsIdenticalRowsInOrder(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// Pressure always selects id 1, so the first created account is the target.
	id, err := svc.Create(ctx, "alice", "secret")
	require.NoError(t, err)
	require.EqualValues(t, 1, id)

	for _, parallel := range []bool{false, true} {
		list, err := svc.Pressure(ctx, 5, parallel)
		require.NoError(t, err)
		require.Len(t, list, 5)
		for _, u := range list {
			assert.Equal(t, "alice", u)
		}
	}
}

func TestPressureZeroIssuesNoQueries(t *testing.T) {
	svc, r := newService(t)

	list, err := svc.Pressure(context.Background(), 0, false)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, r.Queries())
}

func TestPressureMissingTargetIsNotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Pressure(context.Background(), 3, false)
	assert.ErrorIs(t, err, dom.ErrNotFound)
}
