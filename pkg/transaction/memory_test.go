package transaction_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klinehq/communication/pkg/transaction"
)

func emailSnapshot() transaction.Snapshot {
	return transaction.Snapshot{
		Channel:   "email",
		Recipient: "user@example.com",
		Subject:   "Hi",
		Body:      "<p>hello</p>",
	}
}

func TestMemoryRecorder_Begin(t *testing.T) {
	t.Parallel()

	rec, err := transaction.NewMemoryRecorder().Begin(context.Background(), "alice", emailSnapshot())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, transaction.StatusPending, rec.Status)
	assert.Equal(t, "alice", rec.Owner)
	assert.Equal(t, "user@example.com", rec.Recipient)
	assert.Empty(t, rec.StatusDetail)
	assert.Nil(t, rec.CompletedAt)
}

func TestMemoryRecorder_BeginWritesAuditEntry(t *testing.T) {
	t.Parallel()

	recorder := transaction.NewMemoryRecorder()
	rec, err := recorder.Begin(context.Background(), "alice", emailSnapshot())
	require.NoError(t, err)

	entries := recorder.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, rec.ID, entries[0].RecordID)
	assert.Equal(t, "email", entries[0].Kind)
	assert.Equal(t, transaction.StatusPending, entries[0].Status)
}

func TestMemoryRecorder_Complete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	recorder := transaction.NewMemoryRecorder()
	rec, err := recorder.Begin(ctx, "alice", emailSnapshot())
	require.NoError(t, err)

	require.NoError(t, recorder.Complete(ctx, rec, transaction.StatusFail, "smtp down"))
	assert.Equal(t, transaction.StatusFail, rec.Status)
	assert.Equal(t, "smtp down", rec.StatusDetail)
	assert.NotNil(t, rec.CompletedAt)

	stored, err := recorder.Find(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, transaction.StatusFail, stored.Status)

	entries := recorder.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, transaction.StatusFail, entries[0].Status)
	assert.Equal(t, "smtp down", entries[0].StatusDetail)
}

func TestMemoryRecorder_CompleteNilRecordIsNoop(t *testing.T) {
	t.Parallel()

	recorder := transaction.NewMemoryRecorder()
	assert.NoError(t, recorder.Complete(context.Background(), nil, transaction.StatusSuccess, ""))
	assert.Empty(t, recorder.All())
}

func TestMemoryRecorder_CompleteGuards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	recorder := transaction.NewMemoryRecorder()
	rec, err := recorder.Begin(ctx, "alice", emailSnapshot())
	require.NoError(t, err)

	assert.ErrorIs(t,
		recorder.Complete(ctx, rec, transaction.StatusPending, ""),
		transaction.ErrNotTerminalStatus)

	require.NoError(t, recorder.Complete(ctx, rec, transaction.StatusSuccess, ""))
	assert.ErrorIs(t,
		recorder.Complete(ctx, rec, transaction.StatusFail, "late"),
		transaction.ErrAlreadyCompleted)
}

func TestMemoryRecorder_ListByOwner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	recorder := transaction.NewMemoryRecorder()

	_, err := recorder.Begin(ctx, "alice", emailSnapshot())
	require.NoError(t, err)
	_, err = recorder.Begin(ctx, "bob", emailSnapshot())
	require.NoError(t, err)
	_, err = recorder.Begin(ctx, "alice", emailSnapshot())
	require.NoError(t, err)

	records, err := recorder.ListByOwner(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	limited, err := recorder.ListByOwner(ctx, "alice", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryRecorder_FindMissing(t *testing.T) {
	t.Parallel()

	_, err := transaction.NewMemoryRecorder().Find(context.Background(), uuid.New())
	assert.ErrorIs(t, err, transaction.ErrRecordNotFound)
}

func TestStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.False(t, transaction.StatusPending.Terminal())
	assert.True(t, transaction.StatusSuccess.Terminal())
	assert.True(t, transaction.StatusFail.Terminal())
}
