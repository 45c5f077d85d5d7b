package source

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zee-1/TheSnitchBot-sub001/internal/leak"
)

func TestRecentReturnsOldestFirst(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"message_id", "channel_id", "author_id", "author_name", "is_bot", "content", "mentions", "created_at",
	}).
		AddRow("m2", "general", "user-2", "Riley", false, "second message content", []byte(`[]`), now).
		AddRow("m1", "general", "user-1", "Casey", false, "first message content", []byte(`["user-2"]`), now.Add(-time.Minute))

	mock.ExpectQuery("SELECT message_id").
		WithArgs("community-1", 200).
		WillReturnRows(rows)

	store := NewMessageStore(db, 0)
	messages, err := store.Recent(context.Background(), "community-1", "", 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "m1", messages[0].ID)
	assert.Equal(t, "m2", messages[1].ID)
	assert.Equal(t, []string{"user-2"}, messages[0].Mentions)
	assert.Equal(t, "Casey", messages[0].AuthorName)
	assert.False(t, messages[0].Bot)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentScopedToChannel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"message_id", "channel_id", "author_id", "author_name", "is_bot", "content", "mentions", "created_at",
	})
	mock.ExpectQuery("SELECT message_id").
		WithArgs("community-1", "memes", 50).
		WillReturnRows(rows)

	store := NewMessageStore(db, 0)
	messages, err := store.Recent(context.Background(), "community-1", "memes", 50)
	require.NoError(t, err)
	assert.Empty(t, messages)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertPrunesExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO snitch.community_messages").
		WithArgs("m1", "community-1", "general", "user-1", "Casey", false, "hello there everyone", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM snitch.community_messages").
		WithArgs("community-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	store := NewMessageStore(db, 24*time.Hour)
	err = store.Insert(context.Background(), "community-1", []leak.Message{
		{
			ID:         "m1",
			AuthorID:   "user-1",
			AuthorName: "Casey",
			ChannelID:  "general",
			Content:    "hello there everyone",
			CreatedAt:  time.Now().UTC(),
		},
	})
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO snitch.community_messages").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	store := NewMessageStore(db, 24*time.Hour)
	err = store.Insert(context.Background(), "community-1", []leak.Message{{ID: "m1"}})
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUnavailable(t *testing.T) {
	var store *MessageStore
	_, err := store.Recent(context.Background(), "community-1", "", 10)
	assert.Error(t, err)
	assert.Error(t, store.Insert(context.Background(), "community-1", nil))
}
