package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/soyeahso/moodai/internal/domain"
	"github.com/soyeahso/moodai/internal/logging"
	"github.com/soyeahso/moodai/internal/mood"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func record(id string, who domain.Identity, msg string, label mood.Label, score float64, at time.Time) domain.ChatRecord {
	return domain.ChatRecord{
		ID:          id,
		Identity:    who,
		UserMessage: msg,
		Reply:       "reply to " + msg,
		Mood:        label,
		Score:       score,
		Outcome:     domain.OutcomeSuccess,
		CreatedAt:   at,
	}
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db.SQL())
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/moodai.db"
	db, err := Open(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	require.NoError(t, db.Close())
	assert.FileExists(t, path)
}

func TestMigrations_Applied(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)

	v, err := db.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, migrations[len(migrations)-1].Version, v)
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.migrate())

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestSchema_TablesExist(t *testing.T) {
	db := testDB(t)

	for _, table := range []string{"chats", "chats_fts"} {
		var name string
		err := db.sql.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

// --- ChatStore tests ---

func TestChatStore_SaveAndGet(t *testing.T) {
	s := NewChatStore(testDB(t))
	ctx := context.Background()

	rec := record("c1", "u1", "I feel great", mood.Positive, 0.85, base)
	require.NoError(t, s.SaveChat(ctx, rec))

	got, err := s.Get(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestChatStore_SaveRejectsAnonymous(t *testing.T) {
	s := NewChatStore(testDB(t))
	err := s.SaveChat(context.Background(), record("c1", domain.Anonymous, "hi", mood.Neutral, 0.5, base))
	assert.Error(t, err)

	stats, err := s.Stats(context.Background(), domain.Anonymous)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalChats)
}

func TestChatStore_SaveDuplicateID(t *testing.T) {
	s := NewChatStore(testDB(t))
	ctx := context.Background()
	rec := record("c1", "u1", "hi", mood.Neutral, 0.5, base)
	require.NoError(t, s.SaveChat(ctx, rec))
	assert.Error(t, s.SaveChat(ctx, rec))
}

func TestChatStore_ListNewestFirst(t *testing.T) {
	s := NewChatStore(testDB(t))
	ctx := context.Background()

	for i := range 5 {
		rec := record(fmt.Sprintf("c%d", i), "u1", fmt.Sprintf("msg %d", i), mood.Neutral, 0.5, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.SaveChat(ctx, rec))
	}
	require.NoError(t, s.SaveChat(ctx, record("other", "u2", "elsewhere", mood.Neutral, 0.5, base)))

	chats, err := s.List(ctx, "u1", 3)
	require.NoError(t, err)
	require.Len(t, chats, 3)
	assert.Equal(t, "c4", chats[0].ID)
	assert.Equal(t, "c3", chats[1].ID)
	assert.Equal(t, "c2", chats[2].ID)

	all, err := s.List(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestChatStore_ListEmpty(t *testing.T) {
	s := NewChatStore(testDB(t))
	chats, err := s.List(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, chats)
}

func TestChatStore_Delete(t *testing.T) {
	s := NewChatStore(testDB(t))
	ctx := context.Background()
	require.NoError(t, s.SaveChat(ctx, record("c1", "u1", "hi", mood.Neutral, 0.5, base)))

	t.Run("foreign identity", func(t *testing.T) {
		assert.ErrorIs(t, s.Delete(ctx, "u2", "c1"), ErrNotFound)
	})

	t.Run("owner", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "u1", "c1"))
		_, err := s.Get(ctx, "u1", "c1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("already deleted", func(t *testing.T) {
		assert.ErrorIs(t, s.Delete(ctx, "u1", "c1"), ErrNotFound)
	})
}

func TestChatStore_Stats(t *testing.T) {
	s := NewChatStore(testDB(t))
	ctx := context.Background()

	recs := []domain.ChatRecord{
		record("c1", "u1", "wonderful day", mood.Positive, 0.9, base),
		record("c2", "u1", "so sad", mood.Negative, 0.2, base.Add(time.Minute)),
		record("c3", "u1", "nothing much", mood.Neutral, 0.5, base.Add(2*time.Minute)),
		record("c4", "u1", "great news", mood.Positive, 0.8, base.Add(3*time.Minute)),
		record("c5", "u2", "awful", mood.Negative, 0.1, base),
	}
	for _, r := range recs {
		require.NoError(t, s.SaveChat(ctx, r))
	}

	stats, err := s.Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalChats)
	assert.Equal(t, 2, stats.PositiveCount)
	assert.Equal(t, 1, stats.NegativeCount)
	assert.Equal(t, 1, stats.NeutralCount)
	assert.InDelta(t, 0.6, stats.AvgMoodScore, 1e-9)
}

func TestChatStore_StatsEmpty(t *testing.T) {
	s := NewChatStore(testDB(t))
	stats, err := s.Stats(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.MoodStats{}, stats)
}

func TestChatStore_Search(t *testing.T) {
	s := NewChatStore(testDB(t))
	ctx := context.Background()

	require.NoError(t, s.SaveChat(ctx, record("c1", "u1", "I cannot sleep at night", mood.Negative, 0.2, base)))
	require.NoError(t, s.SaveChat(ctx, record("c2", "u1", "work was fine", mood.Neutral, 0.5, base)))
	require.NoError(t, s.SaveChat(ctx, record("c3", "u2", "sleep is hard", mood.Negative, 0.2, base)))

	t.Run("matches own chats only", func(t *testing.T) {
		chats, err := s.Search(ctx, "u1", "sleep", 0)
		require.NoError(t, err)
		require.Len(t, chats, 1)
		assert.Equal(t, "c1", chats[0].ID)
	})

	t.Run("matches reply text", func(t *testing.T) {
		chats, err := s.Search(ctx, "u1", "reply work", 0)
		require.NoError(t, err)
		require.Len(t, chats, 1)
		assert.Equal(t, "c2", chats[0].ID)
	})

	t.Run("query syntax is literal", func(t *testing.T) {
		_, err := s.Search(ctx, "u1", `sleep" OR (night`, 0)
		assert.NoError(t, err)
	})

	t.Run("blank query", func(t *testing.T) {
		chats, err := s.Search(ctx, "u1", "   ", 0)
		require.NoError(t, err)
		assert.Empty(t, chats)
	})

	t.Run("deleted chats drop out", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "u1", "c1"))
		chats, err := s.Search(ctx, "u1", "sleep", 0)
		require.NoError(t, err)
		assert.Empty(t, chats)
	})
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"a" "b"`, ftsQuery(" a  b "))
	assert.Equal(t, `"say" """hi"""`, ftsQuery(`say "hi"`))
	assert.Equal(t, `"x""y"`, ftsQuery(`x"y`))
	assert.Empty(t, ftsQuery(""))
}
