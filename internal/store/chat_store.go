package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soyeahso/moodai/internal/domain"
	"github.com/soyeahso/moodai/internal/mood"
)

// Timestamps are stored in UTC with fixed-width fractions so that they sort
// lexically.
const timeLayout = "2006-01-02 15:04:05.000000"

const (
	defaultListLimit   = 50
	defaultSearchLimit = 20
)

// ChatStore is the chat log of authenticated identities.
type ChatStore struct {
	db *DB
}

// NewChatStore creates a chat store using the given database.
func NewChatStore(db *DB) *ChatStore {
	return &ChatStore{db: db}
}

// SaveChat stores one exchange. Records of the anonymous identity are rejected.
func (s *ChatStore) SaveChat(ctx context.Context, rec domain.ChatRecord) error {
	if rec.Identity.IsAnonymous() {
		return errors.New("store: anonymous chats are not persisted")
	}
	if rec.ID == "" {
		return errors.New("store: chat record has no id")
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := s.db.sql.ExecContext(ctx,
		`INSERT INTO chats (id, identity, user_message, reply, mood, score, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Identity), rec.UserMessage, rec.Reply,
		rec.Mood.String(), rec.Score, string(rec.Outcome),
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("saving chat %s: %w", rec.ID, err)
	}
	return nil
}

// List returns the identity's chats, newest first. A limit of 0 defaults to 50.
func (s *ChatStore) List(ctx context.Context, id domain.Identity, limit int) ([]domain.ChatRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, identity, user_message, reply, mood, score, outcome, created_at
		 FROM chats WHERE identity = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		string(id), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing chats: %w", err)
	}
	defer rows.Close()

	return scanChats(rows)
}

// Get returns a single chat owned by id.
func (s *ChatStore) Get(ctx context.Context, id domain.Identity, chatID string) (domain.ChatRecord, error) {
	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT id, identity, user_message, reply, mood, score, outcome, created_at
		 FROM chats WHERE identity = ? AND id = ?`,
		string(id), chatID,
	)
	if err != nil {
		return domain.ChatRecord{}, fmt.Errorf("getting chat %s: %w", chatID, err)
	}
	defer rows.Close()

	chats, err := scanChats(rows)
	if err != nil {
		return domain.ChatRecord{}, err
	}
	if len(chats) == 0 {
		return domain.ChatRecord{}, ErrNotFound
	}
	return chats[0], nil
}

// Delete removes a chat owned by id. Chats of other identities are reported
// as ErrNotFound.
func (s *ChatStore) Delete(ctx context.Context, id domain.Identity, chatID string) error {
	res, err := s.db.sql.ExecContext(ctx,
		`DELETE FROM chats WHERE identity = ? AND id = ?`, string(id), chatID)
	if err != nil {
		return fmt.Errorf("deleting chat %s: %w", chatID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting chat %s: %w", chatID, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats summarises the identity's chat log.
func (s *ChatStore) Stats(ctx context.Context, id domain.Identity) (domain.MoodStats, error) {
	var stats domain.MoodStats
	err := s.db.sql.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(score), 0),
		        COALESCE(SUM(CASE WHEN mood = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN mood = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN mood = ? THEN 1 ELSE 0 END), 0)
		 FROM chats WHERE identity = ?`,
		mood.Positive.String(), mood.Negative.String(), mood.Neutral.String(), string(id),
	).Scan(&stats.TotalChats, &stats.AvgMoodScore, &stats.PositiveCount, &stats.NegativeCount, &stats.NeutralCount)
	if err != nil {
		return domain.MoodStats{}, fmt.Errorf("computing mood stats: %w", err)
	}
	return stats, nil
}

// Search finds the identity's chats whose message or reply matches query,
// ranked by relevance. A limit of 0 defaults to 20.
func (s *ChatStore) Search(ctx context.Context, id domain.Identity, query string, limit int) ([]domain.ChatRecord, error) {
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := s.db.sql.QueryContext(ctx,
		`SELECT c.id, c.identity, c.user_message, c.reply, c.mood, c.score, c.outcome, c.created_at
		 FROM chats_fts
		 JOIN chats c ON c.rowid = chats_fts.rowid
		 WHERE chats_fts MATCH ?
		   AND c.identity = ?
		 ORDER BY rank
		 LIMIT ?`,
		match, string(id), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching chats: %w", err)
	}
	defer rows.Close()

	return scanChats(rows)
}

// ftsQuery turns free text into an FTS5 query that ANDs every word as a
// quoted phrase, so user input cannot inject query syntax.
func ftsQuery(q string) string {
	words := strings.Fields(q)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
	}
	return strings.Join(words, " ")
}

func scanChats(rows *sql.Rows) ([]domain.ChatRecord, error) {
	var chats []domain.ChatRecord
	for rows.Next() {
		var rec domain.ChatRecord
		var identity, label, outcome, createdAt string

		if err := rows.Scan(
			&rec.ID, &identity, &rec.UserMessage, &rec.Reply,
			&label, &rec.Score, &outcome, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning chat: %w", err)
		}

		rec.Identity = domain.Identity(identity)
		rec.Outcome = domain.Outcome(outcome)
		parsed, err := mood.ParseLabel(label)
		if err != nil {
			return nil, fmt.Errorf("chat %s: %w", rec.ID, err)
		}
		rec.Mood = parsed
		rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("chat %s: parsing created_at: %w", rec.ID, err)
		}

		chats = append(chats, rec)
	}
	return chats, rows.Err()
}
