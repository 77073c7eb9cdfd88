package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create chats",
		SQL: `
			CREATE TABLE chats (
				id            TEXT PRIMARY KEY,
				identity      TEXT NOT NULL,
				user_message  TEXT NOT NULL,
				reply         TEXT NOT NULL,
				mood          TEXT NOT NULL,
				score         REAL NOT NULL,
				outcome       TEXT NOT NULL,
				created_at    TEXT NOT NULL
			);

			CREATE INDEX idx_chats_identity ON chats (identity, created_at);
		`,
	},
	{
		Version: 2,
		Name:    "create chats FTS",
		SQL: `
			CREATE VIRTUAL TABLE chats_fts USING fts5(
				user_message,
				reply,
				content='chats',
				content_rowid='rowid'
			);

			CREATE TRIGGER chats_ai AFTER INSERT ON chats BEGIN
				INSERT INTO chats_fts(rowid, user_message, reply)
				VALUES (new.rowid, new.user_message, new.reply);
			END;

			CREATE TRIGGER chats_ad AFTER DELETE ON chats BEGIN
				INSERT INTO chats_fts(chats_fts, rowid, user_message, reply)
				VALUES ('delete', old.rowid, old.user_message, old.reply);
			END;
		`,
	},
}
