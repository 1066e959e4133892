package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	*sqlx.DB
}

// NewDB opens (and creates if missing) the coach database at the given path.
func NewDB(databaseURL string) (*DB, error) {
	if databaseURL == "" {
		databaseURL = "coach_pro.db" // Default SQLite file
	}

	db, err := sqlx.Connect("sqlite3", databaseURL+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dbWrapper := &DB{DB: db}

	// Initialize database schema
	if err := dbWrapper.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return dbWrapper, nil
}

// createTables creates the necessary database tables
func (db *DB) createTables() error {
	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		chat_id INTEGER PRIMARY KEY,
		username TEXT DEFAULT '',
		first_name TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		last_interaction DATETIME DEFAULT CURRENT_TIMESTAMP,
		total_points INTEGER DEFAULT 0,
		level INTEGER DEFAULT 1,
		streak_days INTEGER DEFAULT 0,
		last_activity_date TEXT DEFAULT '',
		reminder_time TEXT DEFAULT '09:00',
		reminder_enabled BOOLEAN DEFAULT TRUE,
		onboarding_completed BOOLEAN DEFAULT FALSE
	);`

	goalsTable := `
	CREATE TABLE IF NOT EXISTS goals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT DEFAULT '',
		category TEXT DEFAULT 'generale',
		progress INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		deadline TEXT,
		completed BOOLEAN DEFAULT FALSE,
		completed_at DATETIME,
		FOREIGN KEY (chat_id) REFERENCES users(chat_id)
	);`

	progressTable := `
	CREATE TABLE IF NOT EXISTS progress_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		goal_id INTEGER NOT NULL,
		chat_id INTEGER NOT NULL,
		old_progress INTEGER NOT NULL,
		new_progress INTEGER NOT NULL,
		change_value INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (goal_id) REFERENCES goals(id),
		FOREIGN KEY (chat_id) REFERENCES users(chat_id)
	);`

	// The unique index makes badge awards an atomic insert-if-absent.
	badgesTable := `
	CREATE TABLE IF NOT EXISTS badges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL,
		badge_type TEXT NOT NULL,
		earned_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (chat_id) REFERENCES users(chat_id)
	);`

	conversationsTable := `
	CREATE TABLE IF NOT EXISTS ai_conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (chat_id) REFERENCES users(chat_id)
	);`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_goals_chat_id ON goals(chat_id);`,
		`CREATE INDEX IF NOT EXISTS idx_goals_chat_completed ON goals(chat_id, completed);`,
		`CREATE INDEX IF NOT EXISTS idx_progress_chat_id ON progress_history(chat_id);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_badges_chat_type ON badges(chat_id, badge_type);`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_chat_id ON ai_conversations(chat_id, created_at);`,
	}

	for _, query := range []string{usersTable, goalsTable, progressTable, badgesTable, conversationsTable} {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, index := range indexes {
		if _, err := db.Exec(index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
