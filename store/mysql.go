package store

import (
	"database/sql"
	"fmt"

	roleplaysdk "github.com/convoforge/roleplay-sdk-go"
)

// MySQLTranscriptStore implements roleplaysdk.TranscriptStore on MySQL.
//
// It uses one table (auto-created if AutoMigrate is true):
//
//	{prefix}_entries: (id, conversation_id, speaker, content)
//
// Entry order is the auto-increment id.
type MySQLTranscriptStore struct {
	db     *sql.DB
	prefix string
}

// MySQLStoreConfig configures the MySQL store.
type MySQLStoreConfig struct {
	Prefix      string // table prefix, default "transcript"
	AutoMigrate bool   // create tables if not exist, default true
}

// NewMySQLTranscriptStore creates a TranscriptStore backed by MySQL.
// The sql.DB must be already opened with a MySQL driver.
func NewMySQLTranscriptStore(db *sql.DB, config ...MySQLStoreConfig) (*MySQLTranscriptStore, error) {
	cfg := MySQLStoreConfig{Prefix: "transcript", AutoMigrate: true}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "transcript"
	}

	s := &MySQLTranscriptStore{db: db, prefix: cfg.Prefix}
	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			return nil, fmt.Errorf("auto-migrate failed: %w", err)
		}
	}
	return s, nil
}

func (s *MySQLTranscriptStore) table() string { return s.prefix + "_entries" }

func (s *MySQLTranscriptStore) migrate() error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		conversation_id VARCHAR(255) NOT NULL,
		speaker         VARCHAR(32)  NOT NULL,
		content         LONGTEXT     NOT NULL,
		PRIMARY KEY (id),
		KEY idx_conversation (conversation_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`, s.table())

	_, err := s.db.Exec(ddl)
	return err
}

func (s *MySQLTranscriptStore) Append(conversationID string, entry roleplaysdk.TranscriptEntry) error {
	_, err := s.db.Exec(
		fmt.Sprintf("INSERT INTO %s (conversation_id, speaker, content) VALUES (?, ?, ?)", s.table()),
		conversationID, string(entry.Speaker), entry.Content,
	)
	return err
}

func (s *MySQLTranscriptStore) History(conversationID string, limit, offset int) ([]roleplaysdk.TranscriptEntry, error) {
	q := fmt.Sprintf("SELECT speaker, content FROM %s WHERE conversation_id=? ORDER BY id ASC", s.table())
	var args []interface{}
	args = append(args, conversationID)

	if limit > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	} else if offset > 0 {
		q += " LIMIT 18446744073709551615 OFFSET ?"
		args = append(args, offset)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []roleplaysdk.TranscriptEntry{}
	for rows.Next() {
		var speaker, content string
		if err := rows.Scan(&speaker, &content); err != nil {
			return nil, err
		}
		entries = append(entries, roleplaysdk.TranscriptEntry{
			Speaker: roleplaysdk.Speaker(speaker),
			Content: content,
		})
	}
	return entries, rows.Err()
}

func (s *MySQLTranscriptStore) Length(conversationID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE conversation_id=?", s.table()),
		conversationID,
	).Scan(&count)
	return count, err
}

func (s *MySQLTranscriptStore) Clear(conversationID string) error {
	_, err := s.db.Exec(
		fmt.Sprintf("DELETE FROM %s WHERE conversation_id=?", s.table()),
		conversationID,
	)
	return err
}

func (s *MySQLTranscriptStore) Close() error {
	return s.db.Close()
}

// Compile-time interface check.
var _ roleplaysdk.TranscriptStore = (*MySQLTranscriptStore)(nil)
