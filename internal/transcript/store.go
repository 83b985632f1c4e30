package transcript

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/draftdesk/internal/db"
)

// Store persists messages in the transcript_messages table. Messages are
// never updated; Clear removes them all.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a transcript store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Add appends msg and returns it with ID and CreatedAt set.
func (s *Store) Add(ctx context.Context, msg Message) (*Message, error) {
	if !msg.Role.Valid() {
		return nil, fmt.Errorf("adding message: invalid role %q", msg.Role)
	}
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	msg.CreatedAt = s.now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transcript_messages (id, role, content, suggested_section, prompt_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, string(msg.Role), msg.Content, nullable(msg.SuggestedSection), nullable(msg.PromptID), msg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("adding message: %w", err)
	}
	return &msg, nil
}

// List returns every message in the order it was added.
func (s *Store) List(ctx context.Context) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, suggested_section, prompt_id, created_at
		 FROM transcript_messages ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// LastAssistant returns the most recent assistant message. ok is false when
// there is none.
func (s *Store) LastAssistant(ctx context.Context) (*Message, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, role, content, suggested_section, prompt_id, created_at
		 FROM transcript_messages WHERE role = ? ORDER BY seq DESC LIMIT 1`, string(RoleAssistant))
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// Clear removes every message.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transcript_messages`); err != nil {
		return fmt.Errorf("clearing transcript: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(sc scanner) (*Message, error) {
	var (
		m         Message
		role      string
		suggested sql.NullString
		promptID  sql.NullString
	)
	if err := sc.Scan(&m.ID, &role, &m.Content, &suggested, &promptID, &m.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning message: %w", err)
	}
	m.Role = Role(role)
	m.SuggestedSection = suggested.String
	m.PromptID = promptID.String
	return &m, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
