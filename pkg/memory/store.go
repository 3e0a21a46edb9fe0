// Package memory persists conversation messages and extracted facts.
//
// Facts are append-only per room. When deduplication is requested, a claim is
// embedded and compared against the room's stored embeddings; near-duplicates
// are dropped at the store layer so callers do not have to trust the
// extraction model's own already-known flag.
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/seilorhq/faithagent/pkg/bus"
	"github.com/seilorhq/faithagent/pkg/logger"
)

// Embedder turns a claim into a vector for similarity checks.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Fact is the persisted form of an accepted claim.
type Fact struct {
	ID        uuid.UUID
	RoomID    uuid.UUID
	AgentID   uuid.UUID
	Text      string
	CreatedAt time.Time
}

type Store struct {
	db       *sql.DB
	embedder Embedder

	// Serializes writers; similarity dedup depends on prior inserts being
	// visible before the next one is evaluated.
	writeMu sync.Mutex

	similarityThreshold float64
}

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	room_id    TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	agent_id   TEXT NOT NULL,
	text       TEXT NOT NULL,
	action     TEXT NOT NULL DEFAULT '',
	source     TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_id, created_at);

CREATE TABLE IF NOT EXISTS facts (
	id         TEXT PRIMARY KEY,
	room_id    TEXT NOT NULL,
	agent_id   TEXT NOT NULL,
	text       TEXT NOT NULL,
	embedding  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_facts_room ON facts(room_id, created_at);
`

// NewStore opens (or creates) the sqlite database at path. An empty path
// opens an in-memory database, which tests rely on.
func NewStore(path string, embedder Embedder, similarityThreshold float64) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init store schema: %w", err)
	}

	if similarityThreshold <= 0 || similarityThreshold > 1 {
		similarityThreshold = 0.95
	}

	return &Store{
		db:                  db,
		embedder:            embedder,
		similarityThreshold: similarityThreshold,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AddMessage records an inbound message for its room.
func (s *Store) AddMessage(ctx context.Context, msg bus.Message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, room_id, user_id, agent_id, text, action, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID.String(), msg.RoomID.String(), msg.UserID.String(), msg.AgentID.String(),
		msg.Content.Text, msg.Content.Action, msg.Content.Source, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// CountMessages returns the total number of stored messages for the room.
func (s *Store) CountMessages(ctx context.Context, roomID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE room_id = ?`, roomID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return count, nil
}

// RecentMessages returns up to limit messages for the room, oldest first.
func (s *Store) RecentMessages(ctx context.Context, roomID uuid.UUID, limit int) ([]bus.Message, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_id, user_id, agent_id, text, action, source, created_at
		 FROM messages WHERE room_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		roomID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var newestFirst []bus.Message
	for rows.Next() {
		var (
			msg                   bus.Message
			id, room, user, agent string
		)
		if err := rows.Scan(&id, &room, &user, &agent,
			&msg.Content.Text, &msg.Content.Action, &msg.Content.Source, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.ID, _ = uuid.Parse(id)
		msg.RoomID, _ = uuid.Parse(room)
		msg.UserID, _ = uuid.Parse(user)
		msg.AgentID, _ = uuid.Parse(agent)
		newestFirst = append(newestFirst, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(newestFirst)-1; i < j; i, j = i+1, j-1 {
		newestFirst[i], newestFirst[j] = newestFirst[j], newestFirst[i]
	}
	return newestFirst, nil
}

// CreateFact persists an accepted claim. With deduplicate set, the claim is
// embedded and dropped when its cosine similarity to any stored fact in the
// room reaches the configured threshold. A missing embedder degrades to a
// plain insert.
func (s *Store) CreateFact(ctx context.Context, fact Fact, deduplicate bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var embedding []float32
	if s.embedder != nil {
		vec, err := s.embedder.Embed(ctx, fact.Text)
		if err != nil {
			return fmt.Errorf("embed fact: %w", err)
		}
		embedding = vec
	}

	if deduplicate && len(embedding) > 0 {
		known, err := s.roomEmbeddings(ctx, fact.RoomID)
		if err != nil {
			return err
		}
		for _, existing := range known {
			if cosineSimilarity(embedding, existing) >= s.similarityThreshold {
				logger.DebugCF("memory", "Dropping near-duplicate fact",
					map[string]interface{}{"room_id": fact.RoomID.String(), "text": fact.Text})
				return nil
			}
		}
	}

	if fact.ID == uuid.Nil {
		fact.ID = uuid.New()
	}
	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = time.Now().UTC()
	}

	embeddingJSON := ""
	if len(embedding) > 0 {
		data, err := json.Marshal(embedding)
		if err != nil {
			return fmt.Errorf("encode embedding: %w", err)
		}
		embeddingJSON = string(data)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO facts (id, room_id, agent_id, text, embedding, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fact.ID.String(), fact.RoomID.String(), fact.AgentID.String(),
		fact.Text, embeddingJSON, fact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fact: %w", err)
	}
	return nil
}

// CountFacts returns the number of stored facts for the room.
func (s *Store) CountFacts(ctx context.Context, roomID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM facts WHERE room_id = ?`, roomID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count facts: %w", err)
	}
	return count, nil
}

// RecentFacts returns up to limit facts for the room, newest first.
func (s *Store) RecentFacts(ctx context.Context, roomID uuid.UUID, limit int) ([]Fact, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_id, agent_id, text, created_at
		 FROM facts WHERE room_id = ?
		 ORDER BY created_at DESC LIMIT ?`,
		roomID.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var facts []Fact
	for rows.Next() {
		var (
			fact            Fact
			id, room, agent string
		)
		if err := rows.Scan(&id, &room, &agent, &fact.Text, &fact.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		fact.ID, _ = uuid.Parse(id)
		fact.RoomID, _ = uuid.Parse(room)
		fact.AgentID, _ = uuid.Parse(agent)
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}

func (s *Store) roomEmbeddings(ctx context.Context, roomID uuid.UUID) ([][]float32, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT embedding FROM facts WHERE room_id = ? AND embedding != ''`, roomID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query embeddings: %w", err)
	}
	defer rows.Close()

	var embeddings [][]float32
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var vec []float32
		if err := json.Unmarshal([]byte(raw), &vec); err != nil {
			continue
		}
		embeddings = append(embeddings, vec)
	}
	return embeddings, rows.Err()
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FormatFacts renders stored facts oldest-first for prompt context.
func FormatFacts(facts []Fact) string {
	out := ""
	for i := len(facts) - 1; i >= 0; i-- {
		if out != "" {
			out += "\n"
		}
		out += facts[i].Text
	}
	return out
}
