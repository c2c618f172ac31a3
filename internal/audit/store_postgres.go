package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PostgresStore writes decision records to the eligibility_decisions table.
// The structured columns are what reporting queries filter on; the payload
// column keeps the complete record for replay.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is the DDL for the decisions table, applied by migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS eligibility_decisions (
	id UUID PRIMARY KEY,
	conversation_id TEXT NOT NULL,
	final_state TEXT NOT NULL,
	eligibility_result TEXT NOT NULL,
	payload JSONB NOT NULL,
	decided_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS eligibility_decisions_conversation_idx
	ON eligibility_decisions (conversation_id);
CREATE INDEX IF NOT EXISTS eligibility_decisions_result_idx
	ON eligibility_decisions (eligibility_result);
`

func (s *PostgresStore) Append(ctx context.Context, decision Decision) error {
	payload, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("marshal decision payload: %w", err)
	}

	query := `
		INSERT INTO eligibility_decisions (id, conversation_id, final_state, eligibility_result, payload, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, query,
		decision.ID,
		decision.ConversationID,
		decision.FinalState,
		decision.EligibilityTag,
		payload,
		decision.DecidedAt,
	); err != nil {
		return fmt.Errorf("insert decision %s: %w", decision.ID, err)
	}
	return nil
}

// ListByConversation returns the decisions recorded for one conversation,
// oldest first.
func (s *PostgresStore) ListByConversation(ctx context.Context, conversationID string) ([]Decision, error) {
	query := `
		SELECT payload
		FROM eligibility_decisions
		WHERE conversation_id = $1
		ORDER BY decided_at
	`
	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list decisions for %s: %w", conversationID, err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan decision payload: %w", err)
		}
		var d Decision
		if err := json.Unmarshal(payload, &d); err != nil {
			return nil, fmt.Errorf("decode decision payload: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
