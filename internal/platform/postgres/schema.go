package postgres

import (
	"context"
	"fmt"

	"broadcast-tool-backend/internal/common/logger"
)

// EnsureSchema creates the tables the service needs if they do not exist.
// Idempotent, runs on every startup.
func (c *Client) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'operator', 'user')),
		status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive', 'banned')),
		telegram_id BIGINT,
		telegram_username TEXT,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (LOWER(email));
	CREATE INDEX IF NOT EXISTS idx_users_role ON users (role);
	`

	if _, err := c.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	logger.Info().Msg("Database schema ensured")
	return nil
}
