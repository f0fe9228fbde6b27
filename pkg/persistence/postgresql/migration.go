package postgresql

// Versioned schema migrations applied by sqlbase.MigrationManager. One row
// per document; the graph itself lives in JSONB columns. Indices on the
// owner and on updated_at support the listing and recency queries.
var migrations = map[int]string{
	1: `
		CREATE TABLE IF NOT EXISTS workflows (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			nodes       JSONB NOT NULL DEFAULT '[]'::jsonb,
			edges       JSONB NOT NULL DEFAULT '[]'::jsonb,
			viewport    JSONB NOT NULL DEFAULT '{"x":0,"y":0,"zoom":1}'::jsonb,
			metadata    JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at  TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_workflows_user_id ON workflows (user_id);
		CREATE INDEX IF NOT EXISTS idx_workflows_updated_at ON workflows (updated_at DESC);
	`,
}
