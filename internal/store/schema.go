package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is additive and idempotent: every statement is safe to reapply,
// so it runs unconditionally on each server start. Events reference sites
// through a TEXT soft link on purpose: deleting a site does not cascade
// into events, and events may reference site ids that no longer exist.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID DEFAULT gen_random_uuid() PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sites (
	id UUID DEFAULT gen_random_uuid() PRIMARY KEY,
	user_id UUID REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	domain TEXT,
	created_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_sites_user_id ON sites(user_id);

CREATE TABLE IF NOT EXISTS events (
	id UUID DEFAULT gen_random_uuid() PRIMARY KEY,
	site_id TEXT NOT NULL,
	path TEXT NOT NULL,
	referrer TEXT,
	device_type TEXT,
	browser TEXT,
	os TEXT,
	country TEXT,
	visitor_hash TEXT,
	created_at TIMESTAMPTZ DEFAULT NOW()
);

ALTER TABLE events ADD COLUMN IF NOT EXISTS browser TEXT;
ALTER TABLE events ADD COLUMN IF NOT EXISTS os TEXT;
ALTER TABLE events ADD COLUMN IF NOT EXISTS visitor_hash TEXT;

CREATE INDEX IF NOT EXISTS idx_events_site_id ON events(site_id);
CREATE INDEX IF NOT EXISTS idx_events_created_at ON events(created_at);
CREATE INDEX IF NOT EXISTS idx_events_browser ON events(browser);
CREATE INDEX IF NOT EXISTS idx_events_os ON events(os);
`

// ApplySchema brings the database up to the current schema.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)

	return err
}
