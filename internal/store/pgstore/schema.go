package pgstore

// schema is applied once at startup via a plain idempotent DDL statement
// set (spec scope has no migration history to manage, so this mirrors the
// original's one-shot `sqlx::migrate!` step without pulling in a
// migration framework — see DESIGN.md).
const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS substitutes (
	id          BIGSERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	template_id BIGINT NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
	UNIQUE (name, template_id)
);
`
