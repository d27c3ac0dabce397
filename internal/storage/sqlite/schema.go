package sqlite

const schema = `
-- Word groups table
CREATE TABLE IF NOT EXISTS word_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Words table
CREATE TABLE IF NOT EXISTS words (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    group_id TEXT REFERENCES word_groups(id) ON DELETE SET NULL,
    status TEXT NOT NULL DEFAULT 'active' CHECK(status IN ('active', 'inactive')),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_words_status ON words(status);
CREATE INDEX IF NOT EXISTS idx_words_group ON words(group_id);

-- Providers table
CREATE TABLE IF NOT EXISTS providers (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    kind TEXT NOT NULL,
    endpoint TEXT NOT NULL DEFAULT '',
    model TEXT NOT NULL DEFAULT '',
    api_key_env TEXT NOT NULL DEFAULT '',
    active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_providers_active ON providers(active);

-- Captures table (append-only)
CREATE TABLE IF NOT EXISTS captures (
    id TEXT PRIMARY KEY,
    word_id TEXT NOT NULL REFERENCES words(id) ON DELETE CASCADE,
    provider_id TEXT NOT NULL REFERENCES providers(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    captured_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_captures_pair ON captures(word_id, provider_id, captured_at DESC);

-- Entities table (append-only)
CREATE TABLE IF NOT EXISTS entities (
    id TEXT PRIMARY KEY,
    capture_id TEXT NOT NULL REFERENCES captures(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_entities_capture ON entities(capture_id);
CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name);

-- Brand projects table
CREATE TABLE IF NOT EXISTS brand_projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    brand_name TEXT NOT NULL,
    group_id TEXT NOT NULL REFERENCES word_groups(id) ON DELETE CASCADE,
    active INTEGER NOT NULL DEFAULT 1,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_brand_projects_group ON brand_projects(group_id);

-- Competitors table
CREATE TABLE IF NOT EXISTS competitors (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES brand_projects(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_competitors_project ON competitors(project_id);

-- Mentions table (one verdict per capture x project)
CREATE TABLE IF NOT EXISTS mentions (
    id TEXT PRIMARY KEY,
    capture_id TEXT NOT NULL REFERENCES captures(id) ON DELETE CASCADE,
    project_id TEXT NOT NULL REFERENCES brand_projects(id) ON DELETE CASCADE,
    brand_mentioned INTEGER NOT NULL DEFAULT 0,
    competitor_mentioned INTEGER NOT NULL DEFAULT 0,
    mentioned_competitor TEXT,
    brand_position INTEGER,
    competitor_position INTEGER,
    confidence INTEGER NOT NULL DEFAULT 0 CHECK(confidence >= 0 AND confidence <= 100),
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_mentions_capture ON mentions(capture_id);

-- Cycle history table
CREATE TABLE IF NOT EXISTS cycles (
    id TEXT PRIMARY KEY,
    state TEXT NOT NULL,
    pairs_due INTEGER NOT NULL DEFAULT 0,
    pairs_captured INTEGER NOT NULL DEFAULT 0,
    pairs_failed INTEGER NOT NULL DEFAULT 0,
    entities_extracted INTEGER NOT NULL DEFAULT 0,
    extraction_failures INTEGER NOT NULL DEFAULT 0,
    mentions_analyzed INTEGER NOT NULL DEFAULT 0,
    error TEXT NOT NULL DEFAULT '',
    started_at DATETIME NOT NULL,
    finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycles_started_at ON cycles(started_at DESC);

-- Per-pair terminal failures recorded for each cycle
CREATE TABLE IF NOT EXISTS cycle_failures (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cycle_id TEXT NOT NULL REFERENCES cycles(id) ON DELETE CASCADE,
    word_id TEXT NOT NULL,
    word_name TEXT NOT NULL,
    provider_id TEXT NOT NULL,
    provider_name TEXT NOT NULL,
    class TEXT NOT NULL,
    attempts INTEGER NOT NULL DEFAULT 0,
    message TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_cycle_failures_cycle ON cycle_failures(cycle_id);
`
