package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    run_id               TEXT PRIMARY KEY,
    statement            TEXT NOT NULL,
    source               TEXT NOT NULL,
    created_at           TEXT NOT NULL,
    row_indexing         TEXT,
    first_year           INTEGER,
    assumptions_json     TEXT,
    imbalanced_years     INTEGER NOT NULL DEFAULT 0,
    error                TEXT,
    error_kind           TEXT
);

CREATE TABLE IF NOT EXISTS run_lines (
    run_id               TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    section              TEXT,
    name                 TEXT NOT NULL,
    strategy             TEXT,
    total                INTEGER NOT NULL DEFAULT 0,
    values_json          TEXT NOT NULL,
    PRIMARY KEY (run_id, position)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_statement ON runs(statement);
`
