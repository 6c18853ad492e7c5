package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
    project_id           TEXT PRIMARY KEY,
    file_path            TEXT NOT NULL,
    created_at           TEXT,
    model                TEXT,
    turns                INTEGER,
    calls                INTEGER,
    input_tokens         INTEGER,
    output_tokens        INTEGER,
    total_usd            REAL,
    last_call_at         TEXT,
    file_mtime_ns        INTEGER NOT NULL,
    file_size            INTEGER NOT NULL,
    indexed_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS project_models (
    project_id           TEXT NOT NULL REFERENCES projects(project_id) ON DELETE CASCADE,
    model                TEXT NOT NULL,
    calls                INTEGER,
    input_tokens         INTEGER,
    output_tokens        INTEGER,
    cost_usd             REAL,
    PRIMARY KEY (project_id, model)
);

CREATE INDEX IF NOT EXISTS idx_projects_file ON projects(file_path);
`
