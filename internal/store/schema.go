package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS executions (
    tenant_id            TEXT NOT NULL,
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    execution_id         TEXT,
    workflow_name        TEXT,
    status               TEXT,
    started_at           TEXT,
    stopped_at           TEXT,
    governance_verdict   TEXT,
    total_charge         REAL,
    value_captured       REAL,
    time_saved_seconds   REAL,
    human_escalation     INTEGER NOT NULL DEFAULT 0,
    escalation_status    TEXT,
    escalation_priority  TEXT,
    finished             INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (file_path, seq)
);

CREATE TABLE IF NOT EXISTS transactions (
    tenant_id            TEXT NOT NULL,
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    transaction_id       TEXT,
    guest_name           TEXT,
    reference_code       TEXT,
    total_amount         TEXT,
    collection_date      TEXT,
    created_at           TEXT,
    PRIMARY KEY (file_path, seq)
);

CREATE TABLE IF NOT EXISTS messages (
    tenant_id            TEXT NOT NULL,
    file_path            TEXT NOT NULL REFERENCES file_tracker(file_path) ON DELETE CASCADE,
    seq                  INTEGER NOT NULL,
    session_id           TEXT,
    type                 TEXT,
    content              TEXT,
    created_at           TEXT,
    PRIMARY KEY (file_path, seq)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    tenant_id            TEXT NOT NULL,
    kind                 TEXT NOT NULL,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    records              INTEGER NOT NULL DEFAULT 0,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ingest_runs (
    run_id               TEXT PRIMARY KEY,
    tenant_id            TEXT NOT NULL,
    started_at           TEXT NOT NULL,
    finished_at          TEXT NOT NULL,
    total_files          INTEGER,
    cache_hits           INTEGER,
    reparsed             INTEGER,
    parse_errors         INTEGER,
    file_errors          INTEGER
);

CREATE INDEX IF NOT EXISTS idx_executions_tenant ON executions(tenant_id);
CREATE INDEX IF NOT EXISTS idx_transactions_tenant ON transactions(tenant_id);
CREATE INDEX IF NOT EXISTS idx_messages_tenant ON messages(tenant_id, session_id);
CREATE INDEX IF NOT EXISTS idx_file_tracker_tenant ON file_tracker(tenant_id);
CREATE INDEX IF NOT EXISTS idx_ingest_runs_tenant ON ingest_runs(tenant_id, finished_at);
`
