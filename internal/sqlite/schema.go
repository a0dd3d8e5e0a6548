package sqlite

// Schema DDL. A single documents table holds every collection; the composite
// primary key enforces one record per (collection, owner, id).
const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    owner_id   TEXT NOT NULL,
    record_id  TEXT NOT NULL,
    doc        TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    PRIMARY KEY (collection, owner_id, record_id)
);

CREATE INDEX IF NOT EXISTS idx_documents_owner
    ON documents (owner_id, collection);
`
