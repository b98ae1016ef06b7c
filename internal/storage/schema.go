package storage

const schema = `
-- The 'flashcards' table holds the authoritative card collection.
-- 'seq' preserves insertion order, which is the order GET /flashcards returns.
CREATE TABLE IF NOT EXISTS flashcards (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
`
