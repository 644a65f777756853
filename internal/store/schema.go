package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS bets (
    bet_id               TEXT PRIMARY KEY,
    bet_date             TEXT NOT NULL,
    label                TEXT NOT NULL,
    pick                 TEXT NOT NULL CHECK (pick IN ('home', 'draw', 'away')),
    odds                 TEXT NOT NULL,
    stake                TEXT NOT NULL,
    outcome              TEXT NOT NULL DEFAULT 'pending'
                         CHECK (outcome IN ('pending', 'home', 'draw', 'away')),
    created_at           TEXT NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bets_date ON bets(bet_date);
`
