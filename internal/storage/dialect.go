package storage

// dialect holds the per-database SQL for the page_slots table.
type dialect struct {
	migrations []string
	get        string
	upsert     string // args: key, value, updated_at
	keys       string
}

var sqliteDialect = dialect{
	migrations: []string{
		`CREATE TABLE IF NOT EXISTS page_slots (
			slot_key TEXT PRIMARY KEY,
			slot_value TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	get: `SELECT slot_value FROM page_slots WHERE slot_key = ?`,
	upsert: `INSERT INTO page_slots (slot_key, slot_value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(slot_key) DO UPDATE SET slot_value = excluded.slot_value, updated_at = excluded.updated_at`,
	keys: `SELECT slot_key FROM page_slots ORDER BY updated_at DESC`,
}

var postgresDialect = dialect{
	migrations: []string{
		`CREATE TABLE IF NOT EXISTS page_slots (
			slot_key TEXT PRIMARY KEY,
			slot_value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	get: `SELECT slot_value FROM page_slots WHERE slot_key = $1`,
	upsert: `INSERT INTO page_slots (slot_key, slot_value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (slot_key) DO UPDATE SET slot_value = EXCLUDED.slot_value, updated_at = EXCLUDED.updated_at`,
	keys: `SELECT slot_key FROM page_slots ORDER BY updated_at DESC`,
}

var mysqlDialect = dialect{
	migrations: []string{
		`CREATE TABLE IF NOT EXISTS page_slots (
			slot_key VARCHAR(191) PRIMARY KEY,
			slot_value LONGTEXT NOT NULL,
			updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
		) DEFAULT CHARSET = utf8mb4`,
	},
	get: `SELECT slot_value FROM page_slots WHERE slot_key = ?`,
	upsert: `INSERT INTO page_slots (slot_key, slot_value, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE slot_value = VALUES(slot_value), updated_at = VALUES(updated_at)`,
	keys: `SELECT slot_key FROM page_slots ORDER BY updated_at DESC`,
}
