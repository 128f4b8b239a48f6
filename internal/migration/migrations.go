package migration

// getAllMigrations retorna todas as migrações disponíveis
func getAllMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_entries_table",
			Up: `
				-- Estimativas de tempo registradas
				CREATE TABLE entries (
					id BIGSERIAL PRIMARY KEY,
					title VARCHAR(200) NOT NULL,
					category VARCHAR(50),
					estimated_min INTEGER NOT NULL CHECK (estimated_min >= 1),
					actual_min INTEGER NOT NULL CHECK (actual_min >= 1),
					difficulty SMALLINT NOT NULL CHECK (difficulty BETWEEN 1 AND 5),
					mood SMALLINT NOT NULL CHECK (mood BETWEEN 1 AND 5),
					distractions SMALLINT NOT NULL CHECK (distractions BETWEEN 0 AND 5),
					notes TEXT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`,
			Down: `
				DROP TABLE IF EXISTS entries;
			`,
		},
		{
			Version: 2,
			Name:    "index_entries_created_at",
			Up: `
				CREATE INDEX idx_entries_created_at ON entries (created_at DESC);
				CREATE INDEX idx_entries_category ON entries (category);
			`,
			Down: `
				DROP INDEX IF EXISTS idx_entries_category;
				DROP INDEX IF EXISTS idx_entries_created_at;
			`,
		},
	}
}
