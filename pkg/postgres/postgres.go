package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/ds124wfegd/bookit/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	// Read migration files and execute them
	// This is a simplified version - you might want to use a proper migration tool
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(150) UNIQUE NOT NULL,
			email VARCHAR(255) NOT NULL,
			telegram_id VARCHAR(100) NOT NULL DEFAULT '',
			superuser BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS equipment (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) UNIQUE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			brand VARCHAR(255) NOT NULL DEFAULT '',
			model VARCHAR(255) NOT NULL DEFAULT '',
			admin_id INTEGER NOT NULL REFERENCES users(id),
			status BOOLEAN NOT NULL DEFAULT TRUE,
			modified TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS equipment_users (
			equipment_id INTEGER REFERENCES equipment(id) ON DELETE CASCADE,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (equipment_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS services (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			equipment_id INTEGER NOT NULL REFERENCES equipment(id),
			job TEXT NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			success BOOLEAN NOT NULL DEFAULT FALSE,
			notes TEXT NOT NULL DEFAULT '',
			date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id),
			equipment_id INTEGER NOT NULL REFERENCES equipment(id),
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP NOT NULL,
			elapsed_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			notes TEXT NOT NULL DEFAULT '',
			disassemble BOOLEAN NOT NULL DEFAULT FALSE,
			maintenance BOOLEAN NOT NULL DEFAULT FALSE,
			expired BOOLEAN NOT NULL DEFAULT FALSE,
			service_id INTEGER REFERENCES services(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS tickets (
			id SERIAL PRIMARY KEY,
			msg TEXT NOT NULL,
			equipment_id INTEGER NOT NULL REFERENCES equipment(id),
			priority BOOLEAN NOT NULL DEFAULT FALSE,
			user_id INTEGER NOT NULL REFERENCES users(id),
			status BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id SERIAL PRIMARY KEY,
			ticket_id INTEGER NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
			msg TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id SERIAL PRIMARY KEY,
			msg TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id),
			critical BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_events_equipment_id ON events(equipment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_start_time ON events(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_events_end_time ON events(end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_events_equipment_interval ON events(equipment_id, start_time, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_tickets_equipment_id ON tickets(equipment_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_ticket_id ON comments(ticket_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
