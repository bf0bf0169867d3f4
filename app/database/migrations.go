package database

import (
	"database/sql"
	"log"
)

// RunMigrations creates the schema on startup. Every statement is
// idempotent so repeated boots are safe.
func RunMigrations(db *sql.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone VARCHAR(20) NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS roles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT UNIQUE NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS user_roles (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id),
			role_id UUID NOT NULL REFERENCES roles(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, role_id)
		)`,

		`CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			student_code TEXT UNIQUE NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			date_of_birth DATE,
			gender VARCHAR(10),
			school TEXT,
			grade VARCHAR(10),
			phone VARCHAR(20),
			parent_phone VARCHAR(20),
			address TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS classes (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			code TEXT UNIQUE NOT NULL,
			subject TEXT NOT NULL,
			grade VARCHAR(10),
			price_per_session NUMERIC NOT NULL DEFAULT 0,
			teacher_id UUID REFERENCES users(id),
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS courses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			subject TEXT NOT NULL,
			grade VARCHAR(10),
			price_per_session NUMERIC NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS enrollments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			class_id UUID NOT NULL REFERENCES classes(id),
			student_id UUID NOT NULL REFERENCES students(id),
			tuition_override NUMERIC,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE (class_id, student_id)
		)`,

		`CREATE TABLE IF NOT EXISTS attendance_sessions (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			class_id UUID NOT NULL REFERENCES classes(id),
			date DATE NOT NULL,
			start_time VARCHAR(10),
			end_time VARCHAR(10),
			teacher_id UUID REFERENCES users(id),
			records JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attendance_sessions_class_date ON attendance_sessions (class_id, date)`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id TEXT PRIMARY KEY,
			student_id UUID NOT NULL,
			student_name TEXT,
			student_code TEXT,
			class_id UUID NOT NULL,
			class_name TEXT,
			class_code TEXT,
			subject TEXT,
			month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
			year INT NOT NULL,
			total_sessions INT NOT NULL DEFAULT 0,
			price_per_session NUMERIC NOT NULL DEFAULT 0,
			total_amount NUMERIC NOT NULL DEFAULT 0,
			discount NUMERIC NOT NULL DEFAULT 0,
			debt NUMERIC,
			final_amount NUMERIC,
			status TEXT NOT NULL DEFAULT 'unpaid',
			paid_at TIMESTAMPTZ,
			sessions JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (student_id, class_id, month, year)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_student_period ON invoices (student_id, year, month)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_period ON invoices (year, month)`,

		`CREATE TABLE IF NOT EXISTS teacher_rates (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			teacher_id UUID UNIQUE NOT NULL REFERENCES users(id),
			rate_per_session NUMERIC NOT NULL DEFAULT 0,
			effective_date DATE NOT NULL DEFAULT CURRENT_DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE TABLE IF NOT EXISTS teacher_payments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			teacher_id UUID NOT NULL REFERENCES users(id),
			amount NUMERIC NOT NULL,
			type VARCHAR(20) NOT NULL DEFAULT 'sessions',
			month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
			year INT NOT NULL,
			paid_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			reference VARCHAR(100),
			notes TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	if err := createInvoiceNotifyTrigger(db); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// createInvoiceNotifyTrigger emits a NOTIFY on every invoice write so
// connected listeners see changes as they land.
func createInvoiceNotifyTrigger(db *sql.DB) error {
	function := `
		CREATE OR REPLACE FUNCTION notify_invoice_change() RETURNS trigger AS $$
		BEGIN
			PERFORM pg_notify('invoice_changes', COALESCE(NEW.id, OLD.id));
			RETURN COALESCE(NEW, OLD);
		END;
		$$ LANGUAGE plpgsql;
	`
	if _, err := db.Exec(function); err != nil {
		log.Printf("Failed to create notify function: %v", err)
		return err
	}

	trigger := `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_trigger WHERE tgname = 'invoices_notify'
			) THEN
				CREATE TRIGGER invoices_notify
				AFTER INSERT OR UPDATE OR DELETE ON invoices
				FOR EACH ROW EXECUTE FUNCTION notify_invoice_change();
			END IF;
		END $$;
	`
	if _, err := db.Exec(trigger); err != nil {
		log.Printf("Failed to create notify trigger: %v", err)
		return err
	}
	return nil
}
