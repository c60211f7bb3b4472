package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []struct {
	name string
	ddl  string
}{
	{"profiles", `
		CREATE TABLE IF NOT EXISTS profiles (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			mobile        TEXT,
			age           INT,
			gender        TEXT,
			role          TEXT NOT NULL DEFAULT 'customer',
			password_hash TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"buses", `
		CREATE TABLE IF NOT EXISTS buses (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			number      TEXT NOT NULL UNIQUE,
			coach_type  TEXT NOT NULL,
			total_seats INT NOT NULL,
			amenities   TEXT[] NOT NULL DEFAULT '{}',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"trips", `
		CREATE TABLE IF NOT EXISTS trips (
			id             TEXT PRIMARY KEY,
			bus_id         TEXT NOT NULL REFERENCES buses(id),
			from_city      TEXT NOT NULL,
			to_city        TEXT NOT NULL,
			departure_time TIMESTAMPTZ NOT NULL,
			arrival_time   TIMESTAMPTZ NOT NULL,
			base_price     BIGINT NOT NULL,
			status         TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"trips_route_idx", `
		CREATE INDEX IF NOT EXISTS trips_route_idx ON trips (LOWER(from_city), LOWER(to_city), departure_time)`},
	{"seats", `
		CREATE TABLE IF NOT EXISTS seats (
			id          TEXT PRIMARY KEY,
			trip_id     TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
			seat_number INT NOT NULL,
			row_no      INT NOT NULL,
			col_no      INT NOT NULL,
			deck        TEXT NOT NULL,
			is_single   BOOLEAN NOT NULL DEFAULT FALSE,
			price       BIGINT NOT NULL DEFAULT 0,
			status      TEXT,
			booking_id  TEXT
		)`},
	{"promo_codes", `
		CREATE TABLE IF NOT EXISTS promo_codes (
			id                 TEXT PRIMARY KEY,
			code               TEXT NOT NULL UNIQUE,
			discount_type      TEXT NOT NULL,
			discount_value     NUMERIC NOT NULL,
			min_booking_amount BIGINT NOT NULL DEFAULT 0,
			max_discount       BIGINT,
			valid_from         TIMESTAMPTZ NOT NULL,
			valid_until        TIMESTAMPTZ NOT NULL,
			usage_limit        INT,
			used_count         INT NOT NULL DEFAULT 0,
			is_active          BOOLEAN NOT NULL DEFAULT TRUE,
			created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"bookings", `
		CREATE TABLE IF NOT EXISTS bookings (
			id           TEXT PRIMARY KEY,
			trip_id      TEXT NOT NULL REFERENCES trips(id),
			user_id      TEXT,
			seat_ids     TEXT[] NOT NULL,
			route_from   TEXT NOT NULL,
			route_to     TEXT NOT NULL,
			journey_date DATE NOT NULL,
			subtotal     BIGINT NOT NULL,
			tax          BIGINT NOT NULL,
			discount     BIGINT NOT NULL,
			promo_code   TEXT,
			total_amount BIGINT NOT NULL,
			payment_id   TEXT NOT NULL,
			status       TEXT NOT NULL,
			details      JSONB NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"payments", `
		CREATE TABLE IF NOT EXISTS payments (
			id              TEXT PRIMARY KEY,
			booking_id      TEXT NOT NULL,
			amount          BIGINT NOT NULL,
			method          TEXT NOT NULL,
			status          TEXT NOT NULL,
			provider_ref    TEXT NOT NULL DEFAULT '',
			idempotency_key TEXT NOT NULL UNIQUE,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"mark_seats_booked", `
		CREATE OR REPLACE FUNCTION mark_seats_booked(p_trip TEXT, p_booking TEXT, p_seats TEXT[])
		RETURNS INT AS $$
		DECLARE
			updated INT;
		BEGIN
			UPDATE seats
			SET status = 'booked', booking_id = p_booking
			WHERE trip_id = p_trip
			  AND id = ANY(p_seats)
			  AND (status IS NULL OR status = 'available' OR booking_id = p_booking);
			GET DIAGNOSTICS updated = ROW_COUNT;
			RETURN updated;
		END;
		$$ LANGUAGE plpgsql`},
}

// InitSchema creates the tables and the seat booking procedure when missing.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("creating %s: %w", s.name, err)
		}
	}
	return nil
}
