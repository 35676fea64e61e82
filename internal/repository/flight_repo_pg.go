package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/airdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	GetByNumber(ctx context.Context, number string) (*domain.Flight, error)
	ListByStatus(ctx context.Context, status domain.FlightStatus) ([]domain.Flight, error)
	Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error)
	Save(ctx context.Context, flight *domain.Flight) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, airline, origin, destination, departure_time, arrival_time, total_seats, available_seats, base_fare_cents, status, created_at, updated_at`

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return r.getOne(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, number string) (*domain.Flight, error) {
	return r.getOne(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_number=$1`, number)
}

func (r *PGFlightRepository) getOne(ctx context.Context, query string, arg any) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, query, arg)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) ListByStatus(ctx context.Context, status domain.FlightStatus) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights WHERE status=$1 ORDER BY departure_time`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin=$1 AND destination=$2 AND departure_time >= $3 AND departure_time < $4
		ORDER BY departure_time`,
		origin, destination, date, date.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

// Save does an insert-or-whole-record-replace, matching the gateway's
// last-writer-wins contract.
func (r *PGFlightRepository) Save(ctx context.Context, flight *domain.Flight) error {
	_, err := r.db.Exec(ctx, `INSERT INTO flights (id, flight_number, airline, origin, destination, departure_time, arrival_time, total_seats, available_seats, base_fare_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			flight_number=EXCLUDED.flight_number,
			airline=EXCLUDED.airline,
			origin=EXCLUDED.origin,
			destination=EXCLUDED.destination,
			departure_time=EXCLUDED.departure_time,
			arrival_time=EXCLUDED.arrival_time,
			total_seats=EXCLUDED.total_seats,
			available_seats=EXCLUDED.available_seats,
			base_fare_cents=EXCLUDED.base_fare_cents,
			status=EXCLUDED.status,
			updated_at=now()`,
		flight.ID, flight.Number, flight.Airline, flight.Origin, flight.Destination,
		flight.DepartureTime, flight.ArrivalTime, flight.TotalSeats, flight.AvailableSeats,
		flight.BaseFareCents, flight.Status)
	return err
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.Number, &f.Airline, &f.Origin, &f.Destination,
		&f.DepartureTime, &f.ArrivalTime, &f.TotalSeats, &f.AvailableSeats,
		&f.BaseFareCents, &f.Status, &f.CreatedAt, &f.UpdatedAt)
}

func scanFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
