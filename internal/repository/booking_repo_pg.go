package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/airdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	ListStalePending(ctx context.Context, before time.Time) ([]domain.Booking, error)
	Save(ctx context.Context, booking *domain.Booking) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, reference, customer_id, flight_id, flight_number, status, passengers, add_ons, payment, base_fare_cents, total_price_cents, created_at, confirmed_at, cancelled_at, updated_at`

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
}

func (r *PGBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return r.getOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE reference=$1`, reference)
}

func (r *PGBookingRepository) getOne(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, query, arg)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByFlight(ctx context.Context, flightID string) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE flight_id=$1 ORDER BY created_at`, flightID)
}

func (r *PGBookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE customer_id=$1 ORDER BY created_at DESC`, customerID)
}

func (r *PGBookingRepository) ListStalePending(ctx context.Context, before time.Time) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status=$1 AND created_at <= $2`, domain.BookingStatusPending, before)
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Save(ctx context.Context, booking *domain.Booking) error {
	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return err
	}
	addOns, err := json.Marshal(booking.AddOns)
	if err != nil {
		return err
	}
	pay, err := json.Marshal(booking.Payment)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, `INSERT INTO bookings (id, reference, customer_id, flight_id, flight_number, status, passengers, add_ons, payment, base_fare_cents, total_price_cents, created_at, confirmed_at, cancelled_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now())
		ON CONFLICT (id) DO UPDATE SET
			reference=EXCLUDED.reference,
			customer_id=EXCLUDED.customer_id,
			flight_id=EXCLUDED.flight_id,
			flight_number=EXCLUDED.flight_number,
			status=EXCLUDED.status,
			passengers=EXCLUDED.passengers,
			add_ons=EXCLUDED.add_ons,
			payment=EXCLUDED.payment,
			base_fare_cents=EXCLUDED.base_fare_cents,
			total_price_cents=EXCLUDED.total_price_cents,
			confirmed_at=EXCLUDED.confirmed_at,
			cancelled_at=EXCLUDED.cancelled_at,
			updated_at=now()`,
		booking.ID, booking.Reference, booking.CustomerID, booking.FlightID, booking.FlightNumber,
		booking.Status, passengers, addOns, pay, booking.BaseFareCents, booking.TotalPriceCents,
		booking.CreatedAt, booking.ConfirmedAt, booking.CancelledAt)
	return err
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	var passengers, addOns, pay []byte
	if err := row.Scan(&b.ID, &b.Reference, &b.CustomerID, &b.FlightID, &b.FlightNumber,
		&b.Status, &passengers, &addOns, &pay, &b.BaseFareCents, &b.TotalPriceCents,
		&b.CreatedAt, &b.ConfirmedAt, &b.CancelledAt, &b.UpdatedAt); err != nil {
		return err
	}
	if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
		return err
	}
	if err := json.Unmarshal(addOns, &b.AddOns); err != nil {
		return err
	}
	return json.Unmarshal(pay, &b.Payment)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
