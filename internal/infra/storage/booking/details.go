package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/pkg/dbmetrics"
	"github.com/m04kA/SMC-OpenHouseService/pkg/psqlbuilder"
)

var detailsColumns = append(append([]string{}, bookingColumns...),
	"c.id",
	"c.email",
	"c.nome",
	"c.cognome",
	"c.telefono",
	"c.privacy_accepted",
	"s.id",
	"s.event_id",
	"s.start_time",
	"s.end_time",
	"s.capacity",
	"e.id",
	"e.property_id",
	"e.agent_id",
	"e.event_date",
	"e.start_time",
	"e.end_time",
	"e.slot_duration",
	"e.max_participants",
	"e.status",
	"e.is_active",
	"p.id",
	"p.agent_id",
	"p.titolo",
	"p.tipo",
	"p.prezzo",
	"p.indirizzo",
	"p.citta",
	"p.provincia",
	"p.brochure_url",
	"p.is_active",
	"a.id",
	"a.email",
	"a.nome",
	"a.cognome",
	"a.telefono",
	"a.role",
	"a.is_active",
)

func detailsQuery() squirrel.SelectBuilder {
	return psqlbuilder.Select(detailsColumns...).
		From("bookings b").
		Join("clients c ON c.id = b.client_id").
		Join("time_slots s ON s.id = b.slot_id").
		Join("open_house_events e ON e.id = b.event_id").
		Join("properties p ON p.id = e.property_id").
		Join("agents a ON a.id = b.agent_id")
}

// GetDetails получает бронирование вместе с клиентом, слотом, событием, объектом и агентом
func (r *Repository) GetDetails(ctx context.Context, id int64) (*domain.BookingDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsQuery().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDetails - build select query: %v", ErrBuildQuery, err)
	}

	details, err := scanDetails(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDetails - scan row: %w", ErrScanRow, err)
	}

	return details, nil
}

// ListDetails получает бронирования события с фильтрацией.
// По умолчанию отменённые (включая legacy no_show + cancelled_by_agent) исключаются.
func (r *Repository) ListDetails(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := detailsQuery().
		Where(squirrel.Eq{"b.event_id": filter.EventID})

	cancelled := squirrel.Or{
		squirrel.Eq{"b.status": domain.StatusCancelled},
		squirrel.Expr("(b.status = ? AND COALESCE(b.cancellation_reason, '') = ?)",
			string(domain.StatusNoShow), domain.DefaultCancellationReason),
	}

	switch {
	case filter.Status != nil && *filter.Status == domain.StatusCancelled:
		selectBuilder = selectBuilder.Where(cancelled)
	case filter.Status != nil:
		selectBuilder = selectBuilder.
			Where(squirrel.Eq{"b.status": *filter.Status}).
			Where(occupiesSeat)
	case !filter.IncludeCancelled:
		selectBuilder = selectBuilder.Where(occupiesSeat)
	}

	query, args, err := selectBuilder.
		OrderBy("s.start_time ASC", "b.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetails - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetails - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.BookingDetails, 0)
	for rows.Next() {
		details, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDetails - scan row: %v", ErrScanRow, err)
		}
		result = append(result, details)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDetails - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

func scanDetails(row rowScanner) (*domain.BookingDetails, error) {
	var f bookingFields
	var d domain.BookingDetails

	dest := append(f.dest(),
		&d.Client.ID,
		&d.Client.Email,
		&d.Client.FirstName,
		&d.Client.LastName,
		&d.Client.Phone,
		&d.Client.PrivacyAccepted,
		&d.Slot.ID,
		&d.Slot.EventID,
		&d.Slot.StartTime,
		&d.Slot.EndTime,
		&d.Slot.Capacity,
		&d.Event.ID,
		&d.Event.PropertyID,
		&d.Event.AgentID,
		&d.Event.EventDate,
		&d.Event.StartTime,
		&d.Event.EndTime,
		&d.Event.SlotDuration,
		&d.Event.MaxParticipants,
		&d.Event.Status,
		&d.Event.IsActive,
		&d.Property.ID,
		&d.Property.AgentID,
		&d.Property.Title,
		&d.Property.Type,
		&d.Property.Price,
		&d.Property.Address,
		&d.Property.City,
		&d.Property.Province,
		&d.Property.BrochureURL,
		&d.Property.IsActive,
		&d.Agent.ID,
		&d.Agent.Email,
		&d.Agent.FirstName,
		&d.Agent.LastName,
		&d.Agent.Phone,
		&d.Agent.Role,
		&d.Agent.IsActive,
	)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	d.Booking = *f.result()
	return &d, nil
}
