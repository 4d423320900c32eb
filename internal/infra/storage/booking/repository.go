package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-OpenHouseService/internal/domain"
	"github.com/m04kA/SMC-OpenHouseService/pkg/dbmetrics"
	"github.com/m04kA/SMC-OpenHouseService/pkg/psqlbuilder"
)

// bookingColumns колонки бронирования, таблица всегда под алиасом b
var bookingColumns = []string{
	"b.id",
	"b.event_id",
	"b.slot_id",
	"b.client_id",
	"b.agent_id",
	"b.status",
	"b.messaggio",
	"b.cancellation_reason",
	"b.cancelled_at",
	"b.questionnaire_completed",
	"b.confirmation_email_sent",
	"b.agent_notification_sent",
	"b.brochure_email_sent",
	"b.calendar_event_id",
	"b.calendar_event_link",
	"b.created_at",
	"b.updated_at",
}

// Условие "место занято": legacy-строки no_show + cancelled_by_agent считаются отменой
var occupiesSeat = squirrel.And{
	squirrel.Eq{"b.status": occupyingStatuses()},
	squirrel.Expr("NOT (b.status = ? AND COALESCE(b.cancellation_reason, '') = ?)",
		string(domain.StatusNoShow), domain.DefaultCancellationReason),
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Вызывается внутри транзакции допуска, после блокировки слота.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"event_id",
			"slot_id",
			"client_id",
			"agent_id",
			"status",
			"messaggio",
		).
		Values(
			booking.EventID,
			booking.SlotID,
			booking.ClientID,
			booking.AgentID,
			booking.Status,
			booking.Message,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE).
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// CountOccupying считает бронирования слота, занимающие место.
// Результат никогда не кэшируется: внутри транзакции допуска слот уже заблокирован.
func (r *Repository) CountOccupying(ctx context.Context, slotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := countOccupyingQuery(slotID).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountOccupying - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountOccupying - execute query: %w", ErrExecQuery, err)
	}

	return count, nil
}

// CountOccupyingByEvent возвращает занятость всех слотов события: slot_id -> количество
func (r *Repository) CountOccupyingByEvent(ctx context.Context, eventID int64) (map[int64]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("b.slot_id", "COUNT(*)").
		From("bookings b").
		Where(squirrel.Eq{"b.event_id": eventID}).
		Where(occupiesSeat).
		GroupBy("b.slot_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountOccupyingByEvent - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountOccupyingByEvent - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var slotID int64
		var count int
		if err := rows.Scan(&slotID, &count); err != nil {
			return nil, fmt.Errorf("%w: CountOccupyingByEvent - scan row: %v", ErrScanRow, err)
		}
		counts[slotID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountOccupyingByEvent - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// CountByEvent считает все бронирования события, включая отменённые
func (r *Repository) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"event_id": eventID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByEvent - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByEvent - execute query: %w", ErrExecQuery, err)
	}

	return count, nil
}

// Transition переводит бронирование из статуса from в статус to.
// Обновление условное: если статус уже изменился, возвращается ErrStatusConflict.
// Для StatusCancelled проставляются причина и время отмены.
func (r *Repository) Transition(ctx context.Context, id int64, from, to domain.BookingStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := transitionQuery(id, from, to, reason).ToSql()
	if err != nil {
		return fmt.Errorf("%w: Transition - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Transition - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Transition - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStatusConflict
	}

	return nil
}

// MarkNotificationSent выставляет флаг отправки уведомления указанного типа
func (r *Repository) MarkNotificationSent(ctx context.Context, id int64, kind domain.NotificationKind) error {
	var column string
	switch kind {
	case domain.NotificationClientConfirmation:
		column = "confirmation_email_sent"
	case domain.NotificationAgentNotification:
		column = "agent_notification_sent"
	case domain.NotificationBrochure:
		column = "brochure_email_sent"
	default:
		return fmt.Errorf("%w: %s", ErrUnknownNotification, kind)
	}

	return r.update(ctx, "MarkNotificationSent", id, map[string]interface{}{
		column: true,
	})
}

// SetCalendarEvent сохраняет идентификатор и ссылку созданного события календаря
func (r *Repository) SetCalendarEvent(ctx context.Context, id int64, eventID, link string) error {
	return r.update(ctx, "SetCalendarEvent", id, map[string]interface{}{
		"calendar_event_id":   eventID,
		"calendar_event_link": link,
	})
}

// MarkQuestionnaireCompleted отмечает анкету заполненной.
// Возвращает false, если флаг уже был выставлен.
func (r *Repository) MarkQuestionnaireCompleted(ctx context.Context, id int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("questionnaire_completed", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "questionnaire_completed": false}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: MarkQuestionnaireCompleted - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: MarkQuestionnaireCompleted - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: MarkQuestionnaireCompleted - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

// FindPendingQuestionnaire находит последнее подтверждённое бронирование клиента
// с незаполненной анкетой
func (r *Repository) FindPendingQuestionnaire(ctx context.Context, clientEmail string) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Join("clients c ON c.id = b.client_id").
		Where(squirrel.Eq{
			"c.email":                   clientEmail,
			"b.status":                  domain.StatusConfirmed,
			"b.questionnaire_completed": false,
		}).
		OrderBy("b.created_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindPendingQuestionnaire - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindPendingQuestionnaire - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListUndelivered возвращает подтверждённые бронирования, созданные в интервале [from, to),
// по которым ещё не отправлены подтверждение клиенту, уведомление агенту
// или брошюра после заполненной анкеты
func (r *Repository) ListUndelivered(ctx context.Context, from, to time.Time, limit uint64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		Where(squirrel.Eq{"b.status": domain.StatusConfirmed}).
		Where(squirrel.GtOrEq{"b.created_at": from}).
		Where(squirrel.Lt{"b.created_at": to}).
		Where(squirrel.Or{
			squirrel.Eq{"b.confirmation_email_sent": false},
			squirrel.Eq{"b.agent_notification_sent": false},
			squirrel.Eq{"b.calendar_event_id": nil},
			squirrel.And{
				squirrel.Eq{"b.questionnaire_completed": true, "b.brochure_email_sent": false},
				// Брошюру досылаем только если она есть у объекта
				squirrel.Expr(`EXISTS (SELECT 1 FROM open_house_events e
					JOIN properties p ON p.id = e.property_id
					WHERE e.id = b.event_id AND COALESCE(p.brochure_url, '') <> '')`),
			},
		}).
		OrderBy("b.id ASC").
		Limit(limit).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListUndelivered - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListUndelivered - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListUndelivered - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListUndelivered - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func (r *Repository) update(ctx context.Context, op string, id int64, values map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		SetMap(values).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

func countOccupyingQuery(slotID int64) squirrel.SelectBuilder {
	return psqlbuilder.Select("COUNT(*)").
		From("bookings b").
		Where(squirrel.Eq{"b.slot_id": slotID}).
		Where(occupiesSeat)
}

func transitionQuery(id int64, from, to domain.BookingStatus, reason string) squirrel.UpdateBuilder {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})

	if to == domain.StatusCancelled {
		updateBuilder = updateBuilder.
			Set("cancellation_reason", reason).
			Set("cancelled_at", squirrel.Expr("NOW()"))
	}
	return updateBuilder
}

func occupyingStatuses() []string {
	statuses := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}
