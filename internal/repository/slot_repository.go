package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const slotColumns = `id, service_id, date, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), is_booked`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(db base.DB, timeout time.Duration) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(db, timeout)}
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}

	_, err := r.ExecAffected(ctx, "create slot", `
		INSERT INTO available_slots (id, service_id, date, start_time, end_time, is_booked)
		VALUES ($1, $2, $3, $4::time, $5::time, $6)
	`,
		slot.ID,
		slot.ServiceID,
		slot.Date.Time(),
		slot.StartTime.String(),
		slot.EndTime.String(),
		slot.IsBooked,
	)
	return err
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM available_slots WHERE id = $1`

	var (
		slot  model.Slot
		date  time.Time
		start string
		end   string
	)
	err := r.QueryOne(ctx, "get slot by id", query, []any{id},
		&slot.ID, &slot.ServiceID, &date, &start, &end, &slot.IsBooked)
	if err != nil {
		return nil, err
	}
	if err := fillSlot(&slot, date, start, end); err != nil {
		return nil, fmt.Errorf("get slot by id: %w", err)
	}
	return &slot, nil
}

// List возвращает слоты, подходящие под все заданные фильтры
func (r *SlotRepository) List(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ServiceID != nil {
		args = append(args, *filter.ServiceID)
		conds = append(conds, fmt.Sprintf("service_id = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, filter.Date.Time())
		conds = append(conds, fmt.Sprintf("date = $%d", len(args)))
	}
	if filter.IsBooked != nil {
		args = append(args, *filter.IsBooked)
		conds = append(conds, fmt.Sprintf("is_booked = $%d", len(args)))
	}

	query := `SELECT ` + slotColumns + ` FROM available_slots`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date, start_time, id`

	var slots []*model.Slot
	err := r.QueryAll(ctx, "list slots", query, args, func(rows pgx.Rows) error {
		var (
			slot  model.Slot
			date  time.Time
			start string
			end   string
		)
		if err := rows.Scan(&slot.ID, &slot.ServiceID, &date, &start, &end, &slot.IsBooked); err != nil {
			return fmt.Errorf("scan slot: %w", err)
		}
		if err := fillSlot(&slot, date, start, end); err != nil {
			return err
		}
		slots = append(slots, &slot)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// ListBetween возвращает слоты в диапазоне дат [from, to)
func (r *SlotRepository) ListBetween(ctx context.Context, from, to model.Date, booked bool) ([]*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM available_slots
		WHERE date >= $1 AND date < $2 AND is_booked = $3
		ORDER BY date, start_time, id`

	var slots []*model.Slot
	err := r.QueryAll(ctx, "list slots between", query, []any{from.Time(), to.Time(), booked}, func(rows pgx.Rows) error {
		var (
			slot  model.Slot
			date  time.Time
			start string
			end   string
		)
		if err := rows.Scan(&slot.ID, &slot.ServiceID, &date, &start, &end, &slot.IsBooked); err != nil {
			return fmt.Errorf("scan slot: %w", err)
		}
		if err := fillSlot(&slot, date, start, end); err != nil {
			return err
		}
		slots = append(slots, &slot)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// UpdateBooked безусловно выставляет флаг is_booked
func (r *SlotRepository) UpdateBooked(ctx context.Context, id string, booked bool) error {
	return r.ExecOne(ctx, "update slot booked",
		`UPDATE available_slots SET is_booked = $1 WHERE id = $2`, booked, id)
}

// MarkBooked бронирует слот только если он ещё свободен (compare-and-swap)
func (r *SlotRepository) MarkBooked(ctx context.Context, id string) error {
	affected, err := r.ExecAffected(ctx, "mark slot booked",
		`UPDATE available_slots SET is_booked = true WHERE id = $1 AND is_booked = false`, id)
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	// Ноль строк: слот либо занят, либо не существует
	var exists bool
	err = r.QueryOne(ctx, "mark slot booked", `SELECT EXISTS(SELECT 1 FROM available_slots WHERE id = $1)`, []any{id}, &exists)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("mark slot booked: %w", ErrNotFound)
	}
	return fmt.Errorf("mark slot booked: %w", ErrConflict)
}

// Delete удаляет слот
func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	return r.ExecOne(ctx, "delete slot", `DELETE FROM available_slots WHERE id = $1`, id)
}

func fillSlot(slot *model.Slot, date time.Time, start, end string) error {
	slot.Date = model.DateOf(date)

	var err error
	if slot.StartTime, err = model.ParseTimeOfDay(start); err != nil {
		return fmt.Errorf("scan slot start: %w", err)
	}
	if slot.EndTime, err = model.ParseTimeOfDay(end); err != nil {
		return fmt.Errorf("scan slot end: %w", err)
	}
	return nil
}
