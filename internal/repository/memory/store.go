// Package memory хранилище в памяти с той же семантикой, что и Postgres-репозитории.
// Используется в тестах и при STORE=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository"
	"github.com/google/uuid"
)

type Store struct {
	mu          sync.Mutex
	now         func() time.Time
	categories  map[string]model.Category
	services    map[string]model.Service
	customers   map[string]model.Customer
	employees   map[string]model.Employee
	assignments map[model.EmployeeService]struct{}
	slots       map[string]model.Slot
	bookings    map[string]model.Booking
	openHours   map[int64]model.OpenHours
}

func New() *Store {
	s := &Store{
		now:         time.Now,
		categories:  make(map[string]model.Category),
		services:    make(map[string]model.Service),
		customers:   make(map[string]model.Customer),
		employees:   make(map[string]model.Employee),
		assignments: make(map[model.EmployeeService]struct{}),
		slots:       make(map[string]model.Slot),
		bookings:    make(map[string]model.Booking),
		openHours:   make(map[int64]model.OpenHours),
	}
	// Та же раскладка, что и в миграции: id 1..7 = понедельник..воскресенье
	for i := int64(1); i <= 7; i++ {
		s.openHours[i] = model.OpenHours{ID: i, Weekday: time.Weekday(i % 7)}
	}
	return s
}

func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s} }
func (s *Store) Services() *ServiceRepository   { return &ServiceRepository{s} }
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{s} }
func (s *Store) Employees() *EmployeeRepository { return &EmployeeRepository{s} }
func (s *Store) Slots() *SlotRepository         { return &SlotRepository{s} }
func (s *Store) Bookings() *BookingRepository   { return &BookingRepository{s} }
func (s *Store) OpenHours() *OpenHoursRepository {
	return &OpenHoursRepository{s}
}

func notFound(op string) error {
	return fmt.Errorf("%s: %w", op, repository.ErrNotFound)
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func live(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, repository.ErrTimeout, err)
	}
	return nil
}

type CategoryRepository struct{ s *Store }

func (r *CategoryRepository) Create(ctx context.Context, c *model.Category) error {
	if err := live(ctx, "create category"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = newID(c.ID)
	c.CreatedAt = r.s.now()
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	if err := live(ctx, "get category by id"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, notFound("get category by id")
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*model.Category, error) {
	if err := live(ctx, "list categories"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *model.Category) error {
	if err := live(ctx, "update category"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.categories[c.ID]
	if !ok {
		return notFound("update category")
	}
	old.Name, old.Description = c.Name, c.Description
	r.s.categories[c.ID] = old
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if err := live(ctx, "delete category"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return notFound("delete category")
	}
	delete(r.s.categories, id)
	// ON DELETE SET NULL
	for sid, svc := range r.s.services {
		if svc.CategoryID != nil && *svc.CategoryID == id {
			svc.CategoryID = nil
			r.s.services[sid] = svc
		}
	}
	return nil
}

type ServiceRepository struct{ s *Store }

func (r *ServiceRepository) Create(ctx context.Context, svc *model.Service) error {
	if err := live(ctx, "create service"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc.ID = newID(svc.ID)
	svc.CreatedAt = r.s.now()
	r.s.services[svc.ID] = *svc
	return nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*model.Service, error) {
	if err := live(ctx, "get service by id"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, notFound("get service by id")
	}
	return &svc, nil
}

func (r *ServiceRepository) List(ctx context.Context) ([]*model.Service, error) {
	if err := live(ctx, "list services"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Service, 0, len(r.s.services))
	for _, svc := range r.s.services {
		svc := svc
		out = append(out, &svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ServiceRepository) Update(ctx context.Context, svc *model.Service) error {
	if err := live(ctx, "update service"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.services[svc.ID]
	if !ok {
		return notFound("update service")
	}
	old.Name, old.Description, old.Price, old.CategoryID = svc.Name, svc.Description, svc.Price, svc.CategoryID
	r.s.services[svc.ID] = old
	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	if err := live(ctx, "delete service"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[id]; !ok {
		return notFound("delete service")
	}
	delete(r.s.services, id)
	// ON DELETE CASCADE для слотов и назначений; бронирования остаются
	for slotID, slot := range r.s.slots {
		if slot.ServiceID == id {
			delete(r.s.slots, slotID)
		}
	}
	for a := range r.s.assignments {
		if a.ServiceID == id {
			delete(r.s.assignments, a)
		}
	}
	return nil
}

type CustomerRepository struct{ s *Store }

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	if err := live(ctx, "create customer"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = newID(c.ID)
	c.CreatedAt = r.s.now()
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	if err := live(ctx, "get customer by id"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, notFound("get customer by id")
	}
	return &c, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	if err := live(ctx, "list customers"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	if err := live(ctx, "update customer"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.customers[c.ID]
	if !ok {
		return notFound("update customer")
	}
	old.Name, old.Email, old.Phone = c.Name, c.Email, c.Phone
	r.s.customers[c.ID] = old
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	if err := live(ctx, "delete customer"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return notFound("delete customer")
	}
	delete(r.s.customers, id)
	return nil
}

type EmployeeRepository struct{ s *Store }

func (r *EmployeeRepository) Create(ctx context.Context, e *model.Employee) error {
	if err := live(ctx, "create employee"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.employees {
		if strings.EqualFold(existing.Email, e.Email) {
			return fmt.Errorf("create employee: %w: email already registered", repository.ErrConflict)
		}
	}
	e.ID = newID(e.ID)
	e.CreatedAt = r.s.now()
	r.s.employees[e.ID] = *e
	return nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	if err := live(ctx, "get employee by id"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return nil, notFound("get employee by id")
	}
	return &e, nil
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*model.Employee, error) {
	if err := live(ctx, "get employee by email"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employees {
		if strings.EqualFold(e.Email, email) {
			return &e, nil
		}
	}
	return nil, notFound("get employee by email")
}

func (r *EmployeeRepository) List(ctx context.Context, role string) ([]*model.Employee, error) {
	if err := live(ctx, "list employees"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		if role != "" && e.Role != role {
			continue
		}
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].Email < out[j].Email
	})
	return out, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *model.Employee) error {
	if err := live(ctx, "update employee"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.employees[e.ID]
	if !ok {
		return notFound("update employee")
	}
	old.Email, old.DisplayName, old.Role = e.Email, e.DisplayName, e.Role
	r.s.employees[e.ID] = old
	return nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	if err := live(ctx, "delete employee"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[id]; !ok {
		return notFound("delete employee")
	}
	delete(r.s.employees, id)
	for a := range r.s.assignments {
		if a.EmployeeID == id {
			delete(r.s.assignments, a)
		}
	}
	return nil
}

func (r *EmployeeRepository) ListAssignments(ctx context.Context) ([]model.EmployeeService, error) {
	if err := live(ctx, "list employee services"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.EmployeeService, 0, len(r.s.assignments))
	for a := range r.s.assignments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].ServiceID < out[j].ServiceID
	})
	return out, nil
}

func (r *EmployeeRepository) AddAssignment(ctx context.Context, a model.EmployeeService) error {
	if err := live(ctx, "add employee service"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(a); err != nil {
		return fmt.Errorf("add employee service: %w", err)
	}
	r.s.assignments[a] = struct{}{}
	return nil
}

func (r *EmployeeRepository) ReplaceAssignments(ctx context.Context, a model.EmployeeService) error {
	if err := live(ctx, "replace employee services"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(a); err != nil {
		return fmt.Errorf("replace employee services: %w", err)
	}
	for existing := range r.s.assignments {
		if existing.EmployeeID == a.EmployeeID {
			delete(r.s.assignments, existing)
		}
	}
	r.s.assignments[a] = struct{}{}
	return nil
}

func (r *EmployeeRepository) RemoveAssignment(ctx context.Context, a model.EmployeeService) error {
	if err := live(ctx, "remove employee service"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.assignments[a]; !ok {
		return notFound("remove employee service")
	}
	delete(r.s.assignments, a)
	return nil
}

// checkRefs имитирует внешние ключи employee_services
func (r *EmployeeRepository) checkRefs(a model.EmployeeService) error {
	if _, ok := r.s.employees[a.EmployeeID]; !ok {
		return fmt.Errorf("%w: unknown employee %s", repository.ErrRemote, a.EmployeeID)
	}
	if _, ok := r.s.services[a.ServiceID]; !ok {
		return fmt.Errorf("%w: unknown service %s", repository.ErrRemote, a.ServiceID)
	}
	return nil
}

type SlotRepository struct{ s *Store }

func (r *SlotRepository) Create(ctx context.Context, slot *model.Slot) error {
	if err := live(ctx, "create slot"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[slot.ServiceID]; !ok {
		return fmt.Errorf("create slot: %w: unknown service %s", repository.ErrRemote, slot.ServiceID)
	}
	slot.ID = newID(slot.ID)
	r.s.slots[slot.ID] = *slot
	return nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id string) (*model.Slot, error) {
	if err := live(ctx, "get slot by id"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, notFound("get slot by id")
	}
	return &slot, nil
}

func (r *SlotRepository) List(ctx context.Context, filter model.SlotFilter) ([]*model.Slot, error) {
	if err := live(ctx, "list slots"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Slot
	for _, slot := range r.s.slots {
		if filter.ServiceID != nil && slot.ServiceID != *filter.ServiceID {
			continue
		}
		if filter.Date != nil && slot.Date != *filter.Date {
			continue
		}
		if filter.IsBooked != nil && slot.IsBooked != *filter.IsBooked {
			continue
		}
		slot := slot
		out = append(out, &slot)
	}
	sortSlots(out)
	return out, nil
}

func (r *SlotRepository) ListBetween(ctx context.Context, from, to model.Date, booked bool) ([]*model.Slot, error) {
	if err := live(ctx, "list slots between"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Slot
	for _, slot := range r.s.slots {
		if slot.IsBooked != booked || slot.Date.Before(from) || !slot.Date.Before(to) {
			continue
		}
		slot := slot
		out = append(out, &slot)
	}
	sortSlots(out)
	return out, nil
}

func (r *SlotRepository) UpdateBooked(ctx context.Context, id string, booked bool) error {
	if err := live(ctx, "update slot booked"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[id]
	if !ok {
		return notFound("update slot booked")
	}
	slot.IsBooked = booked
	r.s.slots[id] = slot
	return nil
}

func (r *SlotRepository) MarkBooked(ctx context.Context, id string) error {
	if err := live(ctx, "mark slot booked"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[id]
	if !ok {
		return notFound("mark slot booked")
	}
	if slot.IsBooked {
		return fmt.Errorf("mark slot booked: %w", repository.ErrConflict)
	}
	slot.IsBooked = true
	r.s.slots[id] = slot
	return nil
}

func (r *SlotRepository) Delete(ctx context.Context, id string) error {
	if err := live(ctx, "delete slot"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.slots[id]; !ok {
		return notFound("delete slot")
	}
	delete(r.s.slots, id)
	return nil
}

func sortSlots(slots []*model.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
}

type BookingRepository struct{ s *Store }

func (r *BookingRepository) Create(ctx context.Context, b *model.Booking) error {
	if err := live(ctx, "create booking"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	// UNIQUE (slot_id)
	if b.SlotID != nil {
		for _, existing := range r.s.bookings {
			if existing.SlotID != nil && *existing.SlotID == *b.SlotID {
				return fmt.Errorf("create booking: %w: slot %s already has a booking", repository.ErrConflict, *b.SlotID)
			}
		}
	}
	b.ID = newID(b.ID)
	r.s.bookings[b.ID] = *b
	return nil
}

func (r *BookingRepository) List(ctx context.Context, filter model.BookingFilter) ([]*model.Booking, error) {
	if err := live(ctx, "list bookings"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*model.Booking
	for _, b := range r.s.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.Date != nil && b.BookingDate != *filter.Date {
			continue
		}
		if filter.ServiceID != nil && b.ServiceID != *filter.ServiceID {
			continue
		}
		if filter.CreatedAfter != nil && !b.CreatedAt.After(*filter.CreatedAfter) {
			continue
		}
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.BookingDate != b.BookingDate {
			return a.BookingDate.Before(b.BookingDate)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})
	return out, nil
}

func (r *BookingRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	if err := live(ctx, "count new bookings"); err != nil {
		return 0, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, b := range r.s.bookings {
		if b.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

type OpenHoursRepository struct{ s *Store }

func (r *OpenHoursRepository) List(ctx context.Context) ([]*model.OpenHours, error) {
	if err := live(ctx, "list open hours"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*model.OpenHours, 0, len(r.s.openHours))
	for _, h := range r.s.openHours {
		h := h
		out = append(out, &h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *OpenHoursRepository) Update(ctx context.Context, h *model.OpenHours) error {
	if err := live(ctx, "update open hours"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	old, ok := r.s.openHours[h.ID]
	if !ok {
		return notFound("update open hours")
	}
	old.OpenTime, old.CloseTime = h.OpenTime, h.CloseTime
	r.s.openHours[h.ID] = old
	return nil
}
