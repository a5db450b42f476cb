package app

import (
	"time"

	"github.com/Freeeeeet/salon_admin/internal/repository"
	"github.com/Freeeeeet/salon_admin/internal/repository/base"
	"github.com/Freeeeeet/salon_admin/internal/repository/memory"
	"github.com/Freeeeeet/salon_admin/internal/service"
)

// PostgresStores репозитории поверх pgx; timeout ограничивает каждый запрос
func PostgresStores(db base.DB, timeout time.Duration) service.Stores {
	return service.Stores{
		Slots:      repository.NewSlotRepository(db, timeout),
		Bookings:   repository.NewBookingRepository(db, timeout),
		Services:   repository.NewServiceRepository(db, timeout),
		Categories: repository.NewCategoryRepository(db, timeout),
		Customers:  repository.NewCustomerRepository(db, timeout),
		Employees:  repository.NewEmployeeRepository(db, timeout),
		OpenHours:  repository.NewOpenHoursRepository(db, timeout),
	}
}

// MemoryStores хранилище в памяти процесса (STORE=memory)
func MemoryStores(st *memory.Store) service.Stores {
	return service.Stores{
		Slots:      st.Slots(),
		Bookings:   st.Bookings(),
		Services:   st.Services(),
		Categories: st.Categories(),
		Customers:  st.Customers(),
		Employees:  st.Employees(),
		OpenHours:  st.OpenHours(),
	}
}
