package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/Freeeeeet/salon_admin/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateServiceRequiresExistingCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCatalogService(f.stores, zap.NewNop())

	ghost := "ghost"
	var verr *model.ValidationError
	err := svc.CreateService(ctx, &model.Service{Name: "Nails", Description: "Manikyr", Price: 250, CategoryID: &ghost})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category_id", verr.Field)

	err = svc.CreateService(ctx, &model.Service{Name: "Nails", Price: 250, CategoryID: &f.category.ID})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "description", verr.Field)

	nails := &model.Service{Name: "Nails", Description: "Manikyr", Price: 250, CategoryID: &f.category.ID}
	require.NoError(t, svc.CreateService(ctx, nails))
	assert.NotEmpty(t, nails.ID)
}

func TestDeleteCategoryDetachesServices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCatalogService(f.stores, zap.NewNop())

	require.NoError(t, svc.DeleteCategory(ctx, f.category.ID))

	got, err := svc.GetService(ctx, f.haircut.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	assert.ErrorIs(t, svc.DeleteCategory(ctx, f.category.ID), repository.ErrNotFound)
}

func TestDeleteServiceKeepsBookingHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	catalog := NewCatalogService(f.stores, zap.NewNop())
	availability := NewAvailabilityService(f.stores, nil, "", zap.NewNop())

	slot := f.addSlot(t, f.haircut.ID, june10, tod(10, 0), tod(10, 30), false)
	_, err := availability.BookSlot(ctx, slot.ID, BookingIntent{CustomerID: f.customer.ID, PaymentStatus: model.PaymentPaid})
	require.NoError(t, err)

	require.NoError(t, catalog.DeleteService(ctx, f.haircut.ID))

	_, err = f.stores.Slots.GetByID(ctx, slot.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// Бронирование удалённой услуги пропускается в сводке без ошибки
	stats := NewStatsService(f.stores, zap.NewNop())
	summary, err := stats.PaymentSummary(ctx, PeriodFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Revenue[model.PaymentPaid])
}

func TestUpdateCategoryAndService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCatalogService(f.stores, zap.NewNop())

	f.category.Description = "Allt för håret"
	require.NoError(t, svc.UpdateCategory(ctx, f.category))

	f.haircut.Price = 350
	require.NoError(t, svc.UpdateService(ctx, f.haircut))
	got, err := svc.GetService(ctx, f.haircut.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(350), got.Price)

	var verr *model.ValidationError
	assert.ErrorAs(t, svc.UpdateCategory(ctx, &model.Category{ID: f.category.ID}), &verr)
}

func TestCustomerCRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCustomerService(f.stores, zap.NewNop())

	var verr *model.ValidationError
	require.ErrorAs(t, svc.Create(ctx, &model.Customer{Name: "Erik", Email: "erik", Phone: "070"}), &verr)
	assert.Equal(t, "email", verr.Field)

	erik := &model.Customer{Name: " Erik ", Email: "erik@example.se", Phone: "070"}
	require.NoError(t, svc.Create(ctx, erik))
	assert.Equal(t, "Erik", erik.Name)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	erik.Phone = "071"
	require.NoError(t, svc.Update(ctx, erik))
	got, err := svc.Get(ctx, erik.ID)
	require.NoError(t, err)
	assert.Equal(t, "071", got.Phone)

	require.NoError(t, svc.Delete(ctx, erik.ID))
	_, err = svc.Get(ctx, erik.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
