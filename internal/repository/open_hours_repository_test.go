package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/salon_admin/internal/model"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenHoursListParsesClosedMarker(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT id, weekday, open_time, close_time FROM open_hours ORDER BY id`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "weekday", "open_time", "close_time"}).
			AddRow(int64(1), 1, "09:00", "17:00").
			AddRow(int64(7), 0, "Stängd", "Stängd"))

	hours, err := NewOpenHoursRepository(mock, time.Second).List(context.Background())
	require.NoError(t, err)
	require.Len(t, hours, 2)

	assert.Equal(t, time.Monday, hours[0].Weekday)
	require.NotNil(t, hours[0].OpenTime)
	assert.Equal(t, model.NewTimeOfDay(9, 0), *hours[0].OpenTime)
	assert.Equal(t, model.NewTimeOfDay(17, 0), *hours[0].CloseTime)

	assert.Equal(t, time.Sunday, hours[1].Weekday)
	assert.True(t, hours[1].Closed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenHoursUpdateWritesMarker(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`UPDATE open_hours SET open_time = \$1, close_time = \$2 WHERE id = \$3`).
		WithArgs("Stängd", "Stängd", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := NewOpenHoursRepository(mock, time.Second).Update(context.Background(), &model.OpenHours{ID: 3})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
