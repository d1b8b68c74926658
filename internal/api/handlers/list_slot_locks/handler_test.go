package list_slot_locks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookati/Bookati-BookingService/internal/service/locks/models"
)

type serviceFake struct {
	gotSlotIDs []uuid.UUID
}

func (f *serviceFake) ListBySlots(ctx context.Context, slotIDs []uuid.UUID) (*models.SlotLocksResponse, error) {
	f.gotSlotIDs = slotIDs
	return &models.SlotLocksResponse{Locks: []models.SlotLockInfo{}}, nil
}

type loggerFake struct{}

func (loggerFake) Info(format string, v ...interface{})  {}
func (loggerFake) Warn(format string, v ...interface{})  {}
func (loggerFake) Error(format string, v ...interface{}) {}

func TestHandle_SlotIDForms(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	cases := []struct {
		name  string
		query string
		want  []uuid.UUID
	}{
		{"csv", "slot_ids=" + a.String() + "," + b.String(), []uuid.UUID{a, b}},
		{"repeated param", "slot_ids=" + a.String() + "&slot_ids=" + b.String(), []uuid.UUID{a, b}},
		{"mixed", "slot_ids=" + a.String() + "," + b.String() + "&slot_ids=" + c.String(), []uuid.UUID{a, b, c}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &serviceFake{}
			h := NewHandler(svc, loggerFake{})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/locks?"+tc.query, nil)
			h.Handle(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, svc.gotSlotIDs)
		})
	}
}

func TestHandle_BadInput(t *testing.T) {
	t.Run("missing slot_ids", func(t *testing.T) {
		h := NewHandler(&serviceFake{}, loggerFake{})

		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/locks", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("one bad id rejects the whole request", func(t *testing.T) {
		svc := &serviceFake{}
		h := NewHandler(svc, loggerFake{})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/locks?slot_ids="+uuid.New().String()+",not-a-uuid", nil)
		h.Handle(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, svc.gotSlotIDs)
	})
}
