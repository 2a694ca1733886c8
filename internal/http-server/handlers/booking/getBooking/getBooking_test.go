package getBooking

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hbBooking/internal/booking"
	"hbBooking/internal/http-server/handlers/booking/getBooking/mocks"
	"hbBooking/internal/lib/logger/handlers/slogdiscard"
	"hbBooking/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetBookingHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	found := &models.Booking{
		ID:            42,
		CustomerName:  "Reza",
		CustomerEmail: "reza@example.com",
		CustomerPhone: "0912",
		BookingDate:   "2024-06-10",
		BookingTime:   "14:00:00",
		TeamSize:      2,
		Status:        models.StatusConfirmed,
		CreatedAt:     created,
		UpdatedAt:     created,
	}

	testCases := []struct {
		name           string
		bookingID      string
		mockSetup      func(m *mocks.BookingGetter)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "Success",
			bookingID: "42",
			mockSetup: func(m *mocks.BookingGetter) {
				m.On("Get", mock.Anything, int64(42)).Return(found, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"status": "OK",
				"booking": {
					"id": 42,
					"customer_name": "Reza",
					"customer_email": "reza@example.com",
					"customer_phone": "0912",
					"booking_date": "2024-06-10",
					"booking_time": "14:00:00",
					"team_size": 2,
					"status": "confirmed",
					"reminder_sent_24h": false,
					"reminder_sent_30min": false,
					"created_at": "2024-06-01T10:00:00Z",
					"updated_at": "2024-06-01T10:00:00Z"
				}
			}`,
		},
		{
			name:           "Invalid booking ID format",
			bookingID:      "abc",
			mockSetup:      func(m *mocks.BookingGetter) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid booking id format"}`,
		},
		{
			name:           "Non-positive booking ID",
			bookingID:      "0",
			mockSetup:      func(m *mocks.BookingGetter) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid booking id format"}`,
		},
		{
			name:      "Booking not found",
			bookingID: "999",
			mockSetup: func(m *mocks.BookingGetter) {
				m.On("Get", mock.Anything, int64(999)).Return(nil, booking.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"booking not found"}`,
		},
		{
			name:      "Internal server error",
			bookingID: "1",
			mockSetup: func(m *mocks.BookingGetter) {
				m.On("Get", mock.Anything, int64(1)).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get booking"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockGetter := mocks.NewBookingGetter(t)
			tc.mockSetup(mockGetter)

			router := chi.NewRouter()
			router.Get("/bookings/{id}", New(logger, mockGetter))

			req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("/bookings/%s", tc.bookingID), nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
		})
	}
}
