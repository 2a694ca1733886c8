package checkAvailability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hbBooking/internal/booking"
	"hbBooking/internal/http-server/handlers/booking/checkAvailability/mocks"
	"hbBooking/internal/lib/logger/handlers/slogdiscard"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCheckAvailabilityHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		url            string
		mockSetup      func(m *mocks.AvailabilityChecker)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Available",
			url:  "/check-availability?date=1403-03-21&time=14:00",
			mockSetup: func(m *mocks.AvailabilityChecker) {
				m.On("CheckAvailability", mock.Anything, "1403-03-21", "14:00").Return(true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","available":true}`,
		},
		{
			name: "Taken",
			url:  "/check-availability?date=2024-06-10&time=14:00:00",
			mockSetup: func(m *mocks.AvailabilityChecker) {
				m.On("CheckAvailability", mock.Anything, "2024-06-10", "14:00:00").Return(false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","available":false}`,
		},
		{
			name:           "Missing time",
			url:            "/check-availability?date=2024-06-10",
			mockSetup:      func(m *mocks.AvailabilityChecker) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field Time is a required field"}`,
		},
		{
			name:           "Missing both",
			url:            "/check-availability",
			mockSetup:      func(m *mocks.AvailabilityChecker) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field Date is a required field, field Time is a required field"}`,
		},
		{
			name: "Invalid date",
			url:  "/check-availability?date=1403-13-01&time=14:00",
			mockSetup: func(m *mocks.AvailabilityChecker) {
				m.On("CheckAvailability", mock.Anything, "1403-13-01", "14:00").
					Return(false, &booking.ValidationError{Field: "date", Message: "invalid date format"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"date: invalid date format"}`,
		},
		{
			name: "Internal server error",
			url:  "/check-availability?date=2024-06-10&time=14:00",
			mockSetup: func(m *mocks.AvailabilityChecker) {
				m.On("CheckAvailability", mock.Anything, "2024-06-10", "14:00").Return(false, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to check availability"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockChecker := mocks.NewAvailabilityChecker(t)
			tc.mockSetup(mockChecker)

			router := chi.NewRouter()
			router.Get("/check-availability", New(logger, mockChecker))

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
		})
	}
}
