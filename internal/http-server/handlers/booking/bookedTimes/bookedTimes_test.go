package bookedTimes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hbBooking/internal/booking"
	"hbBooking/internal/http-server/handlers/booking/bookedTimes/mocks"
	"hbBooking/internal/lib/logger/handlers/slogdiscard"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBookedTimesHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		url            string
		mockSetup      func(m *mocks.BookedTimesProvider)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Success",
			url:  "/booked-times?date=1403-03-21",
			mockSetup: func(m *mocks.BookedTimesProvider) {
				m.On("BookedTimes", mock.Anything, "1403-03-21").Return([]string{"09:00:00", "14:00:00"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","booked_times":["09:00:00","14:00:00"]}`,
		},
		{
			name: "Nothing booked",
			url:  "/booked-times?date=2024-06-10",
			mockSetup: func(m *mocks.BookedTimesProvider) {
				m.On("BookedTimes", mock.Anything, "2024-06-10").Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK","booked_times":[]}`,
		},
		{
			name:           "Missing date",
			url:            "/booked-times",
			mockSetup:      func(m *mocks.BookedTimesProvider) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"date is required"}`,
		},
		{
			name: "Invalid date",
			url:  "/booked-times?date=tomorrow",
			mockSetup: func(m *mocks.BookedTimesProvider) {
				m.On("BookedTimes", mock.Anything, "tomorrow").
					Return(nil, &booking.ValidationError{Field: "date", Message: "invalid date format"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"date: invalid date format"}`,
		},
		{
			name: "Internal server error",
			url:  "/booked-times?date=2024-06-10",
			mockSetup: func(m *mocks.BookedTimesProvider) {
				m.On("BookedTimes", mock.Anything, "2024-06-10").Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to get booked times"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockProvider := mocks.NewBookedTimesProvider(t)
			tc.mockSetup(mockProvider)

			router := chi.NewRouter()
			router.Get("/booked-times", New(logger, mockProvider))

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
		})
	}
}
