package createBooking

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hbBooking/internal/booking"
	"hbBooking/internal/http-server/handlers/booking/createBooking/mocks"
	"hbBooking/internal/lib/logger/handlers/slogdiscard"
	"hbBooking/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validBody = `{
	"customer_name": "Sara",
	"customer_email": "sara@example.com",
	"customer_phone": "+98912000000",
	"booking_date": "1403-03-21",
	"booking_time": "14:00",
	"business_status": "startup",
	"target_country": "Germany",
	"team_size": 3,
	"team_description": "three founders",
	"idea_description": "marketplace",
	"service_description": "visa advice",
	"services": ["consulting", "legal"]
}`

func expectedInput() booking.CreateInput {
	return booking.CreateInput{
		CustomerName:       "Sara",
		CustomerEmail:      "sara@example.com",
		CustomerPhone:      "+98912000000",
		BookingDate:        "1403-03-21",
		BookingTime:        "14:00",
		BusinessStatus:     "startup",
		TargetCountry:      "Germany",
		TeamSize:           3,
		TeamDescription:    "three founders",
		IdeaDescription:    "marketplace",
		ServiceDescription: "visa advice",
		Services:           booking.ServiceList{"consulting", "legal"},
	}
}

func TestCreateBookingHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	created := &models.Booking{
		ID:          7,
		BookingDate: "2024-06-10",
		BookingTime: "14:00:00",
		Status:      models.StatusPending,
	}

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.BookingCreator)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:        "Success",
			requestBody: validBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, expectedInput()).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				var resp Response
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.Equal(t, "OK", resp.Status)
				require.NotNil(t, resp.Booking)
				assert.Equal(t, int64(7), resp.Booking.ID)
				assert.Equal(t, models.StatusPending, resp.Booking.Status)
				assert.Equal(t, "2024-06-10", resp.Booking.BookingDate)
			},
		},
		{
			name:        "Services as single string",
			requestBody: `{"customer_name":"Sara","customer_email":"sara@example.com","customer_phone":"1","booking_date":"2025-06-10","booking_time":"14:00","business_status":"idea","target_country":"Canada","team_description":"t","idea_description":"i","service_description":"s","services":"visa"}`,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(in booking.CreateInput) bool {
					return len(in.Services) == 1 && in.Services[0] == "visa"
				})).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"failed to decode request"}`,
		},
		{
			name:           "Missing fields",
			requestBody:    `{"customer_name": "Sara"}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"status":"Error"`)
				assert.Contains(t, body, "field CustomerEmail is a required field")
				assert.Contains(t, body, "field ServiceDescription is a required field")
			},
		},
		{
			name:           "Invalid email",
			requestBody:    `{"customer_name":"Sara","customer_email":"nope","customer_phone":"1","booking_date":"2025-06-10","booking_time":"14:00","business_status":"idea","target_country":"Canada","team_description":"t","idea_description":"i","service_description":"s"}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"field CustomerEmail is not a valid email"}`,
		},
		{
			name:        "Invalid date",
			requestBody: validBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, expectedInput()).
					Return(nil, &booking.ValidationError{Field: "booking_date", Message: "invalid date format"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"booking_date: invalid date format"}`,
		},
		{
			name:        "Slot taken",
			requestBody: validBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, expectedInput()).Return(nil, booking.ErrSlotUnavailable)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"time slot is not available"}`,
		},
		{
			name:        "Internal server error",
			requestBody: validBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, expectedInput()).Return(nil, errors.New("pq: connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to create booking"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewBookingCreator(t)
			tc.mockSetup(mockCreator)

			router := chi.NewRouter()
			router.Post("/bookings", New(logger, mockCreator))

			req, err := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}
