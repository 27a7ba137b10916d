package Controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"AcuCare/Middleware"
	"AcuCare/Models"
	"AcuCare/Utils/Token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newBookingRouter wires the booking handlers against the given test DB with
// a pre-authenticated identity, skipping the real token middleware.
func newBookingRouter(db *gorm.DB, identity Token.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	Models.DB = db
	router := gin.New()
	router.Use(func(c *gin.Context) {
		Middleware.SetIdentity(c, identity)
		c.Next()
	})
	router.POST("/api/bookings", CreateBooking)
	router.PATCH("/api/bookings/:id/assign", AssignBooking)
	router.POST("/api/bookings/:id/cancel", CancelBooking)
	return router
}

func patchJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func postJSON(router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func adminIdentity() Token.Identity {
	return Token.Identity{UserID: 1000, Phone: "+911999999999", Role: Models.RoleAdmin}
}

func TestAssignBookingHappyPath(t *testing.T) {
	db := setupTestDB(t)
	f := seedCompletion(t, db, nil)

	// detach the seeded assignment so the booking is assignable again
	require.NoError(t, db.Model(&Models.Booking{}).Where("id = ?", f.booking.ID).
		Updates(map[string]interface{}{"provider_id": nil, "provider_name": "", "assignment_status": Models.BookingPending}).Error)

	router := newBookingRouter(db, adminIdentity())
	w := patchJSON(router, fmt.Sprintf("/api/bookings/%d/assign", f.booking.ID),
		AssignBookingInput{ProviderID: f.provider.ID})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var booking Models.Booking
	require.NoError(t, db.First(&booking, f.booking.ID).Error)
	require.NotNil(t, booking.ProviderID)
	assert.Equal(t, f.provider.ID, *booking.ProviderID)
	assert.Equal(t, f.provider.Name, booking.ProviderName)
	assert.Equal(t, Models.BookingAssigned, booking.AssignmentStatus)
}

func TestAssignBookingWithConfirmedSlot(t *testing.T) {
	db := setupTestDB(t)
	f := seedCompletion(t, db, nil)

	require.NoError(t, db.Model(&Models.Booking{}).Where("id = ?", f.booking.ID).
		Updates(map[string]interface{}{"provider_id": nil, "assignment_status": Models.BookingPending}).Error)

	router := newBookingRouter(db, adminIdentity())
	w := patchJSON(router, fmt.Sprintf("/api/bookings/%d/assign", f.booking.ID),
		AssignBookingInput{ProviderID: f.provider.ID, ConfirmedDate: "2026-09-01", ConfirmedTime: "10:00 AM"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var booking Models.Booking
	require.NoError(t, db.First(&booking, f.booking.ID).Error)
	assert.Equal(t, Models.BookingConfirmed, booking.AssignmentStatus)
	assert.Equal(t, "2026-09-01", booking.ConfirmedDate)
	assert.Equal(t, "10:00 AM", booking.ConfirmedTime)
}

func TestAssignBookingInactiveProvider(t *testing.T) {
	db := setupTestDB(t)
	f := seedCompletion(t, db, nil)

	require.NoError(t, db.Model(&Models.Provider{}).Where("id = ?", f.provider.ID).
		Update("status", Models.ProviderInactive).Error)

	router := newBookingRouter(db, adminIdentity())
	w := patchJSON(router, fmt.Sprintf("/api/bookings/%d/assign", f.booking.ID),
		AssignBookingInput{ProviderID: f.provider.ID})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestAssignBookingNotFound(t *testing.T) {
	db := setupTestDB(t)
	f := seedCompletion(t, db, nil)

	router := newBookingRouter(db, adminIdentity())

	w := patchJSON(router, "/api/bookings/9999/assign", AssignBookingInput{ProviderID: f.provider.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = patchJSON(router, fmt.Sprintf("/api/bookings/%d/assign", f.booking.ID), AssignBookingInput{ProviderID: 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssignBookingCompletedConflicts(t *testing.T) {
	db := setupTestDB(t)
	f := seedCompletion(t, db, nil)

	require.NoError(t, db.Model(&Models.Booking{}).Where("id = ?", f.booking.ID).
		Update("assignment_status", Models.BookingCompleted).Error)

	router := newBookingRouter(db, adminIdentity())
	w := patchJSON(router, fmt.Sprintf("/api/bookings/%d/assign", f.booking.ID),
		AssignBookingInput{ProviderID: f.provider.ID})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateBookingOnePerDay(t *testing.T) {
	db := setupTestDB(t)
	f := seedCompletion(t, db, nil)

	identity := Token.Identity{UserID: f.patient.UserID, Phone: f.patient.Phone, Role: Models.RolePatient}
	router := newBookingRouter(db, identity)

	// the seeded booking already occupies 2026-09-01
	w := postJSON(router, "/api/bookings", CreateBookingInput{
		ServiceID:     f.service.ID,
		RequestedDate: "2026-09-01",
		RequestedTime: "4:00 PM",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = postJSON(router, "/api/bookings", CreateBookingInput{
		ServiceID:     f.service.ID,
		RequestedDate: "2026-09-02",
		RequestedTime: "4:00 PM",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created Models.Booking
	require.NoError(t, db.Where("requested_date = ?", "2026-09-02").First(&created).Error)
	assert.Equal(t, Models.BookingPending, created.AssignmentStatus)
	assert.Equal(t, f.service.Price, created.SessionPrice)
	assert.Nil(t, created.ProviderID)
}

func TestCreateBookingAgainstExhaustedPackage(t *testing.T) {
	db := setupTestDB(t)
	f := seedCompletion(t, db, nil)

	require.NoError(t, db.Model(&Models.Package{}).Where("id = ?", f.pkg.ID).
		Updates(map[string]interface{}{"sessions_completed": 2, "sessions_remaining": 0, "status": Models.PackageCompleted}).Error)

	identity := Token.Identity{UserID: f.patient.UserID, Phone: f.patient.Phone, Role: Models.RolePatient}
	router := newBookingRouter(db, identity)

	w := postJSON(router, "/api/bookings", CreateBookingInput{
		ServiceID:     f.service.ID,
		PackageID:     &f.pkg.ID,
		RequestedDate: "2026-09-03",
		RequestedTime: "4:00 PM",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancelBookingGuardsCompleted(t *testing.T) {
	db := setupTestDB(t)
	f := seedCompletion(t, db, nil)

	router := newBookingRouter(db, adminIdentity())

	w := postJSON(router, fmt.Sprintf("/api/bookings/%d/cancel", f.booking.ID), gin.H{})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var booking Models.Booking
	require.NoError(t, db.First(&booking, f.booking.ID).Error)
	assert.Equal(t, Models.BookingCancelled, booking.AssignmentStatus)

	// a completed booking cannot be cancelled
	require.NoError(t, db.Model(&Models.Booking{}).Where("id = ?", f.booking.ID).
		Update("assignment_status", Models.BookingCompleted).Error)
	w = postJSON(router, fmt.Sprintf("/api/bookings/%d/cancel", f.booking.ID), gin.H{})
	assert.Equal(t, http.StatusConflict, w.Code)
}
