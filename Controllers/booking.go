package Controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"AcuCare/FirebaseMessaging"
	"AcuCare/Middleware"
	"AcuCare/Models"
	"AcuCare/SSE"
	"AcuCare/Whatsapp"

	"github.com/gin-gonic/gin"
)

type CreateBookingInput struct {
	ServiceID     uint   `json:"service_id" binding:"required"`
	PackageID     *uint  `json:"package_id"`
	RequestedDate string `json:"requested_date" binding:"required"`
	RequestedTime string `json:"requested_time" binding:"required"`
}

// CreateBooking registers a PENDING booking request for the calling patient.
func CreateBooking(c *gin.Context) {
	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}

	identity, ok := Middleware.IdentityFromContext(c)
	if !ok {
		abortWithError(c, errUnauthorized("Authentication required"))
		return
	}

	var patient Models.Patient
	if err := Models.DB.Where("user_id = ?", identity.UserID).First(&patient).Error; err != nil {
		abortWithError(c, errNotFound("Patient profile not found"))
		return
	}

	var service Models.Service
	if err := Models.DB.First(&service, input.ServiceID).Error; err != nil {
		abortWithError(c, errNotFound("Service not found"))
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// One booking per patient per day.
	var sameDay int64
	if err := tx.Model(&Models.Booking{}).
		Where("patient_id = ? AND requested_date = ? AND assignment_status NOT IN ?",
			patient.ID, input.RequestedDate, []Models.AssignmentStatus{Models.BookingCancelled}).
		Count(&sameDay).Error; err != nil {
		tx.Rollback()
		abortWithError(c, errInternal("Failed to check existing bookings"))
		return
	}
	if sameDay > 0 {
		tx.Rollback()
		abortWithError(c, errConflict("Patient can only book one session per day"))
		return
	}

	booking := Models.Booking{
		PatientID:        patient.ID,
		PatientName:      patient.Name,
		ServiceID:        service.ID,
		PackageID:        input.PackageID,
		RequestedDate:    input.RequestedDate,
		RequestedTime:    input.RequestedTime,
		AssignmentStatus: Models.BookingPending,
		SessionPrice:     service.Price,
	}

	if input.PackageID != nil {
		var pkg Models.Package
		if err := tx.First(&pkg, *input.PackageID).Error; err != nil {
			tx.Rollback()
			abortWithError(c, errNotFound("Package not found"))
			return
		}
		if pkg.PatientID != patient.ID {
			tx.Rollback()
			abortWithError(c, errForbidden("Package belongs to another patient"))
			return
		}
		if pkg.Status == Models.PackageCompleted || pkg.SessionsRemaining <= 0 {
			tx.Rollback()
			abortWithError(c, errConflict("Package has no remaining sessions"))
			return
		}
		booking.SessionPrice = pkg.PricePerSession
	}

	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		abortWithError(c, errInternal("Failed to create booking"))
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		abortWithError(c, errInternal("Failed to commit transaction"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Requested Successfully", "booking": booking})
	SSE.Broadcaster.Broadcast("refresh")
}

type AssignBookingInput struct {
	ProviderID    uint   `json:"provider_id" binding:"required"`
	ConfirmedDate string `json:"confirmed_date"`
	ConfirmedTime string `json:"confirmed_time"`
}

// AssignBooking handles PATCH /bookings/:id/assign. Admin only.
func AssignBooking(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, errValidation("Invalid booking id"))
		return
	}

	var input AssignBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}

	tx := Models.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var booking Models.Booking
	if err := tx.First(&booking, bookingID).Error; err != nil {
		tx.Rollback()
		abortWithError(c, errNotFound("Booking not found"))
		return
	}
	if booking.IsCompleted() || booking.IsCancelled() {
		tx.Rollback()
		abortWithError(c, errConflict("Booking is no longer assignable"))
		return
	}

	var provider Models.Provider
	if err := tx.First(&provider, input.ProviderID).Error; err != nil {
		tx.Rollback()
		abortWithError(c, errNotFound("Provider not found"))
		return
	}
	if !provider.IsActive() {
		tx.Rollback()
		abortWithError(c, errValidation("Provider is not active"))
		return
	}

	booking.ProviderID = &provider.ID
	booking.ProviderName = provider.Name
	booking.AssignmentStatus = Models.BookingAssigned
	if input.ConfirmedDate != "" {
		booking.ConfirmedDate = input.ConfirmedDate
		booking.ConfirmedTime = input.ConfirmedTime
		booking.AssignmentStatus = Models.BookingConfirmed
	}

	if err := tx.Save(&booking).Error; err != nil {
		tx.Rollback()
		abortWithError(c, errInternal("Failed to assign booking"))
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		abortWithError(c, errInternal("Failed to commit transaction"))
		return
	}

	c.JSON(http.StatusOK, booking)

	var patient Models.Patient
	if err := Models.DB.First(&patient, booking.PatientID).Error; err == nil && patient.Phone != "" {
		Whatsapp.SendMessage(patient.Phone, fmt.Sprintf(
			"Your session on %s %s has been assigned to %s", booking.ConfirmedDate, booking.ConfirmedTime, provider.Name))
	}
	fcms, _ := Models.GetFCMsByID(provider.UserID)
	if len(fcms) > 0 {
		FirebaseMessaging.SendMessage(Models.NotificationRequest{
			Tokens: fcms,
			Title:  "New Session Assigned",
			Body:   fmt.Sprintf("You have been assigned a session with %s on %s", booking.PatientName, booking.RequestedDate),
		})
	}
	SSE.Broadcaster.Broadcast("refresh")
}

// FetchBookings lists bookings scoped to the caller's role.
func FetchBookings(c *gin.Context) {
	identity, ok := Middleware.IdentityFromContext(c)
	if !ok {
		abortWithError(c, errUnauthorized("Authentication required"))
		return
	}

	query := Models.DB.Model(&Models.Booking{})
	switch identity.Role {
	case Models.RoleAdmin:
		if status := c.Query("status"); status != "" {
			query = query.Where("assignment_status = ?", status)
		}
	case Models.RoleProvider:
		var provider Models.Provider
		if err := Models.DB.Where("user_id = ?", identity.UserID).First(&provider).Error; err != nil {
			abortWithError(c, errNotFound("Provider profile not found"))
			return
		}
		query = query.Where("provider_id = ?", provider.ID)
	default:
		var patient Models.Patient
		if err := Models.DB.Where("user_id = ?", identity.UserID).First(&patient).Error; err != nil {
			abortWithError(c, errNotFound("Patient profile not found"))
			return
		}
		query = query.Where("patient_id = ?", patient.ID)
	}

	var bookings []Models.Booking
	if err := query.Order("id DESC").Find(&bookings).Error; err != nil {
		abortWithError(c, errInternal("Failed to fetch bookings"))
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func GetBooking(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, errValidation("Invalid booking id"))
		return
	}

	identity, ok := Middleware.IdentityFromContext(c)
	if !ok {
		abortWithError(c, errUnauthorized("Authentication required"))
		return
	}

	var booking Models.Booking
	if err := Models.DB.First(&booking, bookingID).Error; err != nil {
		abortWithError(c, errNotFound("Booking not found"))
		return
	}

	if apiErr := checkBookingAccess(&booking, identity.UserID, identity.Role); apiErr != nil {
		abortWithError(c, apiErr)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking lets the owning patient or an admin cancel a booking that
// has not been completed yet.
func CancelBooking(c *gin.Context) {
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, errValidation("Invalid booking id"))
		return
	}

	identity, ok := Middleware.IdentityFromContext(c)
	if !ok {
		abortWithError(c, errUnauthorized("Authentication required"))
		return
	}

	var booking Models.Booking
	if err := Models.DB.First(&booking, bookingID).Error; err != nil {
		abortWithError(c, errNotFound("Booking not found"))
		return
	}

	if identity.Role != Models.RoleAdmin {
		var patient Models.Patient
		if err := Models.DB.Where("user_id = ?", identity.UserID).First(&patient).Error; err != nil || patient.ID != booking.PatientID {
			abortWithError(c, errForbidden("Not your booking"))
			return
		}
	}
	if booking.IsCompleted() {
		abortWithError(c, errConflict("Completed bookings cannot be cancelled"))
		return
	}

	res := Models.DB.Model(&Models.Booking{}).
		Where("id = ? AND assignment_status <> ?", booking.ID, Models.BookingCompleted).
		Update("assignment_status", Models.BookingCancelled)
	if res.Error != nil {
		abortWithError(c, errInternal("Failed to cancel booking"))
		return
	}
	if res.RowsAffected == 0 {
		abortWithError(c, errConflict("Completed bookings cannot be cancelled"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cancelled Successfully"})

	if booking.ProviderID != nil {
		var provider Models.Provider
		if err := Models.DB.First(&provider, *booking.ProviderID).Error; err == nil {
			fcms, _ := Models.GetFCMsByID(provider.UserID)
			if len(fcms) > 0 {
				FirebaseMessaging.SendMessage(Models.NotificationRequest{
					Tokens: fcms,
					Title:  "Session Cancelled",
					Body:   fmt.Sprintf("Your session with %s on %s has been cancelled", booking.PatientName, booking.RequestedDate),
				})
			}
		}
	}
	SSE.Broadcaster.Broadcast("refresh")
}

func checkBookingAccess(booking *Models.Booking, userID uint, role string) *APIError {
	switch role {
	case Models.RoleAdmin:
		return nil
	case Models.RoleProvider:
		var provider Models.Provider
		if err := Models.DB.Where("user_id = ?", userID).First(&provider).Error; err != nil {
			return errForbidden("Not your booking")
		}
		if booking.ProviderID == nil || *booking.ProviderID != provider.ID {
			return errForbidden("Not your booking")
		}
	default:
		var patient Models.Patient
		if err := Models.DB.Where("user_id = ?", userID).First(&patient).Error; err != nil {
			return errForbidden("Not your booking")
		}
		if booking.PatientID != patient.ID {
			return errForbidden("Not your booking")
		}
	}
	return nil
}
