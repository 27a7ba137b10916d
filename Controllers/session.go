package Controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"AcuCare/FirebaseMessaging"
	"AcuCare/Middleware"
	"AcuCare/Models"
	"AcuCare/SSE"
	"AcuCare/Utils/Token"
	"AcuCare/Whatsapp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SessionLogInput struct {
	BookingID       uint   `json:"booking_id" binding:"required"`
	PainScoreBefore int    `json:"pain_score_before"`
	PainScoreAfter  int    `json:"pain_score_after"`
	SessionNotes    string `json:"session_notes"`
}

type SessionCompletionResult struct {
	Booking    Models.Booking    `json:"booking"`
	PainScore  Models.PainScore  `json:"pain_score"`
	Package    *Models.Package   `json:"package"`
	Commission Models.Commission `json:"commission"`
}

// CompleteSession runs the single atomic write path of the system: it marks
// the booking completed, records the pain score, consumes one package
// session, updates the patient and creates the commission record. Either
// all five writes land or none do.
func CompleteSession(db *gorm.DB, input SessionLogInput, identity Token.Identity) (*SessionCompletionResult, *APIError) {
	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var booking Models.Booking
	if err := tx.First(&booking, input.BookingID).Error; err != nil {
		tx.Rollback()
		return nil, errNotFound("Booking not found")
	}

	if booking.ProviderID == nil {
		tx.Rollback()
		if identity.Role != Models.RoleAdmin {
			return nil, errForbidden("Only the assigned provider or an admin can log this session")
		}
		return nil, errConflict("Booking has no assigned provider")
	}

	var provider Models.Provider
	if err := tx.First(&provider, *booking.ProviderID).Error; err != nil {
		tx.Rollback()
		return nil, errInternal("Assigned provider not found")
	}

	if identity.Role != Models.RoleAdmin && provider.UserID != identity.UserID {
		tx.Rollback()
		return nil, errForbidden("Only the assigned provider or an admin can log this session")
	}

	if booking.IsCompleted() {
		tx.Rollback()
		return nil, errConflict("Session already logged for this booking")
	}
	if booking.IsCancelled() {
		tx.Rollback()
		return nil, errConflict("Booking has been cancelled")
	}

	if !Models.ValidPainScore(input.PainScoreBefore) || !Models.ValidPainScore(input.PainScoreAfter) {
		tx.Rollback()
		return nil, errValidation("Pain scores must be between 1 and 10")
	}

	now := time.Now()

	// The status guard in the WHERE clause serializes concurrent completion
	// attempts: the loser matches zero rows and observes the conflict.
	res := tx.Model(&Models.Booking{}).
		Where("id = ? AND assignment_status <> ?", booking.ID, Models.BookingCompleted).
		Updates(map[string]interface{}{
			"pain_score_before": input.PainScoreBefore,
			"pain_score_after":  input.PainScoreAfter,
			"session_notes":     input.SessionNotes,
			"completed_at":      now,
			"assignment_status": Models.BookingCompleted,
		})
	if res.Error != nil {
		tx.Rollback()
		return nil, errInternal("Failed to update booking")
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return nil, errConflict("Session already logged for this booking")
	}

	var pkg *Models.Package
	sessionNumber := 0
	if booking.PackageID != nil {
		var loaded Models.Package
		if err := tx.First(&loaded, *booking.PackageID).Error; err != nil {
			tx.Rollback()
			return nil, errInternal("Linked package not found")
		}
		if loaded.SessionsRemaining <= 0 {
			tx.Rollback()
			return nil, errConflict("Package has no remaining sessions")
		}
		loaded.ConsumeSession()
		if err := tx.Save(&loaded).Error; err != nil {
			tx.Rollback()
			return nil, errInternal("Failed to update package")
		}
		pkg = &loaded
		sessionNumber = loaded.SessionsCompleted
	} else {
		var count int64
		if err := tx.Model(&Models.PainScore{}).Where("patient_id = ?", booking.PatientID).Count(&count).Error; err != nil {
			tx.Rollback()
			return nil, errInternal("Failed to count sessions")
		}
		sessionNumber = int(count) + 1
	}

	painScore := Models.PainScore{
		PatientID:     booking.PatientID,
		ProviderID:    provider.ID,
		BookingID:     booking.ID,
		Score:         input.PainScoreAfter,
		SessionNumber: sessionNumber,
	}
	if err := tx.Create(&painScore).Error; err != nil {
		tx.Rollback()
		return nil, errInternal("Failed to record pain score")
	}

	if err := tx.Model(&Models.Patient{}).Where("id = ?", booking.PatientID).
		Updates(map[string]interface{}{
			"current_pain_score": input.PainScoreAfter,
			"last_session_date":  now,
		}).Error; err != nil {
		tx.Rollback()
		return nil, errInternal("Failed to update patient")
	}

	commission := Models.ComputeCommission(booking.ID, provider.ID, booking.SessionPrice, provider.EffectiveCommissionRate())
	if err := tx.Create(&commission).Error; err != nil {
		tx.Rollback()
		return nil, errInternal("Failed to record commission")
	}

	if err := tx.Model(&Models.Provider{}).Where("id = ?", provider.ID).
		Update("total_sessions", gorm.Expr("total_sessions + 1")).Error; err != nil {
		tx.Rollback()
		return nil, errInternal("Failed to update provider stats")
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, errInternal("Failed to commit transaction")
	}

	if err := db.First(&booking, booking.ID).Error; err != nil {
		log.Println(err)
	}

	return &SessionCompletionResult{
		Booking:    booking,
		PainScore:  painScore,
		Package:    pkg,
		Commission: commission,
	}, nil
}

// LogSession handles POST /sessions/log for providers and admins.
func LogSession(c *gin.Context) {
	var input SessionLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}

	identity, ok := Middleware.IdentityFromContext(c)
	if !ok {
		abortWithError(c, errUnauthorized("Authentication required"))
		return
	}

	result, apiErr := CompleteSession(Models.DB, input, identity)
	if apiErr != nil {
		abortWithError(c, apiErr)
		return
	}

	c.JSON(http.StatusOK, result)

	// Best-effort notifications, never part of the transaction outcome.
	var patient Models.Patient
	if err := Models.DB.First(&patient, result.Booking.PatientID).Error; err == nil && patient.Phone != "" {
		Whatsapp.SendMessage(patient.Phone, fmt.Sprintf(
			"Session %d logged. Your pain score moved from %d to %d. Thank you for choosing AcuCare.",
			result.PainScore.SessionNumber, input.PainScoreBefore, input.PainScoreAfter))
	}
	fcms, _ := Models.GetStaffFCMs()
	if len(fcms) > 0 {
		FirebaseMessaging.SendMessage(Models.NotificationRequest{
			Tokens: fcms,
			Title:  "Session Completed",
			Body:   fmt.Sprintf("%s completed a session for %s", result.Booking.ProviderName, result.Booking.PatientName),
		})
	}
	SSE.Broadcaster.Broadcast("refresh")
}
