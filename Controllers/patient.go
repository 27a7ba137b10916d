package Controllers

import (
	"net/http"
	"strconv"

	"AcuCare/Middleware"
	"AcuCare/Models"

	"github.com/gin-gonic/gin"
)

func FetchPatients(c *gin.Context) {
	var patients []Models.Patient
	if err := Models.DB.Model(&Models.Patient{}).Preload("Packages").Find(&patients).Error; err != nil {
		abortWithError(c, errInternal("Failed to fetch patients"))
		return
	}
	c.JSON(http.StatusOK, patients)
}

type UpdatePatientInput struct {
	ID        uint   `json:"id" binding:"required"`
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	Age       int    `json:"age"`
	Diagnosis string `json:"diagnosis"`
	Notes     string `json:"notes"`
}

func UpdatePatient(c *gin.Context) {
	var input UpdatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}

	var patient Models.Patient
	if err := Models.DB.First(&patient, input.ID).Error; err != nil {
		abortWithError(c, errNotFound("Patient not found"))
		return
	}

	patient.Name = input.Name
	patient.Gender = input.Gender
	patient.Age = input.Age
	patient.Diagnosis = input.Diagnosis
	patient.Notes = input.Notes

	if err := Models.DB.Save(&patient).Error; err != nil {
		abortWithError(c, errInternal("Failed to update patient"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient updated successfully"})
}

// GetPatientProgress reports the pain trend across completed sessions.
// Improvement is a real before/after comparison per session, not assumed.
func GetPatientProgress(c *gin.Context) {
	patientID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, errValidation("Invalid patient id"))
		return
	}

	identity, ok := Middleware.IdentityFromContext(c)
	if !ok {
		abortWithError(c, errUnauthorized("Authentication required"))
		return
	}

	var patient Models.Patient
	if err := Models.DB.First(&patient, patientID).Error; err != nil {
		abortWithError(c, errNotFound("Patient not found"))
		return
	}

	if identity.Role == Models.RolePatient && patient.UserID != identity.UserID {
		abortWithError(c, errForbidden("Not your profile"))
		return
	}

	var painScores []Models.PainScore
	if err := Models.DB.Where("patient_id = ?", patient.ID).Order("session_number ASC").Find(&painScores).Error; err != nil {
		abortWithError(c, errInternal("Failed to fetch pain scores"))
		return
	}

	var completed []Models.Booking
	if err := Models.DB.Where("patient_id = ? AND assignment_status = ?", patient.ID, Models.BookingCompleted).
		Find(&completed).Error; err != nil {
		abortWithError(c, errInternal("Failed to fetch sessions"))
		return
	}

	sessionsWithImprovement := 0
	for _, booking := range completed {
		if booking.PainScoreBefore != nil && booking.PainScoreAfter != nil &&
			*booking.PainScoreAfter < *booking.PainScoreBefore {
			sessionsWithImprovement++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"patient_id":                patient.ID,
		"initial_pain_score":        patient.InitialPainScore,
		"current_pain_score":        patient.CurrentPainScore,
		"last_session_date":         patient.LastSessionDate,
		"sessions_completed":        len(completed),
		"sessions_with_improvement": sessionsWithImprovement,
		"pain_scores":               painScores,
	})
}
