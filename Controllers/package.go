package Controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"AcuCare/FirebaseMessaging"
	"AcuCare/Middleware"
	"AcuCare/Models"

	"github.com/gin-gonic/gin"
)

type CreatePackageInput struct {
	PatientID     uint   `json:"patient_id" binding:"required"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	TotalSessions int    `json:"total_sessions" binding:"required"`
	PaymentMethod string `json:"payment_method"`
}

// CreatePackage records a purchased bundle of sessions. Admin only.
func CreatePackage(c *gin.Context) {
	var input CreatePackageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}
	if input.TotalSessions <= 0 {
		abortWithError(c, errValidation("Total sessions must be positive"))
		return
	}

	var patient Models.Patient
	if err := Models.DB.First(&patient, input.PatientID).Error; err != nil {
		abortWithError(c, errNotFound("Patient not found"))
		return
	}

	var service Models.Service
	if err := Models.DB.First(&service, input.ServiceID).Error; err != nil {
		abortWithError(c, errNotFound("Service not found"))
		return
	}

	pkg := Models.Package{
		PatientID:         patient.ID,
		ServiceID:         service.ID,
		TotalSessions:     input.TotalSessions,
		SessionsCompleted: 0,
		SessionsRemaining: input.TotalSessions,
		PricePerSession:   service.Price,
		Status:            Models.PackageActive,
		PaymentMethod:     input.PaymentMethod,
		IsPaid:            input.PaymentMethod != "",
	}
	if err := Models.DB.Create(&pkg).Error; err != nil {
		abortWithError(c, errInternal("Failed to create package"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Package Created Successfully", "package": pkg})

	fcms, _ := Models.GetStaffFCMs()
	if len(fcms) > 0 {
		FirebaseMessaging.SendMessage(Models.NotificationRequest{
			Tokens: fcms,
			Title:  "A Package Has Been Registered",
			Body:   fmt.Sprintf("%s purchased %d sessions of %s", patient.Name, pkg.TotalSessions, service.Name),
		})
	}
}

func FetchPatientPackages(c *gin.Context) {
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

	var packages []Models.Package
	if err := Models.DB.Where("patient_id = ?", patient.ID).Find(&packages).Error; err != nil {
		abortWithError(c, errInternal("Failed to fetch packages"))
		return
	}
	c.JSON(http.StatusOK, packages)
}

func MarkPackageAsPaid(c *gin.Context) {
	var input struct {
		PackageID     uint   `json:"package_id" binding:"required"`
		PaymentMethod string `json:"payment_method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}

	res := Models.DB.Model(&Models.Package{}).Where("id = ?", input.PackageID).
		Updates(map[string]interface{}{"is_paid": true, "payment_method": input.PaymentMethod})
	if res.Error != nil {
		abortWithError(c, errInternal("Failed to update package"))
		return
	}
	if res.RowsAffected == 0 {
		abortWithError(c, errNotFound("Package not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked Successfully"})
}

func UnmarkPackageAsPaid(c *gin.Context) {
	var input struct {
		PackageID uint `json:"package_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}

	res := Models.DB.Model(&Models.Package{}).Where("id = ?", input.PackageID).
		Updates(map[string]interface{}{"is_paid": false, "payment_method": ""})
	if res.Error != nil {
		abortWithError(c, errInternal("Failed to update package"))
		return
	}
	if res.RowsAffected == 0 {
		abortWithError(c, errNotFound("Package not found"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked Successfully"})
}

func FetchServices(c *gin.Context) {
	var services []Models.Service
	if err := Models.DB.Find(&services).Error; err != nil {
		abortWithError(c, errInternal("Failed to fetch services"))
		return
	}
	c.JSON(http.StatusOK, services)
}

func AddService(c *gin.Context) {
	var input Models.Service
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}
	if input.Price < 0 {
		abortWithError(c, errValidation("Price cannot be negative"))
		return
	}
	if err := Models.DB.Create(&input).Error; err != nil {
		abortWithError(c, errInternal("Failed to create service"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service Created Successfully", "service": input})
}
