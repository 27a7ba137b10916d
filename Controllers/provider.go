package Controllers

import (
	"net/http"
	"strconv"

	"AcuCare/Models"
	"AcuCare/SSE"

	"github.com/gin-gonic/gin"
)

// FetchProviders is the public directory listing. Defaults to active
// providers; admins can pass ?status= to see the rest.
func FetchProviders(c *gin.Context) {
	status := c.DefaultQuery("status", Models.ProviderActive)

	var providers []Models.Provider
	if err := Models.DB.Where("status = ?", status).Find(&providers).Error; err != nil {
		abortWithError(c, errInternal("Failed to fetch providers"))
		return
	}
	c.JSON(http.StatusOK, providers)
}

type UpdateProviderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

func UpdateProviderStatus(c *gin.Context) {
	providerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, errValidation("Invalid provider id"))
		return
	}

	var input UpdateProviderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}
	switch input.Status {
	case Models.ProviderActive, Models.ProviderInactive, Models.ProviderPending:
	default:
		abortWithError(c, errValidation("Unknown provider status"))
		return
	}

	var provider Models.Provider
	if err := Models.DB.First(&provider, providerID).Error; err != nil {
		abortWithError(c, errNotFound("Provider not found"))
		return
	}

	if err := Models.DB.Model(&provider).Update("status", input.Status).Error; err != nil {
		abortWithError(c, errInternal("Failed to update provider"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Provider updated successfully"})
	SSE.Broadcaster.Broadcast("refresh")
}

type SetCommissionRateInput struct {
	// Pointer so that an explicit 0 is distinguishable from "clear the
	// override and fall back to the default".
	CommissionRate *float64 `json:"commission_rate"`
}

func SetCommissionRate(c *gin.Context) {
	providerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, errValidation("Invalid provider id"))
		return
	}

	var input SetCommissionRateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}
	if input.CommissionRate != nil && (*input.CommissionRate < 0 || *input.CommissionRate > 1) {
		abortWithError(c, errValidation("Commission rate must be between 0 and 1"))
		return
	}

	var provider Models.Provider
	if err := Models.DB.First(&provider, providerID).Error; err != nil {
		abortWithError(c, errNotFound("Provider not found"))
		return
	}

	if err := Models.DB.Model(&provider).Update("commission_rate", input.CommissionRate).Error; err != nil {
		abortWithError(c, errInternal("Failed to update provider"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Commission rate updated"})
}
