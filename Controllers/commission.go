package Controllers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"AcuCare/Middleware"
	"AcuCare/Models"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gin-gonic/gin"
)

// FetchCommissions lists commissions. Admins see everything (optionally
// filtered), providers only their own.
func FetchCommissions(c *gin.Context) {
	identity, ok := Middleware.IdentityFromContext(c)
	if !ok {
		abortWithError(c, errUnauthorized("Authentication required"))
		return
	}

	query := Models.DB.Model(&Models.Commission{})
	switch identity.Role {
	case Models.RoleAdmin:
		if providerID := c.Query("provider_id"); providerID != "" {
			query = query.Where("provider_id = ?", providerID)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("payout_status = ?", status)
		}
	case Models.RoleProvider:
		var provider Models.Provider
		if err := Models.DB.Where("user_id = ?", identity.UserID).First(&provider).Error; err != nil {
			abortWithError(c, errNotFound("Provider profile not found"))
			return
		}
		query = query.Where("provider_id = ?", provider.ID)
	default:
		abortWithError(c, errForbidden("Not enough permission"))
		return
	}

	var commissions []Models.Commission
	if err := query.Order("id DESC").Find(&commissions).Error; err != nil {
		abortWithError(c, errInternal("Failed to fetch commissions"))
		return
	}
	c.JSON(http.StatusOK, commissions)
}

type AdvancePayoutInput struct {
	Status string `json:"status" binding:"required"`
}

// AdvancePayout moves a commission through PENDING -> PROCESSING -> PAID.
// Admin only; skipping or reversing a step is rejected.
func AdvancePayout(c *gin.Context) {
	commissionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		abortWithError(c, errValidation("Invalid commission id"))
		return
	}

	var input AdvancePayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}

	var commission Models.Commission
	if err := Models.DB.First(&commission, commissionID).Error; err != nil {
		abortWithError(c, errNotFound("Commission not found"))
		return
	}

	if !commission.CanAdvanceTo(input.Status) {
		abortWithError(c, errConflict(fmt.Sprintf("Cannot move payout from %s to %s", commission.PayoutStatus, input.Status)))
		return
	}

	res := Models.DB.Model(&Models.Commission{}).
		Where("id = ? AND payout_status = ?", commission.ID, commission.PayoutStatus).
		Update("payout_status", input.Status)
	if res.Error != nil {
		abortWithError(c, errInternal("Failed to update payout status"))
		return
	}
	if res.RowsAffected == 0 {
		abortWithError(c, errConflict("Payout status changed concurrently"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payout status updated"})
}

// ExportCommissions writes the payout sheet for a date range. Admin only.
func ExportCommissions(c *gin.Context) {
	var input struct {
		DateFrom string `json:"date_from"`
		DateTo   string `json:"date_to"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, errValidation(err.Error()))
		return
	}

	query := Models.DB.Model(&Models.Commission{})
	if input.DateFrom != "" && input.DateTo != "" {
		query = query.Where("DATE(created_at) BETWEEN ? AND ?", input.DateFrom, input.DateTo)
	}

	var commissions []Models.Commission
	if err := query.Find(&commissions).Error; err != nil {
		abortWithError(c, errInternal("Failed to fetch commissions"))
		return
	}

	providerNames := map[uint]string{}
	for _, commission := range commissions {
		if _, ok := providerNames[commission.ProviderID]; ok {
			continue
		}
		var provider Models.Provider
		if err := Models.DB.First(&provider, commission.ProviderID).Error; err == nil {
			providerNames[commission.ProviderID] = provider.Name
		}
	}

	headers := map[string]string{
		"A1": "Date",
		"B1": "Provider",
		"C1": "Session Price",
		"D1": "Commission",
		"E1": "Platform Fee",
		"F1": "TDS",
		"G1": "Net Payout",
		"H1": "Status",
	}
	file := excelize.NewFile()
	sheet := "Payouts"
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")
	for k, v := range headers {
		file.SetCellValue(sheet, k, v)
	}

	for i, commission := range commissions {
		row := i + 2
		file.SetCellValue(sheet, fmt.Sprintf("A%d", row), commission.CreatedAt.Format("2006-01-02"))
		file.SetCellValue(sheet, fmt.Sprintf("B%d", row), providerNames[commission.ProviderID])
		file.SetCellValue(sheet, fmt.Sprintf("C%d", row), float64(commission.SessionPrice)/100)
		file.SetCellValue(sheet, fmt.Sprintf("D%d", row), float64(commission.CommissionAmount)/100)
		file.SetCellValue(sheet, fmt.Sprintf("E%d", row), float64(commission.PlatformFee)/100)
		file.SetCellValue(sheet, fmt.Sprintf("F%d", row), float64(commission.TDSAmount)/100)
		file.SetCellValue(sheet, fmt.Sprintf("G%d", row), float64(commission.NetPayout)/100)
		file.SetCellValue(sheet, fmt.Sprintf("H%d", row), commission.PayoutStatus)
	}

	filename := "./Payouts.xlsx"
	if err := file.SaveAs(filename); err != nil {
		log.Println(err)
		abortWithError(c, errInternal("Failed to write export file"))
		return
	}

	c.Header("Content-Disposition", "attachment; filename=Payouts.xlsx")
	c.File(filename)
}
