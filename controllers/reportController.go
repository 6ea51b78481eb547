package controllers

import (
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"bitbucket.org/mmdatafocus/inventory_backend/models/reports"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/gin-gonic/gin"
)

func LaptopReport(c *gin.Context) {
	filter := models.LaptopReportFilter{
		By:    c.Query("filter_by"),
		Value: c.Query("filter_value"),
		Date:  c.Query("filter_date"),
	}
	rows, err := models.GetLaptopReport(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, "reportController.go", "LaptopReport", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": rows})
}

func exportDateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	var start, end *time.Time
	if raw := c.Query("start_date"); raw != "" {
		parsed, err := utils.ParseFlexibleDate(raw)
		if err != nil {
			respondError(c, "reportController.go", "exportDateRange",
				models.NewValidationError("invalid start_date %q", raw))
			return nil, nil, false
		}
		start = &parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := utils.ParseFlexibleDate(raw)
		if err != nil {
			respondError(c, "reportController.go", "exportDateRange",
				models.NewValidationError("invalid end_date %q", raw))
			return nil, nil, false
		}
		end = &parsed
	}
	return start, end, true
}

// ExportPurchasesCSV streams the purchase register as a CSV download.
func ExportPurchasesCSV(c *gin.Context) {
	start, end, ok := exportDateRange(c)
	if !ok {
		return
	}
	filename := fmt.Sprintf("purchases_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "text/csv")
	if err := reports.WritePurchasesCSV(c.Request.Context(), c.Writer, start, end); err != nil {
		respondError(c, "reportController.go", "ExportPurchasesCSV", err)
	}
}

// ExportPurchasesExcel streams the purchase register as an xlsx download.
func ExportPurchasesExcel(c *gin.Context) {
	start, end, ok := exportDateRange(c)
	if !ok {
		return
	}
	filename := fmt.Sprintf("purchases_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := reports.WritePurchasesExcel(c.Request.Context(), c.Writer, start, end); err != nil {
		respondError(c, "reportController.go", "ExportPurchasesExcel", err)
	}
}
