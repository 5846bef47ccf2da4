package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/models"
	"github.com/colmadosys/colmado_backend/models/reports"
)

func summaryPeriod(c *gin.Context) (models.ReportPeriod, bool) {
	period := models.ReportPeriod(c.DefaultQuery("period", string(models.ReportPeriodToday)))
	if !period.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown period %q", string(period))})
		return "", false
	}
	return period, true
}

// summaryCacheTTL keeps repeated dashboard polls off MySQL. Postings
// invalidate the keys, so the TTL only matters for date rollover.
const summaryCacheTTL = 30 * time.Second

func summaryCacheKey(period models.ReportPeriod) string {
	return "report:summary:" + string(period)
}

func invalidateSummaryCache() {
	err := config.RemoveRedisKey(
		summaryCacheKey(models.ReportPeriodToday),
		summaryCacheKey(models.ReportPeriodWeek),
		summaryCacheKey(models.ReportPeriodMonth),
	)
	if err != nil {
		config.LogError(config.GetLogger(), "reports.go", "invalidateSummaryCache", "redis del", nil, err)
	}
}

func summaryReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		period, ok := summaryPeriod(c)
		if !ok {
			return
		}

		var cached reports.SummaryResponse
		if found, err := config.GetRedisObject(summaryCacheKey(period), &cached); err == nil && found {
			c.JSON(http.StatusOK, &cached)
			return
		}

		summary, err := reports.GetSummaryReport(c.Request.Context(), period)
		if err != nil {
			config.LogError(config.GetLogger(), "reports.go", "summaryReportHandler", "build summary", period, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build summary"})
			return
		}

		if err := config.SetRedisObject(summaryCacheKey(period), summary, summaryCacheTTL); err != nil {
			config.LogError(config.GetLogger(), "reports.go", "summaryReportHandler", "cache summary", period, err)
		}

		c.JSON(http.StatusOK, summary)
	}
}

func exportSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		period, ok := summaryPeriod(c)
		if !ok {
			return
		}

		summary, err := reports.GetSummaryReport(c.Request.Context(), period)
		if err != nil {
			config.LogError(config.GetLogger(), "reports.go", "exportSummaryHandler", "build summary", period, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build summary"})
			return
		}

		filename := fmt.Sprintf("summary-%s-%s.xlsx", period, time.Now().Format("2006-01-02"))
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		if err := reports.WriteSummaryExcel(c.Writer, summary); err != nil {
			config.LogError(config.GetLogger(), "reports.go", "exportSummaryHandler", "write excel", period, err)
		}
	}
}
