package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"ecfr_analytics/internal/model"
)

type historyQuery struct {
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
}

type sectionQuery struct {
	Section string `form:"section" binding:"omitempty,max=64"`
}

type uptimeDetail struct {
	ComponentType string  `json:"componentType"`
	MetricValue   float64 `json:"metricValue"`
	MetricUnit    string  `json:"metricUnit"`
	Status        string  `json:"status"`
	Time          string  `json:"time"`
}

type healthBody struct {
	Status  string                    `json:"status"`
	Details map[string][]uptimeDetail `json:"details"`
}

func (h *handlers) health(c *gin.Context) {
	now := time.Now()
	c.Header("Content-Type", "application/health+json")
	c.JSON(http.StatusOK, healthBody{
		Status: "pass",
		Details: map[string][]uptimeDetail{
			"uptime": {{
				ComponentType: "system",
				MetricValue:   now.Sub(h.started).Seconds(),
				MetricUnit:    "s",
				Status:        "pass",
				Time:          now.UTC().Format(time.RFC3339),
			}},
		},
	})
}

func (h *handlers) overview(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Overview())
}

func (h *handlers) agencies(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Agencies())
}

func (h *handlers) titles(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Titles())
}

type agencyAnalytics struct {
	WordCounts *model.AgencyWordCount  `json:"wordCounts"`
	Burden     *model.RegulatoryBurden `json:"burden"`
}

func (h *handlers) agencyAnalytics(c *gin.Context) {
	slug := c.Param("slug")
	var out agencyAnalytics
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		out.WordCounts, err = h.svc.AgencyWordCounts(ctx, slug)
		return err
	})
	g.Go(func() (err error) {
		out.Burden, err = h.svc.RegulatoryBurden(ctx, slug)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, "agency analytics", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) agencyWordCounts(c *gin.Context) {
	out, err := h.svc.AgencyWordCounts(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, "agency word counts", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) agencyBurden(c *gin.Context) {
	out, err := h.svc.RegulatoryBurden(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, "regulatory burden", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) startDate(c *gin.Context) (string, bool) {
	var q historyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "startDate must be YYYY-MM-DD")
		return "", false
	}
	if q.StartDate == "" {
		return h.defaultStartDate, true
	}
	return q.StartDate, true
}

func (h *handlers) agencyHistorical(c *gin.Context) {
	start, ok := h.startDate(c)
	if !ok {
		return
	}
	out, err := h.svc.HistoricalChanges(c.Request.Context(), c.Param("slug"), start)
	if err != nil {
		h.fail(c, "historical changes", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) agencyTimeline(c *gin.Context) {
	start, ok := h.startDate(c)
	if !ok {
		return
	}
	out, err := h.svc.Timeline(c.Request.Context(), c.Param("slug"), start)
	if err != nil {
		h.fail(c, "timeline", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// titleParams parses the title number and optional section filter.
func titleParams(c *gin.Context) (int, string, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n <= 0 {
		badRequest(c, "title number must be a positive integer")
		return 0, "", false
	}
	var q sectionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, "invalid section")
		return 0, "", false
	}
	return n, q.Section, true
}

type titleAnalytics struct {
	Complexity *model.ComplexityMetrics   `json:"complexity"`
	Advanced   *model.AdvancedTextMetrics `json:"advanced"`
}

func (h *handlers) titleAnalytics(c *gin.Context) {
	n, section, ok := titleParams(c)
	if !ok {
		return
	}
	var out titleAnalytics
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		out.Complexity, err = h.svc.ComplexityMetrics(ctx, n, section)
		return err
	})
	g.Go(func() (err error) {
		out.Advanced, err = h.svc.AdvancedTextMetrics(ctx, n, section)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, "title analytics", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) titleComplexity(c *gin.Context) {
	n, section, ok := titleParams(c)
	if !ok {
		return
	}
	out, err := h.svc.ComplexityMetrics(c.Request.Context(), n, section)
	if err != nil {
		h.fail(c, "complexity metrics", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) titleAdvanced(c *gin.Context) {
	n, section, ok := titleParams(c)
	if !ok {
		return
	}
	out, err := h.svc.AdvancedTextMetrics(c.Request.Context(), n, section)
	if err != nil {
		h.fail(c, "advanced text metrics", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
