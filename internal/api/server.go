// Package api exposes the analytics engine over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ecfr_analytics/internal/changes"
	"ecfr_analytics/internal/ecfr"
	"ecfr_analytics/internal/model"
	"ecfr_analytics/internal/timeline"
)

// Analytics is the engine surface the handlers need.
type Analytics interface {
	Overview() model.Overview
	Agencies() []ecfr.Agency
	Titles() []ecfr.TitleInfo
	AgencyWordCounts(ctx context.Context, slug string) (*model.AgencyWordCount, error)
	RegulatoryBurden(ctx context.Context, slug string) (*model.RegulatoryBurden, error)
	HistoricalChanges(ctx context.Context, slug, startDate string) ([]changes.HistoricalChange, error)
	Timeline(ctx context.Context, slug, startDate string) ([]timeline.Point, error)
	ComplexityMetrics(ctx context.Context, title int, section string) (*model.ComplexityMetrics, error)
	AdvancedTextMetrics(ctx context.Context, title int, section string) (*model.AdvancedTextMetrics, error)
}

type Options struct {
	APIKey           string
	Logger           *zap.Logger
	DefaultStartDate string
}

type handlers struct {
	svc              Analytics
	logger           *zap.Logger
	defaultStartDate string
	started          time.Time
}

// NewRouter wires health, metrics, and the analytics routes.
func NewRouter(svc Analytics, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DefaultStartDate == "" {
		opts.DefaultStartDate = "2023-01-01"
	}

	h := &handlers{
		svc:              svc,
		logger:           opts.Logger,
		defaultStartDate: opts.DefaultStartDate,
		started:          time.Now(),
	}

	r := gin.New()
	r.Use(requestID(), accessLog(opts.Logger), recovery(opts.Logger))

	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	g := r.Group("/api/analytics", apiKey(opts.APIKey))
	g.GET("/overview", h.overview)
	g.GET("/agencies", h.agencies)
	g.GET("/titles", h.titles)

	g.GET("/agencies/:slug", h.agencyAnalytics)
	g.GET("/agencies/:slug/word-counts", h.agencyWordCounts)
	g.GET("/agencies/:slug/burden", h.agencyBurden)
	g.GET("/agencies/:slug/historical", h.agencyHistorical)
	g.GET("/agencies/:slug/timeline", h.agencyTimeline)

	g.GET("/titles/:number", h.titleAnalytics)
	g.GET("/titles/:number/complexity", h.titleComplexity)
	g.GET("/titles/:number/advanced", h.titleAdvanced)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Code: codeNotFound, Message: "Route not found"})
	})
	return r
}
