// Package api exposes extraction, export, ROAS and report endpoints over HTTP.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"postreach/internal/domain"
	"postreach/internal/export"
	"postreach/internal/posturl"
	"postreach/internal/report"
	"postreach/internal/roas"
)

const serviceName = "LinkedIn Engagement Extractor"

const (
	msgBodyRequired = "Request body is required"
	msgNoProfiles   = "No profiles to export"
)

// Extractor runs one extraction for a post URL.
type Extractor interface {
	Extract(ctx context.Context, postURL string) (*domain.ExtractionResult, error)
}

// Handler holds HTTP request handlers.
type Handler struct {
	extractor Extractor
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewHandler creates a new handler instance.
func NewHandler(extractor Extractor, logger logrus.FieldLogger) *Handler {
	return &Handler{
		extractor: extractor,
		log:       logger.WithField("component", "api"),
		now:       time.Now,
	}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type postRequest struct {
	PostURL string `json:"post_url"`
}

type extractData struct {
	Profiles      []domain.Profile `json:"profiles"`
	TotalCount    int              `json:"total_count"`
	ReactionCount int              `json:"reaction_count"`
	CommentCount  int              `json:"comment_count"`
	PostURL       string           `json:"post_url"`
}

// ExtractResponse is returned by POST /api/extract.
type ExtractResponse struct {
	Success  bool        `json:"success"`
	Data     extractData `json:"data"`
	Errors   []string    `json:"errors"`
	Message  string      `json:"message,omitempty"`
	DemoMode bool        `json:"demo_mode,omitempty"`
}

// ProfilesRequest carries profiles back from a client for export or charting.
// EngagementType and Search narrow the set the same way the results table does.
type ProfilesRequest struct {
	Profiles       []domain.Profile `json:"profiles"`
	EngagementType string           `json:"engagement_type"`
	Search         string           `json:"search"`
	Title          string           `json:"title"`
}

func (r ProfilesRequest) selected() []domain.Profile {
	return domain.FilterProfiles(r.Profiles, r.EngagementType, r.Search)
}

func abortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: msg})
}

// bindJSON decodes the body into dst. It writes the error response itself
// and returns false when decoding failed.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			abortError(c, http.StatusBadRequest, msgBodyRequired)
		} else {
			_ = c.Error(err)
			abortError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		}
		return false
	}
	return true
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": h.now().Format(time.RFC3339),
		"service":   serviceName,
	})
}

// Validate checks a post URL without calling the upstream API.
func (h *Handler) Validate(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req) {
		return
	}
	valid, message := posturl.Validate(req.PostURL)
	c.JSON(http.StatusOK, gin.H{
		"valid":   valid,
		"message": message,
	})
}

// Extract runs an extraction for the posted URL.
func (h *Handler) Extract(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.extractor.Extract(c.Request.Context(), req.PostURL)
	if err != nil {
		var invalid *posturl.InvalidURLError
		if errors.As(err, &invalid) {
			abortError(c, http.StatusBadRequest, invalid.Reason)
			return
		}
		h.log.WithError(err).Error("Extraction failed")
		_ = c.Error(err)
		abortError(c, http.StatusInternalServerError, "An unexpected error occurred: "+err.Error())
		return
	}

	profiles := res.Profiles
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	c.JSON(http.StatusOK, ExtractResponse{
		Success: true,
		Data: extractData{
			Profiles:      profiles,
			TotalCount:    res.TotalCount,
			ReactionCount: res.ReactionCount,
			CommentCount:  res.CommentCount,
			PostURL:       res.PostURL,
		},
		Errors:   res.Errors,
		Message:  res.Message,
		DemoMode: res.DemoMode,
	})
}

// DownloadCSV returns the posted profiles as a CSV attachment.
func (h *Handler) DownloadCSV(c *gin.Context) {
	h.download(c, export.FormatCSV)
}

// DownloadXLSX returns the posted profiles as an Excel attachment.
func (h *Handler) DownloadXLSX(c *gin.Context) {
	h.download(c, export.FormatXLSX)
}

func (h *Handler) download(c *gin.Context, format string) {
	var req ProfilesRequest
	if !bindJSON(c, &req) {
		return
	}
	profiles := req.selected()
	if len(profiles) == 0 {
		abortError(c, http.StatusBadRequest, msgNoProfiles)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, profiles); err != nil {
		h.log.WithError(err).WithField("format", format).Error("Export failed")
		_ = c.Error(err)
		abortError(c, http.StatusInternalServerError, fmt.Sprintf("Error generating %s: %s", format, err))
		return
	}

	name := export.Filename(format, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}

// CalculateROAS evaluates campaign figures.
func (h *Handler) CalculateROAS(c *gin.Context) {
	var in roas.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		if errors.Is(err, io.EOF) {
			abortError(c, http.StatusBadRequest, msgBodyRequired)
			return
		}
		abortError(c, http.StatusBadRequest, "Invalid input values: "+err.Error())
		return
	}

	rep, err := roas.Calculate(in)
	if err != nil {
		if errors.Is(err, roas.ErrInvalidAdSpend) {
			abortError(c, http.StatusBadRequest, "Ad spend must be greater than 0")
			return
		}
		abortError(c, http.StatusBadRequest, "Invalid input values: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rep,
	})
}

// Report renders engagement charts for the posted profiles.
func (h *Handler) Report(c *gin.Context) {
	var req ProfilesRequest
	if !bindJSON(c, &req) {
		return
	}
	profiles := req.selected()
	if len(profiles) == 0 {
		abortError(c, http.StatusBadRequest, msgNoProfiles)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, req.Title, profiles); err != nil {
		h.log.WithError(err).Error("Report rendering failed")
		_ = c.Error(err)
		abortError(c, http.StatusInternalServerError, "Error generating report: "+err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
