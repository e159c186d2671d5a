package viewhttp

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"lifeviz/internal/config"
	"lifeviz/internal/logger"
	"lifeviz/internal/pkg/jsonutil"
	"lifeviz/internal/render"

	"github.com/gin-gonic/gin"
)

const maxTableLimit = 5000

type handlers struct {
	builds  Builds
	page    config.PageConfig
	maxRows int
}

func (h *handlers) register(router *gin.Engine) {
	router.GET("/", h.handlePage)
	router.GET("/frames", h.handleFrames)
	router.GET("/frames/:year", h.handleFrame)
	api := router.Group("/api")
	api.GET("/chart", h.handleChart)
	api.GET("/table", h.handleTable)
	api.GET("/build", h.handleBuild)
}

// current aborts with 503 until the first build lands.
func (h *handlers) current(c *gin.Context) (Build, bool) {
	b, ok := h.builds.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no build available yet"})
		return Build{}, false
	}
	return b, true
}

func (h *handlers) handlePage(c *gin.Context) {
	b, ok := h.current(c)
	if !ok {
		return
	}
	page, err := render.NewPage(b.Spec, b.Dataset, render.PageOptions{
		Heading: h.page.Heading,
		Intro:   h.page.Intro,
		MaxRows: h.maxRows,
		BuildID: b.ID,
		Live:    true,
	})
	if err != nil {
		logger.Errorf("view: page for build %s: %v", b.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := render.WritePage(&buf, page); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *handlers) handleFrames(c *gin.Context) {
	b, ok := h.current(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.FrameCharts(&buf, b.Spec); err != nil {
		if errors.Is(err, render.ErrNoFrames) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *handlers) handleFrame(c *gin.Context) {
	b, ok := h.current(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.WriteFrameChart(&buf, b.Spec, c.Param("year")); err != nil {
		if errors.Is(err, render.ErrUnknownFrame) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *handlers) handleChart(c *gin.Context) {
	b, ok := h.current(c)
	if !ok {
		return
	}
	raw := b.Figure
	if c.Query("pretty") != "" {
		raw = jsonutil.Pretty(raw)
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *handlers) handleTable(c *gin.Context) {
	b, ok := h.current(c)
	if !ok {
		return
	}
	limit := h.maxRows
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	if limit > maxTableLimit {
		limit = maxTableLimit
	}
	v := render.NewTableView(b.Dataset, limit)
	c.JSON(http.StatusOK, tableResponse{
		Dataset:   b.Dataset.Name,
		Columns:   v.Columns,
		Rows:      v.Rows,
		Total:     v.Total,
		Truncated: v.Truncated,
	})
}

func (h *handlers) handleBuild(c *gin.Context) {
	b, ok := h.current(c)
	if !ok {
		return
	}
	years := b.Spec.FrameNames()
	c.JSON(http.StatusOK, buildInfo{
		ID:      b.ID,
		BuiltAt: b.At,
		Dataset: b.Dataset.Name,
		Rows:    b.Dataset.Len(),
		Frames:  len(years),
		Years:   years,
	})
}
