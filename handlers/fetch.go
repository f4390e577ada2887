package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jobgenie/backend/models"
	"github.com/jobgenie/backend/scraper"
)

// FetchHandler serves the page-fetching endpoint used by remote pipelines
type FetchHandler struct {
	fetcher scraper.PageFetcher
}

// NewFetchHandler creates a new fetch handler
func NewFetchHandler(fetcher scraper.PageFetcher) *FetchHandler {
	return &FetchHandler{fetcher: fetcher}
}

// FetchJobPage fetches and classifies one job page
// @Summary Fetch a job page
// @Description Fetch a URL and return either the single posting on it or the postings it lists. Scrape failures are reported in the error field with status 200.
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body models.FetchPageRequest true "Page to fetch"
// @Success 200 {object} models.FetchPageResponse "Scraped page"
// @Failure 400 {object} models.ErrorResponse "Invalid URL"
// @Router /fetch-job-page [post]
func (h *FetchHandler) FetchJobPage(c *gin.Context) {
	var req models.FetchPageRequest
	if err := c.ShouldBindJSON(&req); err != nil || !validPageURL(req.URL) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "A valid http(s) url is required",
			Code:  http.StatusBadRequest,
		})
		return
	}

	resp, err := h.fetcher.FetchJobPage(c.Request.Context(), req.URL)
	if err != nil {
		log.Printf("[Handler] FetchJobPage %s failed: %v", req.URL, err)
		c.JSON(http.StatusOK, models.FetchPageResponse{URL: req.URL, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func validPageURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
