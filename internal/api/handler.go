// Package api serves the job and analysis collections over HTTP.
package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"go-jobfit-automation/internal/jobs"
	"go-jobfit-automation/internal/models"
	"go-jobfit-automation/internal/resume"
)

// Handler holds the collections. The stores are not safe for concurrent use,
// so every request takes the handler lock.
type Handler struct {
	mu       sync.Mutex
	jobs     *jobs.Repository
	analyses *jobs.AnalysisRepository
	resume   *resume.Resume
}

// NewHandler creates the handler. analyses and res may be nil, in which case
// their routes answer 404.
func NewHandler(jobsRepo *jobs.Repository, analyses *jobs.AnalysisRepository, res *resume.Resume) *Handler {
	return &Handler{jobs: jobsRepo, analyses: analyses, resume: res}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Job fit API is running!",
		"status":  "healthy",
	})
}

// ListJobs is GET /jobs. Query parameters: source, company, location (exact
// match), applied and scored (true/false), min_score, sort=score.
func (h *Handler) ListJobs(c *gin.Context) {
	filters := map[string]any{}
	for param, col := range map[string]string{
		"source":   jobs.ColSource,
		"company":  jobs.ColCompany,
		"location": jobs.ColLocation,
	} {
		if v, ok := c.GetQuery(param); ok {
			filters[col] = v
		}
	}

	applied, err := optionalBool(c, "applied")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	scored, err := optionalBool(c, "scored")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	minScore := -1
	if v := c.Query("min_score"); v != "" {
		minScore, err = strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_score must be an integer"})
			return
		}
	}

	h.mu.Lock()
	found := h.jobs.Find(filters)
	h.mu.Unlock()

	out := make([]models.Job, 0, len(found))
	for _, job := range found {
		if applied != nil && job.Applied != *applied {
			continue
		}
		if scored != nil && job.Scored() != *scored {
			continue
		}
		if minScore >= 0 && (job.Score == nil || *job.Score < minScore) {
			continue
		}
		out = append(out, job)
	}

	if c.Query("sort") == "score" {
		sort.SliceStable(out, func(i, j int) bool {
			return scoreOf(out[i]) > scoreOf(out[j])
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"count": len(out),
		"jobs":  out,
	})
}

func (h *Handler) GetJob(c *gin.Context) {
	h.mu.Lock()
	job, ok := h.jobs.Get(c.Param("id"))
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// MarkApplied is POST /jobs/:id/applied.
func (h *Handler) MarkApplied(c *gin.Context) {
	id := c.Param("id")
	h.mu.Lock()
	defer h.mu.Unlock()

	found, err := h.jobs.MarkApplied(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update job: " + err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	job, _ := h.jobs.Get(id)
	c.JSON(http.StatusOK, job)
}

func (h *Handler) DeleteJob(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	found, err := h.jobs.Delete(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete job: " + err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListAnalyses(c *gin.Context) {
	if h.analyses == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis collection not configured"})
		return
	}
	h.mu.Lock()
	all := h.analyses.All()
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(all),
		"analyses": all,
	})
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	if h.analyses == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis collection not configured"})
		return
	}
	h.mu.Lock()
	a, ok := h.analyses.Get(c.Param("id"))
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) GetResume(c *gin.Context) {
	if h.resume == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resume not configured"})
		return
	}
	h.mu.Lock()
	content := h.resume.Content()
	h.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"content": content})
}

type resumeRequest struct {
	Content string `json:"content" binding:"required"`
}

// UpdateResume is PUT /resume with {"content": "..."}.
func (h *Handler) UpdateResume(c *gin.Context) {
	if h.resume == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "resume not configured"})
		return
	}
	var req resumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.resume.Update(req.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update resume: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": h.resume.Content()})
}

func optionalBool(c *gin.Context, param string) (*bool, error) {
	v, ok := c.GetQuery(param)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, &paramError{param: param}
	}
	return &b, nil
}

type paramError struct {
	param string
}

func (e *paramError) Error() string {
	return e.param + " must be true or false"
}

func scoreOf(job models.Job) int {
	if job.Score == nil {
		return -1
	}
	return *job.Score
}
