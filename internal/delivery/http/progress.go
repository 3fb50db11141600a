package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const genericFailure = "something went wrong, please try again"

// ProgressController exposes the progress engine to the web client.
type ProgressController struct {
	service ProgressService
	logger  *zap.Logger
}

func NewProgressController(service ProgressService, logger *zap.Logger) *ProgressController {
	return &ProgressController{service: service, logger: logger}
}

// InitWord handles POST /users/:userID/words/:wordID/init.
func (h *ProgressController) InitWord(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	// The body is optional; an empty one means the ungrouped word.
	var req initRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	item, err := h.service.Initialize(c.Request.Context(), userID, req.GroupID, c.Param("wordID"))
	if err != nil {
		h.fail(c, "init word", err)
		return
	}

	c.JSON(http.StatusOK, newWordProgressResponse(item))
}

// ReviewWord handles POST /users/:userID/words/:wordID/review.
func (h *ProgressController) ReviewWord(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	item, err := h.service.UpdateWordProgress(c.Request.Context(), userID, req.GroupID, c.Param("wordID"), *req.Success)
	if err != nil {
		h.fail(c, "review word", err)
		return
	}

	c.JSON(http.StatusOK, newWordProgressResponse(item))
}

// ReviewQueue handles POST /users/:userID/review-queue.
func (h *ProgressController) ReviewQueue(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	var req reviewQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ids, err := h.service.GetWordsForReview(c.Request.Context(), userID, req.GroupID, req.WordIDs)
	if err != nil {
		h.fail(c, "review queue", err)
		return
	}

	c.JSON(http.StatusOK, reviewQueueResponse{WordIDs: ids})
}

// Progress handles GET /users/:userID/progress.
func (h *ProgressController) Progress(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	summary, err := h.service.GetUserProgress(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "user progress", err)
		return
	}

	c.JSON(http.StatusOK, newProgressResponse(summary))
}

// Streak handles POST /users/:userID/streak.
func (h *ProgressController) Streak(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	days, err := h.service.UpdateUserStreak(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, "update streak", err)
		return
	}

	c.JSON(http.StatusOK, streakResponse{StreakDays: days})
}

// userIDParam validates the path user id, which is issued by the auth provider as a UUID.
func userIDParam(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return "", false
	}
	return id.String(), true
}

func (h *ProgressController) fail(c *gin.Context, op string, err error) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: genericFailure})
}
