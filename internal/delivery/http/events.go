package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultHeartbeat = 15 * time.Second

// EventsController streams a user's change events as server-sent events so
// other open tabs can re-read their progress.
type EventsController struct {
	stream    EventStream
	logger    *zap.Logger
	heartbeat time.Duration
}

func NewEventsController(stream EventStream, logger *zap.Logger) *EventsController {
	return &EventsController{stream: stream, logger: logger, heartbeat: defaultHeartbeat}
}

// Stream handles GET /users/:userID/events.
func (h *EventsController) Stream(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	events, cancel := h.stream.Subscribe(userID)
	defer cancel()

	h.logger.Debug("event stream opened", zap.String("user_id", userID))
	defer h.logger.Debug("event stream closed", zap.String("user_id", userID))

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Type), ev)
			return true
		case <-heartbeat.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		}
	})
}
