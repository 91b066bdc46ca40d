package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/brainydx/task-tracker/internal/core/ports"
)

const heartbeatInterval = 15 * time.Second

// EventSource is the subscription side of the broadcast hub.
type EventSource interface {
	Subscribe() (string, <-chan ports.Event)
	Unsubscribe(id string)
}

// StreamHandler serves the push channel as a Server-Sent Events stream.
// Connecting subscribes the session implicitly; disconnecting (or a missed
// event while offline) means the client reconciles by re-fetching — there is
// no replay.
type StreamHandler struct {
	source EventSource
	log    zerolog.Logger
}

func NewStreamHandler(source EventSource, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{source: source, log: log}
}

// Stream handles GET /api/events.
//
// @Summary      Subscribe to task mutation events
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string  "SSE stream of task.created / task.updated events"
// @Failure      401  {object}  errorResponse
// @Router       /api/events [get]
func (h *StreamHandler) Stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	id, events := h.source.Subscribe()
	defer h.source.Unsubscribe(id)
	h.log.Debug().Str("session_id", id).Msg("event stream opened")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Str("session_id", id).Msg("event stream closed")
			return nil
		case <-heartbeat.C:
			// comment line keeps intermediaries from timing out the stream
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(evt.Payload)
			if err != nil {
				h.log.Warn().Err(err).Str("event", evt.Name).Msg("failed to marshal event payload")
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", evt.Name, data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
