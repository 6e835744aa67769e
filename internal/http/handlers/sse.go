package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yungbote/maiopinion/internal/pipeline"
	"github.com/yungbote/maiopinion/internal/platform/logger"
)

// eventStream writes pipeline events as server-sent "data:" frames.
type eventStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	log     *logger.Logger
}

func newEventStream(w http.ResponseWriter, log *logger.Logger) *eventStream {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	flusher, _ := w.(http.Flusher)
	return &eventStream{w: w, flusher: flusher, log: log}
}

func (s *eventStream) Notify(e pipeline.Event) {
	raw, err := json.Marshal(e)
	if err != nil {
		s.log.Warn("Failed to marshal SSE event", "error", err)
		return
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", raw); err != nil {
		s.log.Debug("SSE write failed", "error", err)
		return
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
}
