package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/dimba-league/dimba-api/internal/usecase"
)

const sseKeepaliveInterval = 30 * time.Second

// StreamEvents serves the progression event feed as server-sent events. Each
// bus frame becomes one `data:` line; a comment ping every 30 seconds keeps
// idle proxies from closing the connection. A closed subscriber channel means
// the bus dropped us for falling behind, so the client should reconnect.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamEvents")
	defer span.End()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: streaming is not supported on this connection", usecase.ErrInvalidInput))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.bus.Subscribe()
	defer h.bus.Unsubscribe(sub)

	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case frame, open := <-sub.C:
			if !open {
				return
			}
			buf := bytebufferpool.Get()
			_, _ = buf.WriteString("data: ")
			_, _ = buf.Write(frame)
			_, _ = buf.WriteString("\n\n")
			if _, err := w.Write(buf.B); err != nil {
				bytebufferpool.Put(buf)
				return
			}
			bytebufferpool.Put(buf)
			flusher.Flush()
		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
