package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"player-auction/internal/runtime"
	"player-auction/internal/stream"
)

var ssePingInterval = 15 * time.Second

// StreamHandler serves an auction's public event feed as SSE, replaying
// buffered events newer than Last-Event-ID first.
func StreamHandler(coord *runtime.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "auction_id")
		buf, err := coord.Buffer(id)
		if err != nil {
			writeOpError(w, r, err)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			WriteHTTPError(w, http.StatusInternalServerError, "stream_not_supported")
			return
		}

		metricSSEConnectionsTotal.Add(1)
		metricSSEConnectionsActive.Add(1)
		defer metricSSEConnectionsActive.Add(-1)

		stream.SetSSEHeaders(w)
		w.WriteHeader(http.StatusOK)

		// Subscribe before replaying so nothing falls between the two.
		ch := buf.Subscribe()
		defer buf.Unsubscribe(ch)

		lastSent := r.Header.Get("Last-Event-ID")
		if lastSent == "" {
			lastSent = r.URL.Query().Get("last_event_id")
		}
		replay := buf.ReplayAfter(lastSent)
		for _, ev := range replay {
			if err := stream.WriteSSE(w, ev); err != nil {
				return
			}
			lastSent = ev.EventID
		}
		metricSSEReplayedEvents.Add(int64(len(replay)))
		flusher.Flush()
		log.Info().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("auction_id", id).
			Int("replayed", len(replay)).
			Msg("sse stream opened")

		ticker := time.NewTicker(ssePingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.Context().Done():
				log.Info().
					Str("request_id", chimw.GetReqID(r.Context())).
					Str("auction_id", id).
					Msg("sse stream closed")
				return
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if !newerThan(ev.EventID, lastSent) {
					continue
				}
				if err := stream.WriteSSE(w, ev); err != nil {
					return
				}
				lastSent = ev.EventID
			case <-ticker.C:
				if err := stream.WriteKeepAlive(w); err != nil {
					return
				}
			}
		}
	}
}

// newerThan drops live events already sent during replay.
func newerThan(eventID, last string) bool {
	if last == "" {
		return true
	}
	a, errA := strconv.ParseInt(eventID, 10, 64)
	b, errB := strconv.ParseInt(last, 10, 64)
	if errA != nil || errB != nil {
		return true
	}
	return a > b
}
