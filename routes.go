package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"devcon-telemetry/internal/events"
	"devcon-telemetry/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func setupRoutes(target *events.Target, deliveries *telemetry.Deliveries) http.Handler {
	apirouter := http.NewServeMux()

	apirouter.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		r.Body.Close()

		fmt.Fprint(w, "Hello from the Devcon Telemetry Bridge.")
	})

	// Dispatches the request body as the detail of the named event, this is
	// the HTTP equivalent of dispatching a custom event in the browser.
	apirouter.HandleFunc("POST /events/{name}", func(w http.ResponseWriter, r *http.Request) {
		// The context of the HTTP request might contain OpenTelemetry information,
		// i.e. SpanID or TraceID. If this is the case the line below creates
		// a sub span. Otherwise we'll start a new root span here.
		reqctx, span := tracer.Start(r.Context(), "receive_event")
		defer span.End()

		w.Header().Set("Content-Type", "application/json")

		// Nobody would receive the event, don't bother reading the body.
		if name := r.PathValue("name"); !target.HasListener(name) {
			r.Body.Close()
			writeAPIError(w, http.StatusNotFound, fmt.Errorf("%w: %s", events.ErrNoListener, name))
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxEventSize))
		r.Body.Close()

		if err != nil {
			span.RecordError(err)

			var mberr *http.MaxBytesError
			if errors.As(err, &mberr) {
				writeAPIError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("Event detail exceeds %d bytes.", mberr.Limit))
				return
			}
			slog.Error("Failed to read event detail.", "error", err)
			writeAPIError(w, http.StatusBadRequest, err)
			return
		}

		ev := &events.Event{
			Type:   r.PathValue("name"),
			Detail: body,
		}
		slog.Debug("Handling incoming event...", "type", ev.Type)

		if err := target.Dispatch(reqctx, ev); err != nil {
			span.RecordError(err)

			switch {
			case errors.Is(err, events.ErrNoListener):
				writeAPIError(w, http.StatusNotFound, err)
			case errors.Is(err, telemetry.ErrInvalidPayload):
				writeAPIError(w, http.StatusUnprocessableEntity, err)
			case errors.Is(err, telemetry.ErrConfiguration):
				writeAPIError(w, http.StatusBadRequest, err)
			default:
				slog.Error("Unhandled error while dispatching event.", "event", ev.ID, "error", err)
				writeAPIError(w, http.StatusInternalServerError, err)
			}
			return
		}

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(&APIResponse{
			Event: ev.ID,
		})
	})

	apirouter.HandleFunc("GET /deliveries/{id}", func(w http.ResponseWriter, r *http.Request) {
		r.Body.Close()
		w.Header().Set("Content-Type", "application/json")

		dl, ok := deliveries.Get(r.PathValue("id"))
		if !ok {
			writeAPIError(w, http.StatusNotFound, errors.New("Delivery not found, it may not have settled yet or has expired."))
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(dl)
	})

	if UseMetrics {
		apirouter.Handle("GET /metrics", promhttp.Handler())
	}

	return otelhttp.NewHandler(apirouter, "devcon_telemetry_api")
}

func writeAPIError(w http.ResponseWriter, status int, err error) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&APIError{
		Message: err.Error(),
	})
}
