package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/diwise/cell-locator/internal/pkg/application/coordinator"
	"github.com/diwise/cell-locator/internal/pkg/application/locator"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("cell-locator/api")

var errBadRequest = fmt.Errorf("bad request")

// RegisterHandlers mounts the health check and the v0 api on router. The api requires a
// valid HS256 token when jwtSecret is not empty.
func RegisterHandlers(log zerolog.Logger, router *chi.Mux, c coordinator.Coordinator, resolver coordinator.RegionResolver, l locator.Locator, jwtSecret string) *chi.Mux {

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v0", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if jwtSecret != "" {
				tokenAuth := jwtauth.New("HS256", []byte(jwtSecret), nil)
				r.Use(jwtauth.Verifier(tokenAuth))
				r.Use(jwtauth.Authenticator)
			}

			r.Get("/cells", queryNearbyCellsHandler(log, c, resolver))

			r.Route("/positions", func(r chi.Router) {
				r.Post("/", submitPositionHandler(log, l))
				r.Get("/latest", latestPositionHandler(log, l))
			})
		})
	})

	return router
}

// queryNearbyCellsHandler responds with the cells nearest to lat/lon. The limit parameter can
// only narrow the result, which never holds more cells than the coordinator's limit
// (NEAREST_LIMIT).
func queryNearbyCellsHandler(log zerolog.Logger, c coordinator.Coordinator, resolver coordinator.RegionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "query-nearby-cells")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := logging.AddTraceIDToLogger(ctx, span, log)

		pos, limit, err := parseCellsQuery(r)
		if err != nil {
			requestLogger.Info().Err(err).Msg("invalid query")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		cells, err := c.QueryNear(ctx, pos, resolver)
		if err != nil {
			code := statusFromError(err)
			if code == http.StatusNotFound {
				requestLogger.Info().Err(err).Msg("no region for position")
			} else {
				requestLogger.Error().Err(err).Msg("failed to query nearby cells")
			}
			w.WriteHeader(code)
			return
		}

		if limit > 0 && len(cells) > limit {
			cells = cells[:limit]
		}

		b, err := json.Marshal(cells)
		if err != nil {
			requestLogger.Error().Err(err).Msg("failed to marshal cells")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}

func submitPositionHandler(log zerolog.Logger, l locator.Locator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		ctx, span := tracer.Start(r.Context(), "submit-position")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		ctx, requestLogger := logging.AddTraceIDToLogger(ctx, span, log)

		body, err := io.ReadAll(r.Body)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to read body")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var pos types.Position
		err = json.Unmarshal(body, &pos)
		if err != nil {
			requestLogger.Error().Err(err).Msg("unable to unmarshal body")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		err = l.Feed(ctx, pos)
		if err != nil {
			requestLogger.Info().Err(err).Msg("position rejected")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

func latestPositionHandler(log zerolog.Logger, l locator.Locator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error
		defer r.Body.Close()

		_, span := tracer.Start(r.Context(), "latest-position")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		pos, ok := l.LastKnown()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		b, err := json.Marshal(pos)
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal position")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(b)
	}
}

func parseCellsQuery(r *http.Request) (types.Position, int, error) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || !(lat >= -90 && lat <= 90) {
		return types.Position{}, 0, fmt.Errorf("%w: lat %q", errBadRequest, q.Get("lat"))
	}

	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil || !(lon >= -180 && lon <= 180) {
		return types.Position{}, 0, fmt.Errorf("%w: lon %q", errBadRequest, q.Get("lon"))
	}

	limit := 0
	if s := q.Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 1 {
			return types.Position{}, 0, fmt.Errorf("%w: limit %q", errBadRequest, s)
		}
	}

	return types.Position{Latitude: lat, Longitude: lon}, limit, nil
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, coordinator.ErrGeocodeFailed):
		return http.StatusNotFound
	case errors.Is(err, coordinator.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
