package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diwise/cell-locator/internal/pkg/application/coordinator"
	"github.com/diwise/cell-locator/internal/pkg/application/locator"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestHealthHandler(t *testing.T) {
	is, srv, _, _ := testSetup(t, "")
	defer srv.Close()

	resp, _ := testRequest(is, srv, http.MethodGet, "/health", "", nil)
	is.Equal(resp.StatusCode, http.StatusNoContent)
}

func TestQueryNearbyCells(t *testing.T) {
	is, srv, c, _ := testSetup(t, "")
	defer srv.Close()

	resp, body := testRequest(is, srv, http.MethodGet, "/api/v0/cells?lat=62.3908&lon=17.3069&limit=2", "", nil)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get("Content-Type"), "application/json")

	cells := []types.Cell{}
	is.NoErr(json.Unmarshal(body, &cells))
	is.Equal(len(cells), 2)
	is.Equal(cells[0].ID, "31001")

	is.Equal(len(c.QueryNearCalls()), 1)
	is.Equal(c.QueryNearCalls()[0].Pos.Latitude, 62.3908)
}

func TestLimitCannotExceedCoordinatorResult(t *testing.T) {
	is, srv, c, _ := testSetup(t, "")
	defer srv.Close()

	resp, body := testRequest(is, srv, http.MethodGet, "/api/v0/cells?lat=62.3908&lon=17.3069&limit=100", "", nil)
	is.Equal(resp.StatusCode, http.StatusOK)

	cells := []types.Cell{}
	is.NoErr(json.Unmarshal(body, &cells))
	is.Equal(len(cells), 3)
	is.Equal(len(c.QueryNearCalls()), 1)
}

func TestQueryNearbyCellsWithBadParameters(t *testing.T) {
	is, srv, c, _ := testSetup(t, "")
	defer srv.Close()

	for _, query := range []string{"lat=62.39", "lat=abc&lon=17.30", "lat=95&lon=17.30", "lat=62.39&lon=17.30&limit=0", "lat=NaN&lon=17.30"} {
		resp, _ := testRequest(is, srv, http.MethodGet, "/api/v0/cells?"+query, "", nil)
		is.Equal(resp.StatusCode, http.StatusBadRequest) // query should be rejected
	}

	is.Equal(len(c.QueryNearCalls()), 0)
}

func TestQueryErrorsAreMappedToStatusCodes(t *testing.T) {
	is, srv, c, _ := testSetup(t, "")
	defer srv.Close()

	expectations := map[error]int{
		fmt.Errorf("%w: no region", coordinator.ErrGeocodeFailed): http.StatusNotFound,
		fmt.Errorf("%w: timeout", coordinator.ErrFetchFailed):     http.StatusBadGateway,
		fmt.Errorf("%w: corrupt", coordinator.ErrOpenFailed):      http.StatusInternalServerError,
		coordinator.ErrQueryFailed:                                http.StatusInternalServerError,
	}

	for queryErr, expectedCode := range expectations {
		c.QueryNearFunc = func(context.Context, types.Position, coordinator.RegionResolver) ([]types.Cell, error) {
			return nil, queryErr
		}

		resp, _ := testRequest(is, srv, http.MethodGet, "/api/v0/cells?lat=62.39&lon=17.30", "", nil)
		is.Equal(resp.StatusCode, expectedCode)
	}
}

func TestSubmitPosition(t *testing.T) {
	is, srv, _, l := testSetup(t, "")
	defer srv.Close()

	resp, _ := testRequest(is, srv, http.MethodPost, "/api/v0/positions", "", strings.NewReader(`{"latitude":62.3908,"longitude":17.3069}`))
	is.Equal(resp.StatusCode, http.StatusAccepted)

	is.Equal(len(l.FeedCalls()), 1)
	is.Equal(l.FeedCalls()[0].Pos.Longitude, 17.3069)
}

func TestSubmitInvalidPosition(t *testing.T) {
	is, srv, _, l := testSetup(t, "")
	defer srv.Close()

	resp, _ := testRequest(is, srv, http.MethodPost, "/api/v0/positions", "", strings.NewReader(`{"latitude":`))
	is.Equal(resp.StatusCode, http.StatusBadRequest)
	is.Equal(len(l.FeedCalls()), 0)

	l.FeedFunc = func(context.Context, types.Position) error { return locator.ErrInvalidPosition }

	resp, _ = testRequest(is, srv, http.MethodPost, "/api/v0/positions", "", strings.NewReader(`{"latitude":100,"longitude":17.3069}`))
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestLatestPosition(t *testing.T) {
	is, srv, _, l := testSetup(t, "")
	defer srv.Close()

	resp, _ := testRequest(is, srv, http.MethodGet, "/api/v0/positions/latest", "", nil)
	is.Equal(resp.StatusCode, http.StatusNotFound)

	l.LastKnownFunc = func() (types.Position, bool) {
		return types.Position{Latitude: 62.3908, Longitude: 17.3069}, true
	}

	resp, body := testRequest(is, srv, http.MethodGet, "/api/v0/positions/latest", "", nil)
	is.Equal(resp.StatusCode, http.StatusOK)

	pos := types.Position{}
	is.NoErr(json.Unmarshal(body, &pos))
	is.Equal(pos.Latitude, 62.3908)
}

func TestApiRequiresTokenWhenSecretIsSet(t *testing.T) {
	is, srv, _, _ := testSetup(t, "s3cr3t")
	defer srv.Close()

	resp, _ := testRequest(is, srv, http.MethodGet, "/health", "", nil)
	is.Equal(resp.StatusCode, http.StatusNoContent)

	resp, _ = testRequest(is, srv, http.MethodGet, "/api/v0/cells?lat=62.39&lon=17.30", "", nil)
	is.Equal(resp.StatusCode, http.StatusUnauthorized)

	_, token, err := jwtauth.New("HS256", []byte("s3cr3t"), nil).Encode(map[string]interface{}{"sub": "tracker"})
	is.NoErr(err)

	resp, _ = testRequest(is, srv, http.MethodGet, "/api/v0/cells?lat=62.39&lon=17.30", token, nil)
	is.Equal(resp.StatusCode, http.StatusOK)

	_, forged, err := jwtauth.New("HS256", []byte("wrong"), nil).Encode(map[string]interface{}{"sub": "tracker"})
	is.NoErr(err)

	resp, _ = testRequest(is, srv, http.MethodGet, "/api/v0/cells?lat=62.39&lon=17.30", forged, nil)
	is.Equal(resp.StatusCode, http.StatusUnauthorized)
}

func testSetup(t *testing.T, jwtSecret string) (*is.I, *httptest.Server, *coordinator.CoordinatorMock, *locator.LocatorMock) {
	is := is.New(t)

	c := &coordinator.CoordinatorMock{
		QueryNearFunc: func(context.Context, types.Position, coordinator.RegionResolver) ([]types.Cell, error) {
			return []types.Cell{
				{ID: "31001", Latitude: 62.3909, Longitude: 17.3070, RankScore: 0.0004},
				{ID: "31002", Latitude: 62.3920, Longitude: 17.3100, RankScore: 0.0003},
				{ID: "31003", Latitude: 62.4000, Longitude: 17.3200, RankScore: 0.0002},
			}, nil
		},
	}

	l := &locator.LocatorMock{
		FeedFunc: func(context.Context, types.Position) error { return nil },
		LastKnownFunc: func() (types.Position, bool) {
			return types.Position{}, false
		},
	}

	r := RegisterHandlers(zerolog.Nop(), chi.NewRouter(), c, coordinator.StaticResolver("se"), l, jwtSecret)

	return is, httptest.NewServer(r), c, l
}

func testRequest(is *is.I, ts *httptest.Server, method, path, token string, body io.Reader) (*http.Response, []byte) {
	req, _ := http.NewRequest(method, ts.URL+path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		is.NoErr(errors.Join(fmt.Errorf("request %s %s failed", method, path), err))
		return nil, nil
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	return resp, respBody
}
