package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diwise/cell-locator/internal/pkg/application/locator"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/repositories/proximity"
	"github.com/diwise/cell-locator/internal/pkg/infrastructure/repositories/regioncache"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestSetup(t *testing.T) {
	is, server, app := testSetup(t)
	defer server.Close()
	defer app.session.Stop()

	resp, _ := testRequest(is, server, http.MethodGet, "/health", nil)
	is.Equal(resp.StatusCode, http.StatusNoContent)
}

func TestThatNearbyCellsAreServedFromLocalDataset(t *testing.T) {
	is, server, app := testSetup(t)
	defer server.Close()
	defer app.session.Stop()

	resp, body := testRequest(is, server, http.MethodGet, "/api/v0/cells?lat=62.3908&lon=17.3069&limit=2", nil)
	is.Equal(resp.StatusCode, http.StatusOK)

	cells := []types.Cell{}
	is.NoErr(json.Unmarshal([]byte(body), &cells))
	is.Equal(len(cells), 2)
	is.Equal(cells[0].ID, "31001")
}

func TestThatSubmittedPositionBecomesLatest(t *testing.T) {
	is, server, app := testSetup(t)
	defer server.Close()
	defer app.session.Stop()

	resp, _ := testRequest(is, server, http.MethodGet, "/api/v0/positions/latest", nil)
	is.Equal(resp.StatusCode, http.StatusNotFound)

	resp, _ = testRequest(is, server, http.MethodPost, "/api/v0/positions", strings.NewReader(`{"latitude":62.3908,"longitude":17.3069}`))
	is.Equal(resp.StatusCode, http.StatusAccepted)

	resp, body := testRequest(is, server, http.MethodGet, "/api/v0/positions/latest", nil)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"latitude":62.3908`))

	pos, ok := app.hub.LastPosition()
	is.True(ok)
	is.Equal(pos.Longitude, 17.3069)
}

func TestThatMetricsAreExposed(t *testing.T) {
	is, server, app := testSetup(t)
	defer server.Close()
	defer app.session.Stop()

	resp, body := testRequest(is, server, http.MethodGet, "/metrics", nil)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, "go_goroutines"))
}

func TestLoadConfigurationDefaults(t *testing.T) {
	is := is.New(t)

	for _, key := range []string{"SERVICE_PORT", "DATASET_DIR", "DATASET_MAX_COUNT", "LOCATOR_MIN_INTERVAL", "LOCATOR_MIN_DISTANCE", "NEAREST_LIMIT", "MESSAGING_ENABLED"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := loadConfiguration(zerolog.Nop())

	is.Equal(cfg.servicePort, "8080")
	is.Equal(cfg.dataset.Dir, "/opt/diwise/cells")
	is.Equal(cfg.dataset.MaxDatasets, 0)
	is.Equal(cfg.locator.MinInterval, 10*time.Second)
	is.Equal(cfg.locator.MinDistance, 3.0)
	is.Equal(cfg.nearestLimit, proximity.DefaultLimit)
	is.True(cfg.messagingEnabled)
}

func TestLoadConfigurationFromEnvironment(t *testing.T) {
	is := is.New(t)

	t.Setenv("DATASET_MAX_COUNT", "4")
	t.Setenv("LOCATOR_MIN_INTERVAL", "30s")
	t.Setenv("NEAREST_LIMIT", "notanumber")
	t.Setenv("MESSAGING_ENABLED", "false")

	cfg := loadConfiguration(zerolog.Nop())

	is.Equal(cfg.dataset.MaxDatasets, 4)
	is.Equal(cfg.locator.MinInterval, 30*time.Second)
	is.Equal(cfg.nearestLimit, proximity.DefaultLimit)
	is.True(!cfg.messagingEnabled)
}

func TestResolverPrefersConfiguredRegions(t *testing.T) {
	is := is.New(t)

	regionsFile := filepath.Join(t.TempDir(), "regions.yaml")
	is.NoErr(os.WriteFile(regionsFile, []byte(regionsYaml), 0644))

	resolver, err := newResolver(appConfig{regionsFile: regionsFile, regionKey: "SE"})
	is.NoErr(err)

	key, err := resolver.Resolve(context.Background(), types.Position{Latitude: 60.17, Longitude: 24.94})
	is.NoErr(err)
	is.Equal(key, types.RegionKey("fi"))

	key, err = resolver.Resolve(context.Background(), types.Position{Latitude: 62.39, Longitude: 17.30})
	is.NoErr(err)
	is.Equal(key, types.RegionKey("se"))
}

func TestSeedDataset(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	dir := t.TempDir()
	exportFile := filepath.Join(dir, "export", "NO.csv")
	is.NoErr(os.MkdirAll(filepath.Dir(exportFile), 0755))
	is.NoErr(os.WriteFile(exportFile, []byte(openCellIdExport), 0644))

	cache, err := regioncache.New(regioncache.Config{Dir: filepath.Join(dir, "cells")})
	is.NoErr(err)

	is.NoErr(seedDataset(ctx, cache, exportFile, ""))
	is.True(cache.HasDataset("no"))

	store, err := proximity.Open(ctx, cache.PathFor("no"))
	is.NoErr(err)
	defer store.Close()

	cells, err := store.NearestCells(ctx, types.Position{Latitude: 59.91, Longitude: 10.75}, 10)
	is.NoErr(err)
	is.Equal(len(cells), 2)
}

func testSetup(t *testing.T) (*is.I, *httptest.Server, *application) {
	is := is.New(t)
	ctx := context.Background()

	cfg := appConfig{
		dataset:      regioncache.Config{Dir: t.TempDir(), RemoteRoot: "http://127.0.0.1:1"},
		locator:      locator.DefaultConfig(),
		nearestLimit: proximity.DefaultLimit,
	}

	cache, err := regioncache.New(cfg.dataset)
	is.NoErr(err)

	is.NoErr(proximity.CreateDataset(ctx, cache.PathFor("se"), []types.Cell{
		{ID: "31001", MobileCountryCode: "240", MobileNetworkCode: "1", Latitude: 62.3909, Longitude: 17.3070},
		{ID: "31002", MobileCountryCode: "240", MobileNetworkCode: "1", Latitude: 62.3950, Longitude: 17.3150},
		{ID: "31003", MobileCountryCode: "240", MobileNetworkCode: "1", Latitude: 62.5000, Longitude: 17.5000},
	}))

	resolver, err := newResolver(appConfig{regionKey: "se"})
	is.NoErr(err)

	app := newApplication(cfg, cache, resolver)
	is.NoErr(app.session.Start(ctx))

	r := setupRouter(zerolog.Nop(), cfg, app)

	return is, httptest.NewServer(r), app
}

func testRequest(is *is.I, ts *httptest.Server, method, path string, body io.Reader) (*http.Response, string) {
	req, _ := http.NewRequest(method, ts.URL+path, body)
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	respBody, _ := io.ReadAll(resp.Body)
	defer resp.Body.Close()

	return resp, string(respBody)
}

const regionsYaml string = `
regions:
  - key: fi
    name: Finland
    boundingBox:
      minLatitude: 59.5
      minLongitude: 19.0
      maxLatitude: 70.1
      maxLongitude: 31.6
`

const openCellIdExport string = `radio,mcc,net,area,cell,unit,lon,lat,range,samples,changeable,created,updated,averageSignal
LTE,242,1,3100,1001,,10.7522,59.9139,1000,12,1,1459692342,1677592342,0
LTE,242,1,3100,1002,,10.7600,59.9200,1000,8,1,1459692342,1677592342,0
`
