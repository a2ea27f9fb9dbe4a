package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/diwise/cell-locator/internal/pkg/infrastructure/logging"
	"github.com/diwise/cell-locator/pkg/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var ErrNotFound = fmt.Errorf("not found")
var ErrUnexpectedStatus = fmt.Errorf("unexpected status code")

type CellLocatorClient interface {
	NearbyCells(ctx context.Context, lat, lon float64) ([]types.Cell, error)
	SubmitPosition(ctx context.Context, pos types.Position) error
	LatestPosition(ctx context.Context) (types.Position, error)
}

type Option func(*cellLocatorClient)

func WithBearerToken(token string) Option {
	return func(c *cellLocatorClient) {
		c.token = token
	}
}

type cellLocatorClient struct {
	url        string
	token      string
	httpClient http.Client
}

var tracer = otel.Tracer("cell-locator-client")

func New(cellLocatorUrl string, opts ...Option) CellLocatorClient {
	c := &cellLocatorClient{
		url: cellLocatorUrl,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *cellLocatorClient) NearbyCells(ctx context.Context, lat, lon float64) ([]types.Cell, error) {
	var err error
	ctx, span := tracer.Start(ctx, "nearby-cells")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	respBody, err := c.do(ctx, http.MethodGet, "/api/v0/cells?"+params.Encode(), nil, http.StatusOK)
	if err != nil {
		log.Error().Err(err).Msg("failed to query nearby cells")
		return nil, err
	}

	cells := []types.Cell{}

	err = json.Unmarshal(respBody, &cells)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal response body: %w", err)
		return nil, err
	}

	return cells, nil
}

func (c *cellLocatorClient) SubmitPosition(ctx context.Context, pos types.Position) error {
	var err error
	ctx, span := tracer.Start(ctx, "submit-position")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	b, err := json.Marshal(pos)
	if err != nil {
		return err
	}

	_, err = c.do(ctx, http.MethodPost, "/api/v0/positions", b, http.StatusAccepted)
	return err
}

func (c *cellLocatorClient) LatestPosition(ctx context.Context) (types.Position, error) {
	var err error
	ctx, span := tracer.Start(ctx, "latest-position")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	pos := types.Position{}

	respBody, err := c.do(ctx, http.MethodGet, "/api/v0/positions/latest", nil, http.StatusOK)
	if err != nil {
		return pos, err
	}

	err = json.Unmarshal(respBody, &pos)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal response body: %w", err)
	}

	return pos, err
}

func (c *cellLocatorClient) do(ctx context.Context, method, path string, body []byte, expectedStatus int) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != expectedStatus {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return respBody, nil
}
