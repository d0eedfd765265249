// Package client fetches the project dataset from a remote host when the
// dashboard is not running on the embedded seed.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/travisk/storage-dashboard-go/internal/domain"
	"github.com/travisk/storage-dashboard-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// DatasetClient fetches the project list from the dataset endpoint with
// retry, circuit breaker, and tracing.
type DatasetClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewDatasetClient creates a new DatasetClient.
func NewDatasetClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *DatasetClient {
	return &DatasetClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// FetchProjects downloads and decodes the full project list.
func (c *DatasetClient) FetchProjects(ctx context.Context) ([]domain.Project, error) {
	ctx, span := tracer.Start(ctx, "DatasetClient.FetchProjects")
	defer span.End()
	span.SetAttributes(attribute.String("dataset.url", c.baseURL))

	var projects []domain.Project

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			url := fmt.Sprintf("%s/projects.json", c.baseURL)
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return &domain.ErrNotFound{Resource: "dataset", ID: url}
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("dataset host returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&projects)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return projects, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "dataset", Err: err}
	}

	return result.([]domain.Project), nil
}
