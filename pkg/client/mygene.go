// Client for the MyGene.info gene-information service.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yumyai/knowdegs/logger"
	"github.com/yumyai/knowdegs/pkg/model"
	"go.uber.org/zap"
)

const (
	DefaultMyGeneURL = "https://mygene.info/v3"

	// Species filter sent with every query.
	mygeneSpecies = "human"

	// Placeholders when a hit lacks the optional fields.
	noNameAvailable    = "N/A"
	noSummaryAvailable = "No summary available."
)

type MyGeneClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewMyGeneClient(baseURL string) *MyGeneClient {
	if baseURL == "" {
		baseURL = DefaultMyGeneURL
	}
	return &MyGeneClient{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
	}
}

// Response shape of /query. Only the first hit is consumed.
type mygeneQueryResponse struct {
	Hits []struct {
		Name    string `json:"name"`
		Summary string `json:"summary"`
	} `json:"hits"`
}

// Annotate looks each symbol up one at a time, in order. A failed or
// empty lookup becomes a marker on that symbol's Annotation and the loop
// moves on; no failure here aborts the batch.
func (c *MyGeneClient) Annotate(ctx context.Context, symbols []string) []model.Annotation {
	annotations := make([]model.Annotation, 0, len(symbols))

	for _, symbol := range symbols {
		annotations = append(annotations, c.annotateOne(ctx, symbol))
	}

	return annotations
}

func (c *MyGeneClient) annotateOne(ctx context.Context, symbol string) model.Annotation {
	anno := model.Annotation{Symbol: symbol}

	params := url.Values{}
	params.Set("q", symbol)
	params.Set("species", mygeneSpecies)
	queryURL := fmt.Sprintf("%s/query?%s", c.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		anno.Status = model.AnnotationFailed
		return anno
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Warn("MyGene lookup failed", zap.String("symbol", symbol), zap.Error(err))
		anno.Status = model.AnnotationFailed
		return anno
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("MyGene lookup returned non-OK status",
			zap.String("symbol", symbol),
			zap.Int("status", resp.StatusCode))
		anno.Status = model.AnnotationFailed
		return anno
	}

	var payload mygeneQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Warn("MyGene response undecodable", zap.String("symbol", symbol), zap.Error(err))
		anno.Status = model.AnnotationFailed
		return anno
	}

	if len(payload.Hits) == 0 {
		anno.Status = model.AnnotationNoMatch
		return anno
	}

	hit := payload.Hits[0]
	anno.Name = hit.Name
	if anno.Name == "" {
		anno.Name = noNameAvailable
	}
	anno.Summary = hit.Summary
	if anno.Summary == "" {
		anno.Summary = noSummaryAvailable
	}
	anno.Status = model.AnnotationOK

	return anno
}
