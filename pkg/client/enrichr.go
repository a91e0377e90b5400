// Client for the Enrichr functional-enrichment service.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/yumyai/knowdegs/pkg/model"
)

const (
	DefaultEnrichrURL = "https://maayanlab.cloud/Enrichr"

	// Background gene-set library queried in step two.
	EnrichrBackground = "KEGG_2021_Human"

	// Label attached to every submitted list.
	enrichrDescription = "KnowDEGs"

	// How many top-ranked terms the report keeps.
	topTermCount = 5
)

// Positional layout of one enrichment entry. This is a pinned external
// contract of the Enrichr API, not a choice made here.
const (
	enrichrTermIdx  = 1
	enrichrPValIdx  = 2
	enrichrGenesIdx = 5
)

type EnrichrClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewEnrichrClient(baseURL string) *EnrichrClient {
	if baseURL == "" {
		baseURL = DefaultEnrichrURL
	}
	return &EnrichrClient{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
	}
}

// Enrich runs the two-step protocol: submit the gene list, then fetch
// the KEGG enrichment for the returned list id. Any failure on either
// step fails the whole call; an empty term array is a valid result and
// comes back as an empty slice with a nil error.
func (c *EnrichrClient) Enrich(ctx context.Context, symbols []string) ([]model.EnrichmentTerm, error) {
	listID, err := c.addList(ctx, symbols)
	if err != nil {
		return nil, err
	}
	return c.fetchEnrichment(ctx, listID)
}

// addList posts the newline-joined symbol list and returns the list id.
func (c *EnrichrClient) addList(ctx context.Context, symbols []string) (int64, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	if err := form.WriteField("list", strings.Join(symbols, "\n")); err != nil {
		return 0, fmt.Errorf("build addList form: %w", err)
	}
	if err := form.WriteField("description", enrichrDescription); err != nil {
		return 0, fmt.Errorf("build addList form: %w", err)
	}
	if err := form.Close(); err != nil {
		return 0, fmt.Errorf("build addList form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/addList", &body)
	if err != nil {
		return 0, fmt.Errorf("build addList request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("addList request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("addList returned status %d", resp.StatusCode)
	}

	var payload struct {
		UserListID int64 `json:"userListId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode addList response: %w", err)
	}
	if payload.UserListID == 0 {
		return 0, fmt.Errorf("addList response carries no userListId")
	}

	return payload.UserListID, nil
}

// fetchEnrichment queries the enrich endpoint and extracts the top terms
// from the positional result arrays.
func (c *EnrichrClient) fetchEnrichment(ctx context.Context, listID int64) ([]model.EnrichmentTerm, error) {
	params := url.Values{}
	params.Set("userListId", fmt.Sprintf("%d", listID))
	params.Set("backgroundType", EnrichrBackground)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/enrich?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build enrich request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("enrich request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("enrich returned status %d", resp.StatusCode)
	}

	var payload map[string][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode enrich response: %w", err)
	}

	entries, ok := payload[EnrichrBackground]
	if !ok {
		return nil, fmt.Errorf("enrich response carries no %q key", EnrichrBackground)
	}

	if len(entries) > topTermCount {
		entries = entries[:topTermCount]
	}

	terms := make([]model.EnrichmentTerm, 0, len(entries))
	for i, raw := range entries {
		term, err := parseEnrichmentEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("enrich entry %d: %w", i, err)
		}
		terms = append(terms, term)
	}

	return terms, nil
}

// parseEnrichmentEntry pulls the three pinned fields out of one
// positional entry array.
func parseEnrichmentEntry(raw json.RawMessage) (model.EnrichmentTerm, error) {
	var fields []interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return model.EnrichmentTerm{}, fmt.Errorf("not a positional array: %w", err)
	}
	if len(fields) <= enrichrGenesIdx {
		return model.EnrichmentTerm{}, fmt.Errorf("expected at least %d fields, got %d", enrichrGenesIdx+1, len(fields))
	}

	name, ok := fields[enrichrTermIdx].(string)
	if !ok {
		return model.EnrichmentTerm{}, fmt.Errorf("term field is not a string")
	}

	pval, ok := fields[enrichrPValIdx].(float64)
	if !ok {
		return model.EnrichmentTerm{}, fmt.Errorf("p-value field is not a number")
	}

	rawGenes, ok := fields[enrichrGenesIdx].([]interface{})
	if !ok {
		return model.EnrichmentTerm{}, fmt.Errorf("gene-set field is not an array")
	}
	genes := make([]string, 0, len(rawGenes))
	for _, g := range rawGenes {
		gene, ok := g.(string)
		if !ok {
			return model.EnrichmentTerm{}, fmt.Errorf("gene-set member is not a string")
		}
		genes = append(genes, gene)
	}

	return model.EnrichmentTerm{
		Term:      name,
		PValue:    pval,
		Genes:     genes,
		NegLog10P: -math.Log10(pval),
	}, nil
}
