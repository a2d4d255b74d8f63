package ai

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
)

// TEIEmbedder calls a text-embeddings-inference style service (POST /embed).
type TEIEmbedder struct {
	BaseURL    string
	HTTPClient *http.Client

	model     string
	dimension int
}

type teiRequest struct {
	Inputs []string `json:"inputs"`
}

type teiResponse [][]float32

func NewTEIEmbedder(baseURL, model string, dimension int, timeout time.Duration) *TEIEmbedder {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TEIEmbedder{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		model:     model,
		dimension: dimension,
	}
}

func (c *TEIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(teiRequest{Inputs: []string{text}})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request", goerr.V("url", c.BaseURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, goerr.New("embedding service returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(msg)))
	}

	var embeddings teiResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddings); err != nil {
		return nil, goerr.Wrap(err, "failed to decode response")
	}
	if len(embeddings) != 1 {
		return nil, goerr.New("expected one embedding", goerr.V("got", len(embeddings)))
	}
	if len(embeddings[0]) != c.dimension {
		return nil, goerr.Wrap(ErrDimension, "service returned wrong size",
			goerr.V("want", c.dimension),
			goerr.V("got", len(embeddings[0])))
	}

	return embeddings[0], nil
}

func (c *TEIEmbedder) Dimension() int { return c.dimension }

func (c *TEIEmbedder) Model() string { return c.model }
