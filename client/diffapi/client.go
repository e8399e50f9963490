// Package diffapi is the HTTP client for the external diff service. It
// implements types.DiffService over four endpoints: line-diff alignment,
// matching-pair lookup, row search, and document patching. Request bodies
// are brotli-compressed JSON; the service decompresses by Content-Encoding.
package diffapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"diffpane/logger"
	"diffpane/types"

	"github.com/andybalholm/brotli"
)

// DefaultURL is the production diff service endpoint.
const DefaultURL = "https://api.diffpane.dev"

const (
	computePath = "/v1/diff/compute"
	pairPath    = "/v1/pairs/match"
	searchPath  = "/v1/search/rows"
	patchPath   = "/v1/doc/patch"
)

// computeRequest asks for a fresh line-diff alignment of two documents.
type computeRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// pairRequest asks for the bracket/quote pair at a caret offset.
type pairRequest struct {
	Text   string `json:"text"`
	Offset int    `json:"offset"`
}

// pairResponse wraps the optional match; Match is null when the caret is
// not on or next to a pair character.
type pairResponse struct {
	Match *types.PairMatch `json:"match"`
}

// searchRequest asks for the aligned rows whose text contains the keyword
// on one side. Present tells the service which rows are concrete there.
type searchRequest struct {
	DocumentID string `json:"document_id"`
	Keyword    string `json:"keyword"`
	Present    []bool `json:"present"`
}

type searchResponse struct {
	Rows []int `json:"rows"`
}

// patchRequest forwards a minimal edit to the document store.
type patchRequest struct {
	DocumentID string `json:"document_id"`
	StartChar  int    `json:"start_char"`
	EndChar    int    `json:"end_char"`
	NewText    string `json:"new_text"`
}

type patchResponse struct {
	NewLineCount int `json:"new_line_count"`
}

// Client talks to the diff service. It satisfies types.DiffService.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	AuthToken  string
}

// NewClient creates a diff service client.
// timeoutMs is the HTTP client timeout in milliseconds (0 = no timeout).
func NewClient(baseURL, apiKey string, timeoutMs int) *Client {
	timeout := time.Duration(0)
	if timeoutMs > 0 {
		timeout = time.Duration(timeoutMs) * time.Millisecond
	}

	if baseURL == "" {
		baseURL = DefaultURL
	}

	return &Client{
		HTTPClient: &http.Client{Timeout: timeout},
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		AuthToken:  apiKey,
	}
}

// ComputeLineDiff fetches a fresh aligned diff for a document pair.
func (c *Client) ComputeLineDiff(ctx context.Context, sourceID, targetID string) (*types.AlignedDiffPayload, error) {
	defer logger.Trace("diffapi.ComputeLineDiff")()

	var payload types.AlignedDiffPayload
	err := c.post(ctx, computePath, &computeRequest{SourceID: sourceID, TargetID: targetID}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// FindMatchingPair looks up the bracket/quote pair at a rune offset.
// Returns (nil, nil) when no pair exists there.
func (c *Client) FindMatchingPair(ctx context.Context, text string, offset int) (*types.PairMatch, error) {
	defer logger.Trace("diffapi.FindMatchingPair")()

	var resp pairResponse
	if err := c.post(ctx, pairPath, &pairRequest{Text: text, Offset: offset}, &resp); err != nil {
		return nil, err
	}
	return resp.Match, nil
}

// SearchAlignedRows returns the aligned-row indices matching the keyword.
func (c *Client) SearchAlignedRows(ctx context.Context, docID, keyword string, present []bool) ([]int, error) {
	defer logger.Trace("diffapi.SearchAlignedRows")()

	var resp searchResponse
	err := c.post(ctx, searchPath, &searchRequest{DocumentID: docID, Keyword: keyword, Present: present}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Rows, nil
}

// ApplyTextPatch forwards a minimal edit and returns the new line count.
func (c *Client) ApplyTextPatch(ctx context.Context, docID string, patch types.TextPatch) (int, error) {
	defer logger.Trace("diffapi.ApplyTextPatch")()

	var resp patchResponse
	err := c.post(ctx, patchPath, &patchRequest{
		DocumentID: docID,
		StartChar:  patch.StartChar,
		EndChar:    patch.EndChar,
		NewText:    patch.NewText,
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.NewLineCount, nil
}

// post sends a brotli-compressed JSON body and decodes the JSON response.
func (c *Client) post(ctx context.Context, path string, reqBody, respBody any) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	// Quality 1 favors latency; these bodies are small.
	var compressed bytes.Buffer
	bw := brotli.NewWriterLevel(&compressed, 1)
	if _, err := bw.Write(jsonData); err != nil {
		return fmt.Errorf("failed to compress request: %w", err)
	}
	if err := bw.Close(); err != nil {
		return fmt.Errorf("failed to close brotli writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, &compressed)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Content-Encoding", "br")
	if c.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.AuthToken)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s failed with status %d: %s", path, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
