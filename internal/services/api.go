package services

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/desertthunder/sinewave/internal/client"
)

// APIService provides raw access to arbitrary API paths through the authenticated client.
type APIService struct {
	client *client.Client
}

func NewAPIService(c *client.Client) *APIService {
	return &APIService{client: c}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, path, client.Request{Method: http.MethodGet})
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, path, client.Request{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   client.RawBody(data, "application/json"),
	})
}

// Delete performs a DELETE request and returns the raw response.
func (a *APIService) Delete(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, path, client.Request{Method: http.MethodDelete})
}

func (a *APIService) do(ctx context.Context, path string, req client.Request) (*APIResponse, error) {
	resp, err := a.client.Do(ctx, path, req)
	if err != nil {
		return nil, err
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       resp.Body,
	}

	var jsonData any
	if err := json.Unmarshal(resp.Body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}
