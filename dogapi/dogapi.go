// Package dogapi wraps the dog.ceo REST API: breed listings and random
// images. One HTTP request per call, no internal retries; retrying is the
// caller's responsibility.
package dogapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pawpedia/retry"
)

const defaultBaseURL = "https://dog.ceo/api"

type Client struct {
	base   string
	client *http.Client
}

// New creates a Client. baseURL and client may be empty/nil for defaults.
func New(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{base: baseURL, client: client}
}

type imageResp struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type breedsResp struct {
	Message map[string][]string `json:"message"`
	Status  string              `json:"status"`
}

// RandomImage returns the URL of a random dog image.
func (c *Client) RandomImage(ctx context.Context) (string, error) {
	return c.image(ctx, c.base+"/breeds/image/random")
}

// BreedRandomImage returns the URL of a random image for the given breed.
func (c *Client) BreedRandomImage(ctx context.Context, breed string) (string, error) {
	return c.image(ctx, fmt.Sprintf("%s/breed/%s/images/random", c.base, breed))
}

// SubBreedRandomImage returns the URL of a random image for a sub-breed.
func (c *Client) SubBreedRandomImage(ctx context.Context, breed, subBreed string) (string, error) {
	return c.image(ctx, fmt.Sprintf("%s/breed/%s/%s/images/random", c.base, breed, subBreed))
}

// AllBreeds returns every breed mapped to its sub-breeds (possibly empty).
func (c *Client) AllBreeds(ctx context.Context) (map[string][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/breeds/list/all", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &retry.TransportError{Op: "dogapi list breeds", Err: err}
	}
	defer resp.Body.Close()

	var data breedsResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, &retry.TransportError{Op: "dogapi list breeds", Err: err}
	}
	if data.Status != "success" {
		return nil, &retry.TransportError{Op: "dogapi list breeds", Err: fmt.Errorf("status %q", data.Status)}
	}
	return data.Message, nil
}

func (c *Client) image(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", &retry.TransportError{Op: "dogapi fetch image", Err: err}
	}
	defer resp.Body.Close()

	var data imageResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", &retry.TransportError{Op: "dogapi fetch image", Err: err}
	}
	if data.Status != "success" || data.Message == "" {
		return "", &retry.TransportError{Op: "dogapi fetch image", Err: fmt.Errorf("status %q", data.Status)}
	}
	return data.Message, nil
}
