// Package bootstrap loads the initial schedule on first run: from a local
// file or an http(s) URL serving a data.json, falling back to the built-in
// pairings.
package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pable/go-badminton-tracker/internal/model"
)

// Source is the optional shape of a bootstrap document. Every field may be
// absent.
type Source struct {
	EventName  string              `json:"eventName"`
	CourtCount int                 `json:"courtCount"`
	Matches    []model.MatchRecord `json:"matches"`
}

// Client fetches bootstrap sources.
type Client struct {
	http *http.Client
}

// NewClient returns a client with a 30 second request timeout.
func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch reads the source at location, which is either a URL or a file path.
func (c *Client) Fetch(ctx context.Context, location string) (*Source, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		var src Source
		if err := c.get(ctx, location, &src); err != nil {
			return nil, err
		}
		return &src, nil
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open bootstrap: %w", err)
	}
	defer f.Close()
	return decode(f)
}

// get performs a GET request and JSON-decodes the response body into out.
func (c *Client) get(ctx context.Context, url string, out *Source) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	src, err := decode(resp.Body)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	*out = *src
	return nil
}

func decode(r io.Reader) (*Source, error) {
	var src Source
	if err := json.NewDecoder(r).Decode(&src); err != nil {
		return nil, fmt.Errorf("decode bootstrap: %w", err)
	}
	return &src, nil
}

// Document turns a fetched source into a document, filling whatever the
// source left out from the defaults. A nil source or one without matches
// yields the default schedule.
func Document(src *Source) model.Document {
	doc := Default()
	if src == nil {
		return doc
	}
	if src.EventName != "" {
		doc.EventName = src.EventName
	}
	if len(src.Matches) > 0 {
		doc.Matches = src.Matches
	}
	if src.CourtCount > 0 {
		doc.CourtCount = src.CourtCount
	}
	return doc
}
