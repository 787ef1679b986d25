package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"checkdesk/internal/ticket"
)

// ErrNotFound reports a backend 404 for a single-ticket lookup.
var ErrNotFound = errors.New("ticket not found")

// Client talks to the OnlineCheck backend. All persistence and export
// generation happen server-side; this client only moves JSON and files.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List fetches the full ticket collection.
func (c *Client) List(ctx context.Context) ([]ticket.Ticket, error) {
	var out []ticket.Ticket
	if err := c.getJSON(ctx, "/api/applications", nil, &out); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return out, nil
}

// Recent fetches the most recently updated tickets.
func (c *Client) Recent(ctx context.Context, limit int) ([]ticket.Ticket, error) {
	q := url.Values{"limit": {fmt.Sprint(limit)}}
	var out []ticket.Ticket
	if err := c.getJSON(ctx, "/api/applications/recent", q, &out); err != nil {
		return nil, fmt.Errorf("list recent tickets: %w", err)
	}
	return out, nil
}

// Get fetches one ticket by id.
func (c *Client) Get(ctx context.Context, id int64) (ticket.Ticket, error) {
	var out ticket.Ticket
	err := c.getJSON(ctx, fmt.Sprintf("/api/applications/%d", id), nil, &out)
	if err != nil {
		return ticket.Ticket{}, fmt.Errorf("get ticket %d: %w", id, err)
	}
	return out, nil
}

// Delete removes one ticket by id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+fmt.Sprintf("/api/applications/%d", id), nil)
	if err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("delete ticket %d: %w", id, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("delete ticket %d: unexpected status %s", id, resp.Status)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Download is a fetched export response. The backend reports "no
// tickets" failures as 200 text bodies, so callers must classify the
// payload before treating it as a spreadsheet.
type Download struct {
	ContentType string
	Filename    string
	Body        []byte
}

// ExportSingle downloads the export of one ticket by its number.
func (c *Client) ExportSingle(ctx context.Context, number string) (Download, error) {
	q := url.Values{"number": {number}}
	d, err := c.download(ctx, "/api/applications/export?"+q.Encode(), nil)
	if err != nil {
		return Download{}, fmt.Errorf("export ticket %s: %w", number, err)
	}
	return d, nil
}

// ExportAll downloads the export of the full collection.
func (c *Client) ExportAll(ctx context.Context) (Download, error) {
	d, err := c.download(ctx, "/api/applications/export", nil)
	if err != nil {
		return Download{}, fmt.Errorf("export all tickets: %w", err)
	}
	return d, nil
}

// ExportByDate downloads the export of one calendar day.
func (c *Client) ExportByDate(ctx context.Context, day string) (Download, error) {
	d, err := c.download(ctx, "/api/applications/export/date/"+url.PathEscape(day), nil)
	if err != nil {
		return Download{}, fmt.Errorf("export tickets for %s: %w", day, err)
	}
	return d, nil
}

// ExportSearch posts a filtered id set to the search-export endpoint.
// ids is serialized to JSON in the searchResults form field, matching
// what the backend's form handler expects.
func (c *Client) ExportSearch(ctx context.Context, ids []int64, searchName string) (Download, error) {
	encoded, err := json.Marshal(ids)
	if err != nil {
		return Download{}, fmt.Errorf("export search results: encode ids: %w", err)
	}
	form := url.Values{
		"searchResults": {string(encoded)},
		"searchName":    {searchName},
	}
	d, err := c.download(ctx, "/api/applications/export/search", form)
	if err != nil {
		return Download{}, fmt.Errorf("export search results: %w", err)
	}
	return d, nil
}

func (c *Client) download(ctx context.Context, path string, form url.Values) (Download, error) {
	var req *http.Request
	var err error
	if form != nil {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	}
	if err != nil {
		return Download{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Download{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Download{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Download{}, fmt.Errorf("read download body: %w", err)
	}

	return Download{
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    dispositionFilename(resp.Header.Get("Content-Disposition")),
		Body:        body,
	}, nil
}

func dispositionFilename(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
