package itemsclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"github.com/pkg/errors"
)

type (
	// A Client defines all interactions that can be performed on an itemstore server.
	Client interface {
		// Hello returns the greeting of the server.
		Hello() (string, error)
		// Version returns the version of the server.
		Version() (string, error)
		// Health checks the database of the server.
		// A failing database is reported in the returned Health, not as an error.
		Health() (*Health, error)

		// Init creates the items table if it does not exist.
		Init() error
		// Reset drops and recreates the items table.
		Reset() error
		// Seed inserts the given items, or the demo items when none is given.
		// It returns the number of affected items.
		Seed(items []ItemParams, replace bool) (int, error)
		// Stats aggregates the value column.
		Stats() (*Stats, error)
		// Schema returns the column metadata of the items table.
		Schema() (*Schema, error)

		// ListItems returns all the items ordered by id.
		ListItems() ([]Item, error)
		// CreateItem creates a new item.
		CreateItem(params ItemParams) (*Item, error)
		// GetItem returns the item for the given id.
		GetItem(id int64) (*Item, error)
		// ReplaceItem replaces all the fields of the item for the given id.
		ReplaceItem(id int64, params ItemParams) (*Item, error)
		// PatchItem updates some fields of the item for the given id.
		PatchItem(id int64, patch ItemPatch) (*Item, error)
		// DeleteItem deletes the item for the given id.
		DeleteItem(id int64) error
		// SearchItems returns the items matching the given query.
		SearchItems(query SearchQuery) ([]Item, error)
	}

	p      map[string]any
	client struct {
		http     *http.Client
		endpoint string
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{endpoint: endpoint, http: c}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) Hello() (string, error) {
	res, err := c.request(http.MethodGet, "/hello", nil, nil)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return "", parseError(res.Body, res.StatusCode)
	}

	payload, err := io.ReadAll(res.Body)
	return string(payload), errors.Wrap(err, "could not read response")
}

func (c *client) Version() (string, error) {
	var v struct {
		Version string `json:"version"`
	}
	err := c.do(http.MethodGet, "/version", nil, nil, &v)
	return v.Version, err
}

func (c *client) Health() (*Health, error) {
	res, err := c.request(http.MethodGet, "/health", nil, nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 && res.StatusCode != http.StatusServiceUnavailable {
		return nil, parseError(res.Body, res.StatusCode)
	}

	var health Health
	dec := json.NewDecoder(res.Body)
	return &health, errors.Wrap(dec.Decode(&health), "could not parse response")
}

func (c *client) Init() error {
	return c.do(http.MethodGet, "/init", nil, nil, nil)
}

func (c *client) Reset() error {
	return c.do(http.MethodPost, "/reset", nil, nil, nil)
}

func (c *client) Seed(items []ItemParams, replace bool) (int, error) {
	var body any
	if len(items) > 0 {
		body = p{"items": items, "replace": replace}
	}

	query := url.Values{}
	if replace {
		query.Set("replace", "true")
	}

	var r struct {
		Affected int `json:"affected"`
	}
	err := c.do(http.MethodPost, "/seed", query, body, &r)
	return r.Affected, err
}

func (c *client) Stats() (*Stats, error) {
	var stats Stats
	return &stats, c.do(http.MethodGet, "/stats", nil, nil, &stats)
}

func (c *client) Schema() (*Schema, error) {
	var schema Schema
	return &schema, c.do(http.MethodGet, "/schema", nil, nil, &schema)
}

func (c *client) ListItems() ([]Item, error) {
	var items []Item
	return items, c.do(http.MethodGet, "/items", nil, nil, &items)
}

func (c *client) CreateItem(params ItemParams) (*Item, error) {
	var item Item
	return &item, c.do(http.MethodPost, "/items", nil, params, &item)
}

func (c *client) GetItem(id int64) (*Item, error) {
	var item Item
	return &item, c.do(http.MethodGet, itemPath(id), nil, nil, &item)
}

func (c *client) ReplaceItem(id int64, params ItemParams) (*Item, error) {
	var item Item
	return &item, c.do(http.MethodPut, itemPath(id), nil, params, &item)
}

func (c *client) PatchItem(id int64, patch ItemPatch) (*Item, error) {
	var item Item
	return &item, c.do(http.MethodPatch, itemPath(id), nil, patch.body(), &item)
}

func (c *client) DeleteItem(id int64) error {
	return c.do(http.MethodDelete, itemPath(id), nil, nil, nil)
}

func (c *client) SearchItems(q SearchQuery) ([]Item, error) {
	query := url.Values{}
	if q.Name != "" {
		query.Set("name", q.Name)
	}
	if q.MinValue != nil {
		query.Set("min_value", q.MinValue.String())
	}
	if q.MaxValue != nil {
		query.Set("max_value", q.MaxValue.String())
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var items []Item
	return items, c.do(http.MethodGet, "/search", query, nil, &items)
}

// do performs the request and decodes the JSON response into v when v is not nil.
func (c *client) do(method, route string, query url.Values, body, v any) error {
	res, err := c.request(method, route, query, body)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseError(res.Body, res.StatusCode)
	}

	//
	// Process response
	if v == nil {
		return nil
	}
	dec := json.NewDecoder(res.Body)
	return errors.Wrap(dec.Decode(v), "could not parse response")
}

func (c *client) request(method, route string, query url.Values, body any) (*http.Response, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, route)
	u.RawQuery = query.Encode()

	//
	// Build request
	var r io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "could not serialize body")
		}
		r = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, u.String(), r)
	if err != nil {
		return nil, errors.Wrap(err, "could not build request")
	}
	req.Close = true
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")

	//
	// Perform request
	res, err := c.http.Do(req)
	return res, errors.Wrap(err, "could not perform request")
}

func itemPath(id int64) string {
	return "/items/" + strconv.FormatInt(id, 10)
}
