package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// getResource performs a GET request to the given path and decodes the response
// body into a value of type T.
//
// Example:
//
//	rec, err := getResource[models.MappingRecord](ctx, c, "/api/v1/mappings", query)
func getResource[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var result T
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// sendResource performs a request with the provided body and decodes the
// response into a value of type T.
func sendResource[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var result T
	if err := c.do(ctx, method, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// resourcePath joins an escaped id onto a collection path.
func resourcePath(collection, id string, rest ...string) string {
	p := collection + "/" + url.PathEscape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}
