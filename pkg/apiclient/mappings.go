package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/marmos91/gridaccounts/pkg/models"
)

const mappingsPath = "/api/v1/mappings"

// StoreMappingRequest is the body of a mapping upsert.
type StoreMappingRequest struct {
	ConnectID     string `json:"connect_id"`
	RealFirstName string `json:"real_first_name"`
	RealLastName  string `json:"real_last_name"`
	Institution   string `json:"institution"`
}

// GetMappingByConnectID looks a mapping up by external identity.
func (c *Client) GetMappingByConnectID(ctx context.Context, connectID string) (*models.MappingRecord, error) {
	return getResource[models.MappingRecord](ctx, c, mappingsPath, url.Values{"connect_id": {connectID}})
}

// GetMappingByPrincipalID looks a mapping up by account id.
func (c *Client) GetMappingByPrincipalID(ctx context.Context, principalID string) (*models.MappingRecord, error) {
	return getResource[models.MappingRecord](ctx, c, mappingsPath, url.Values{"principal_id": {principalID}})
}

// StoreMapping creates or replaces the mapping of principalID.
func (c *Client) StoreMapping(ctx context.Context, principalID string, req StoreMappingRequest) (*models.MappingRecord, error) {
	return sendResource[models.MappingRecord](ctx, c, http.MethodPut, resourcePath(mappingsPath, principalID), req)
}

// SearchMappings runs a "<field> <value>" query.
func (c *Client) SearchMappings(ctx context.Context, query string) ([]*models.MappingRecord, error) {
	resp, err := getResource[struct {
		Mappings []*models.MappingRecord `json:"mappings"`
	}](ctx, c, mappingsPath+"/search", url.Values{"q": {query}})
	if err != nil {
		return nil, err
	}
	return resp.Mappings, nil
}
