package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/gridaccounts/pkg/models"
)

func TestNew(t *testing.T) {
	client := New("http://localhost:8080/")
	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
}

func TestWithToken(t *testing.T) {
	client := New("http://localhost:8080")
	tokenClient := client.WithToken("test-token")

	assert.Empty(t, client.token)
	assert.Equal(t, "test-token", tokenClient.token)
	assert.Equal(t, "http://localhost:8080", tokenClient.baseURL)
}

func TestDoWithAuthHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := New(server.URL).WithToken("test-token")
	require.NoError(t, client.DeleteAccount(context.Background(), "abc"))
}

func TestDoWithProblemResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":   "about:blank",
			"title":  "Unprocessable Entity",
			"status": 422,
			"detail": "Registration is invalid",
			"errors": []string{"Please provide an email"},
		})
	}))
	defer server.Close()

	_, err := New(server.URL).ActivateAccount(context.Background(), "abc")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.True(t, apiErr.IsValidationError())
	assert.Equal(t, []string{"Please provide an email"}, apiErr.Errors)
	assert.Contains(t, apiErr.Error(), "Please provide an email")
}

func TestDoWithPlainTextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 page not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(server.URL).GetAccount(context.Background(), "abc")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "Not Found", apiErr.Title)
	assert.Equal(t, "404 page not found", apiErr.Detail)
}

func TestGetMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/mappings", r.URL.Path)
		assert.Equal(t, "ann@idp.example.com", r.URL.Query().Get("connect_id"))
		_ = json.NewEncoder(w).Encode(models.MappingRecord{
			PrincipalID: "p1",
			ConnectID:   "ann@idp.example.com",
		})
	}))
	defer server.Close()

	rec, err := New(server.URL).GetMappingByConnectID(context.Background(), "ann@idp.example.com")
	require.NoError(t, err)
	assert.Equal(t, "p1", rec.PrincipalID)
}

func TestStoreMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/mappings/p1", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req StoreMappingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(models.MappingRecord{
			PrincipalID: "p1",
			ConnectID:   req.ConnectID,
			Institution: req.Institution,
		})
	}))
	defer server.Close()

	rec, err := New(server.URL).StoreMapping(context.Background(), "p1", StoreMappingRequest{
		ConnectID:   "ann@idp.example.com",
		Institution: "Example University",
	})
	require.NoError(t, err)
	assert.Equal(t, "Example University", rec.Institution)
}

func TestSearchMappings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/mappings/search", r.URL.Path)
		assert.Equal(t, "ConnectID ann@idp.example.com", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"mappings":[{"principal_id":"p1"},{"principal_id":"p2"}]}`))
	}))
	defer server.Close()

	recs, err := New(server.URL).SearchMappings(context.Background(), "ConnectID ann@idp.example.com")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "p2", recs[1].PrincipalID)
}

func TestActiveAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/accounts/active":
			assert.Equal(t, "ann", r.URL.Query().Get("term"))
			_, _ = w.Write([]byte(`{"supported":true,"accounts":[{"principal_id":"p1","first_name":"Ann"}]}`))
		case "/api/v1/accounts/active/count":
			assert.Equal(t, "*pending*", r.URL.Query().Get("exclude"))
			_, _ = w.Write([]byte(`{"supported":true,"count":7}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := New(server.URL)

	list, err := client.ListActiveAccounts(context.Background(), "ann", "")
	require.NoError(t, err)
	assert.True(t, list.Supported)
	require.Len(t, list.Accounts, 1)
	assert.Equal(t, "Ann", list.Accounts[0].FirstName)

	count, err := client.CountActiveAccounts(context.Background(), "*pending*")
	require.NoError(t, err)
	assert.Equal(t, int64(7), count.Count)
}

func TestResourcePathEscapes(t *testing.T) {
	assert.Equal(t, "/api/v1/accounts/a%2Fb/activate", resourcePath(accountsPath, "a/b", "activate"))
}
