package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryLifecycle(t *testing.T) {
	ResetRegistry()
	assert.False(t, IsEnabled())
	assert.Nil(t, GetRegistry())

	reg := InitRegistry()
	t.Cleanup(ResetRegistry)
	assert.True(t, IsEnabled())
	assert.Same(t, reg, GetRegistry())
}

func TestHandler(t *testing.T) {
	t.Run("DisabledReturnsNotFound", func(t *testing.T) {
		ResetRegistry()
		rec := httptest.NewRecorder()
		Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("EnabledExposesRuntimeMetrics", func(t *testing.T) {
		InitRegistry()
		t.Cleanup(ResetRegistry)
		rec := httptest.NewRecorder()
		Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "go_goroutines")
	})
}
