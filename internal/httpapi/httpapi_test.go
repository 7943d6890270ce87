package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/renohub/core/internal/repository"
)

// zeroTenantRepo returns a TenantRepository with no backing pool: every
// test here returns before the handler issues a query.
func zeroTenantRepo() repository.TenantRepository {
	return repository.NewTenantRepository(repository.Pool{})
}

// These tests exercise the admin-key gate and routing without a live
// database: every protected route returns 403 before touching the tenant
// repository when the header is missing or wrong.

func TestRequireAdminKey_RejectsMissingHeader(t *testing.T) {
	s := New(zeroTenantRepo(), "secret")

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminKey_RejectsWrongKey(t *testing.T) {
	s := New(zeroTenantRepo(), "secret")

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.Header.Set("X-Admin-Key", "wrong")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdminKey_RejectsEmptyConfiguredKey(t *testing.T) {
	s := New(zeroTenantRepo(), "")

	req := httptest.NewRequest(http.MethodGet, "/tenants", nil)
	req.Header.Set("X-Admin-Key", "")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code, "an unconfigured admin key must never authorize requests")
}

func TestGetTenant_RejectsMalformedID(t *testing.T) {
	s := New(zeroTenantRepo(), "secret")

	req := httptest.NewRequest(http.MethodGet, "/tenants/not-a-uuid", nil)
	req.Header.Set("X-Admin-Key", "secret")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
