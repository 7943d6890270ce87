// Package httpapi implements the minimal admin HTTP surface for tenant
// management, built on gin-gonic/gin.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/renohub/core/internal/domain"
	"github.com/renohub/core/internal/repository"
)

// Server wraps the gin engine and its dependencies.
type Server struct {
	engine   *gin.Engine
	tenants  repository.TenantRepository
	adminKey string
}

// New builds a Server with every route registered behind the admin-key
// middleware.
func New(tenants repository.TenantRepository, adminKey string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, tenants: tenants, adminKey: adminKey}

	admin := engine.Group("/")
	admin.Use(s.requireAdminKey)
	admin.GET("/tenants", s.listTenants)
	admin.POST("/tenants", s.createTenant)
	admin.GET("/tenants/:id", s.getTenant)
	admin.PUT("/tenants/:id", s.updateTenant)
	admin.DELETE("/tenants/:id", s.deleteTenant)

	return s
}

// Handler exposes the underlying gin engine for an http.Server.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) requireAdminKey(c *gin.Context) {
	if c.GetHeader("X-Admin-Key") != s.adminKey || s.adminKey == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "bad admin key"})
		return
	}
	c.Next()
}

type tenantResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	BotUsername string    `json:"bot_username"`
	IsActive    bool      `json:"is_active"`
}

func toTenantResponse(t domain.Tenant) tenantResponse {
	return tenantResponse{ID: t.ID, Name: t.Name, BotUsername: t.BotUsername, IsActive: t.IsActive}
}

func (s *Server) listTenants(c *gin.Context) {
	tenants, err := s.tenants.ListActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]tenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, toTenantResponse(t))
	}
	c.JSON(http.StatusOK, out)
}

type createTenantRequest struct {
	Name     string `json:"name" binding:"required"`
	BotToken string `json:"bot_token" binding:"required"`
}

func (s *Server) createTenant(c *gin.Context) {
	var req createTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := s.tenants.Create(c.Request.Context(), domain.Tenant{
		Name: req.Name, BotToken: req.BotToken, IsActive: true,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTenantResponse(t))
}

func (s *Server) getTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid tenant id"})
		return
	}
	t, err := s.tenants.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTenantResponse(t))
}

type updateTenantRequest struct {
	Name     *string `json:"name"`
	IsActive *bool   `json:"is_active"`
}

func (s *Server) updateTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid tenant id"})
		return
	}

	var req updateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		if err := s.tenants.Rename(c.Request.Context(), id, *req.Name); err != nil {
			respondError(c, err)
			return
		}
	}
	if req.IsActive != nil {
		if err := s.tenants.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
			respondError(c, err)
			return
		}
	}

	t, err := s.tenants.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTenantResponse(t))
}

func (s *Server) deleteTenant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "invalid tenant id"})
		return
	}
	if err := s.tenants.SetActive(c.Request.Context(), id, false); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func respondError(c *gin.Context, err error) {
	var de *domain.Error
	if errors.As(err, &de) {
		switch de.Code {
		case domain.CodeNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": de.Message})
			return
		case domain.CodeIntegrity:
			c.JSON(http.StatusConflict, gin.H{"error": de.Message})
			return
		case domain.CodeValidation:
			c.JSON(http.StatusBadRequest, gin.H{"error": de.Message})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
