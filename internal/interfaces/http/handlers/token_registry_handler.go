package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"tburn-scan.backend/internal/domain/entities"
	"tburn-scan.backend/internal/usecases"
	"tburn-scan.backend/pkg/tburnaddr"
)

// TokenRegistryHandler handles registry reads, lifecycle transitions and
// manual registration.
type TokenRegistryHandler struct {
	registry *usecases.TokenRegistryUsecase
}

// NewTokenRegistryHandler creates a new token registry handler
func NewTokenRegistryHandler(registry *usecases.TokenRegistryUsecase) *TokenRegistryHandler {
	return &TokenRegistryHandler{registry: registry}
}

// ListTokens lists registered tokens, optionally filtered by deployer,
// standard, status or source. Filters are mutually exclusive; the first
// one present wins.
// GET /api/v1/tokens
func (h *TokenRegistryHandler) ListTokens(c *gin.Context) {
	var tokens []*entities.RegisteredToken

	switch {
	case c.Query("deployer") != "":
		tokens = h.registry.GetTokensByDeployer(c.Query("deployer"))
	case c.Query("standard") != "":
		standard := entities.TokenStandard(c.Query("standard"))
		if !standard.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid standard"})
			return
		}
		tokens = h.registry.GetTokensByStandard(standard)
	case c.Query("status") != "":
		tokens = h.registry.GetTokensByStatus(entities.TokenStatus(c.Query("status")))
	case c.Query("source") != "":
		tokens = h.registry.GetTokensBySource(entities.DeploymentSource(c.Query("source")))
	default:
		tokens = h.registry.GetAllTokens()
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "count": len(tokens)})
}

// ListActiveTokens lists tokens in a tradable state.
// GET /api/v1/tokens/active
func (h *TokenRegistryHandler) ListActiveTokens(c *gin.Context) {
	tokens := h.registry.GetActiveTokens()
	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "count": len(tokens)})
}

// GetStats aggregates registry counts for the dashboard.
// GET /api/v1/tokens/stats
func (h *TokenRegistryHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.GetStats())
}

// ExportTokens exports the full registry in the admin projection.
// GET /api/v1/tokens/export
func (h *TokenRegistryHandler) ExportTokens(c *gin.Context) {
	tokens := h.registry.ExportAllTokens()
	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "count": len(tokens), "exportedAt": time.Now().UTC().Format(time.RFC3339)})
}

// GetToken returns one registered token by contract address.
// GET /api/v1/tokens/:address
func (h *TokenRegistryHandler) GetToken(c *gin.Context) {
	token := h.registry.GetToken(c.Param("address"))
	if token == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// UpdateToken applies a partial update to a registered token. Statistics
// and verification fields are written through to the durable store; name
// and symbol edits only touch the cache.
// PATCH /api/v1/tokens/:address
func (h *TokenRegistryHandler) UpdateToken(c *gin.Context) {
	var update entities.TokenUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !h.registry.UpdateToken(c.Request.Context(), c.Param("address"), &update) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": h.registry.GetToken(c.Param("address"))})
}

// RegisterToken registers a token that was deployed outside the factory
// flow (admin backfill).
// POST /api/v1/tokens
func (h *TokenRegistryHandler) RegisterToken(c *gin.Context) {
	var token entities.RegisteredToken
	if err := c.ShouldBindJSON(&token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if token.ContractAddress == "" || token.Name == "" || token.Symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contractAddress, name and symbol are required"})
		return
	}
	if !token.Standard.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid standard"})
		return
	}
	if !tburnaddr.IsValidAddress(token.ContractAddress) && !strings.HasPrefix(strings.ToLower(token.ContractAddress), "0x") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contract address"})
		return
	}

	if token.ID == "" {
		token.ID = fmt.Sprintf("%s-%d", strings.ToLower(string(token.Standard)), time.Now().UnixMilli())
	}
	if token.DeployedAt.IsZero() {
		token.DeployedAt = time.Now().UTC()
	}
	if token.Status == "" {
		token.Status = entities.TokenStatusConfirmed
	}
	if token.DeploymentSource == "" {
		token.DeploymentSource = entities.SourceAdmin
	}
	if token.DeploymentMode == "" {
		token.DeploymentMode = entities.ModeAdmin
	}

	if err := h.registry.RegisterToken(c.Request.Context(), &token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": h.registry.GetToken(token.ContractAddress)})
}

// PauseToken moves a token into the paused state.
// POST /api/v1/tokens/:address/pause
func (h *TokenRegistryHandler) PauseToken(c *gin.Context) {
	if !h.registry.PauseToken(c.Request.Context(), c.Param("address")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": h.registry.GetToken(c.Param("address"))})
}

// ResumeToken moves a paused token back to active.
// POST /api/v1/tokens/:address/resume
func (h *TokenRegistryHandler) ResumeToken(c *gin.Context) {
	if !h.registry.ResumeToken(c.Request.Context(), c.Param("address")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": h.registry.GetToken(c.Param("address"))})
}

type verifyTokenRequest struct {
	SecurityScore *int `json:"securityScore,omitempty"`
}

// VerifyToken marks a token as verified, with an optional security score.
// POST /api/v1/tokens/:address/verify
func (h *TokenRegistryHandler) VerifyToken(c *gin.Context) {
	var body verifyTokenRequest
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if body.SecurityScore != nil && (*body.SecurityScore < 0 || *body.SecurityScore > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "securityScore must be between 0 and 100"})
		return
	}

	if !h.registry.VerifyToken(c.Request.Context(), c.Param("address"), body.SecurityScore) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": h.registry.GetToken(c.Param("address"))})
}

// ListAdminTokens returns the registry in the admin panel projection.
// GET /api/v1/admin/tokens
func (h *TokenRegistryHandler) ListAdminTokens(c *gin.Context) {
	all := h.registry.GetAllTokens()
	out := make([]*entities.AdminToken, 0, len(all))
	for _, t := range all {
		out = append(out, h.registry.ToAdminTokenFormat(t))
	}
	c.JSON(http.StatusOK, gin.H{"tokens": out, "count": len(out)})
}

// ReloadRegistry re-reads the durable store into the cache.
// POST /api/v1/admin/tokens/reload
func (h *TokenRegistryHandler) ReloadRegistry(c *gin.Context) {
	if err := h.registry.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload registry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reloaded": true, "count": h.registry.GetStats().TotalTokens})
}
