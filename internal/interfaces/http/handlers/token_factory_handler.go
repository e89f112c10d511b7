package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tburn-scan.backend/internal/domain/entities"
	domainerrors "tburn-scan.backend/internal/domain/errors"
	"tburn-scan.backend/internal/interfaces/http/response"
	"tburn-scan.backend/internal/usecases"
)

// TokenFactoryHandler handles the deployment surface: calldata encoding,
// gas estimation, transaction building, receipt processing and simulation.
type TokenFactoryHandler struct {
	factory *usecases.TokenFactoryUsecase
}

// NewTokenFactoryHandler creates a new token factory handler
func NewTokenFactoryHandler(factory *usecases.TokenFactoryUsecase) *TokenFactoryHandler {
	return &TokenFactoryHandler{factory: factory}
}

// EstimateGas estimates deployment gas for a token request. Estimation
// never fails on RPC trouble; only malformed requests get a 400.
// POST /api/v1/token-factory/estimate-gas
func (h *TokenFactoryHandler) EstimateGas(c *gin.Context) {
	var req entities.TokenDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	estimation, err := h.factory.EstimateGas(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"estimation": estimation})
}

// BuildTransaction builds an unsigned deployment transaction for external
// signing.
// POST /api/v1/token-factory/build-transaction
func (h *TokenFactoryHandler) BuildTransaction(c *gin.Context) {
	var req entities.TokenDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	tx, err := h.factory.BuildDeploymentTransaction(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": tx})
}

type processReceiptRequest struct {
	Request         entities.TokenDeploymentRequest `json:"request" binding:"required"`
	TransactionHash string                          `json:"transactionHash" binding:"required"`
	Receipt         entities.DeploymentReceipt      `json:"receipt" binding:"required"`
}

// ProcessReceipt turns a mined deployment receipt into a registry entry.
// The result is always 200 with a typed outcome; an on-chain revert is a
// result, not a transport error.
// POST /api/v1/token-factory/process-receipt
func (h *TokenFactoryHandler) ProcessReceipt(c *gin.Context) {
	var body processReceiptRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result := h.factory.ProcessDeploymentReceipt(c.Request.Context(), &body.Request, body.TransactionHash, &body.Receipt)
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Simulate generates a mock deployment and registers it, for demo and
// pre-launch environments without a funded wallet.
// POST /api/v1/token-factory/simulate
func (h *TokenFactoryHandler) Simulate(c *gin.Context) {
	var req entities.TokenDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.factory.GenerateMockDeploymentForSimulation(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GetStatus reports factory readiness: RPC connectivity, configured
// factories and launch state.
// GET /api/v1/token-factory/status
func (h *TokenFactoryHandler) GetStatus(c *gin.Context) {
	status := h.factory.GetFactoryStatus(c.Request.Context())
	c.JSON(http.StatusOK, status)
}

// ListDeployedTokens lists tokens deployed through this factory instance.
// GET /api/v1/token-factory/tokens
func (h *TokenFactoryHandler) ListDeployedTokens(c *gin.Context) {
	tokens := h.factory.GetDeployedTokens()
	c.JSON(http.StatusOK, gin.H{"tokens": tokens, "count": len(tokens)})
}

// GetDeployedToken returns one factory-deployed token by contract address.
// GET /api/v1/token-factory/tokens/:address
func (h *TokenFactoryHandler) GetDeployedToken(c *gin.Context) {
	token := h.factory.GetTokenByAddress(c.Param("address"))
	if token == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ValidateContract probes a deployed contract with read-only calls.
// GET /api/v1/token-factory/validate/:address
func (h *TokenFactoryHandler) ValidateContract(c *gin.Context) {
	validation := h.factory.ValidateTokenContract(c.Request.Context(), c.Param("address"))
	c.JSON(http.StatusOK, gin.H{"validation": validation})
}

// WaitForReceipt blocks until the transaction mines or the configured
// timeout elapses, then reports success/failed/timeout.
// GET /api/v1/token-factory/receipts/:txHash
func (h *TokenFactoryHandler) WaitForReceipt(c *gin.Context) {
	txHash := c.Param("txHash")
	if txHash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing transaction hash"})
		return
	}

	result := h.factory.WaitForTransactionReceipt(c.Request.Context(), txHash)
	c.JSON(http.StatusOK, result)
}
