package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// TokenStandard identifies the behavioral interface family of a token.
type TokenStandard string

const (
	StandardTBC20   TokenStandard = "TBC-20"
	StandardTBC721  TokenStandard = "TBC-721"
	StandardTBC1155 TokenStandard = "TBC-1155"
)

// Valid reports whether s is one of the three supported standards.
func (s TokenStandard) Valid() bool {
	switch s {
	case StandardTBC20, StandardTBC721, StandardTBC1155:
		return true
	}
	return false
}

// TokenStatus is the registry lifecycle state of a registered token.
type TokenStatus string

const (
	TokenStatusPending   TokenStatus = "pending"
	TokenStatusConfirmed TokenStatus = "confirmed"
	TokenStatusActive    TokenStatus = "active"
	TokenStatusPaused    TokenStatus = "paused"
	TokenStatusVerified  TokenStatus = "verified"
	TokenStatusFailed    TokenStatus = "failed"
)

// DeploymentSource records which subsystem created a registry entry.
type DeploymentSource string

const (
	SourceTokenFactory   DeploymentSource = "token-factory"
	SourceTokenGenerator DeploymentSource = "token-generator"
	SourceTokenSystem    DeploymentSource = "token-system"
	SourceAdmin          DeploymentSource = "admin"
)

// DeploymentMode records how the deployment was performed.
type DeploymentMode string

const (
	ModeWallet     DeploymentMode = "wallet"
	ModeSimulation DeploymentMode = "simulation"
	ModeAdmin      DeploymentMode = "admin"
)

// TokenDeploymentRequest is the caller-supplied input for one deployment
// attempt. Optional fields use pointers so an omitted value can be told
// apart from an explicit false/zero; the factory applies the canonical
// default policy for unset fields.
type TokenDeploymentRequest struct {
	Standard        TokenStandard `json:"standard" binding:"required"`
	Name            string        `json:"name" binding:"required"`
	Symbol          string        `json:"symbol" binding:"required"`
	DeployerAddress string        `json:"deployerAddress" binding:"required"`

	// TBC-20
	TotalSupply string `json:"totalSupply,omitempty"`
	Decimals    *int   `json:"decimals,omitempty"`
	Mintable    *bool  `json:"mintable,omitempty"`
	Burnable    *bool  `json:"burnable,omitempty"`
	Pausable    *bool  `json:"pausable,omitempty"`
	MaxSupply   string `json:"maxSupply,omitempty"`

	// TBC-721
	BaseURI           string   `json:"baseUri,omitempty"`
	RoyaltyPercentage *float64 `json:"royaltyPercentage,omitempty"`
	RoyaltyRecipient  string   `json:"royaltyRecipient,omitempty"`

	// Cross-cutting flags forwarded verbatim to calldata and metadata
	AIOptimizationEnabled *bool `json:"aiOptimizationEnabled,omitempty"`
	QuantumResistant      *bool `json:"quantumResistant,omitempty"`
	MEVProtection         *bool `json:"mevProtection,omitempty"`
}

// GasEstimation carries gas figures as decimal strings to avoid precision
// loss on the wire.
type GasEstimation struct {
	GasLimit             string `json:"gasLimit"`
	MaxFeePerGas         string `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string `json:"maxPriorityFeePerGas"`
	EstimatedCostWei     string `json:"estimatedCostWei"`
	EstimatedCostTB      string `json:"estimatedCostTB"`
}

// DeploymentTransaction is the unsigned transaction envelope handed to the
// caller for external signing and submission.
type DeploymentTransaction struct {
	To                   string  `json:"to"`
	Data                 string  `json:"data"`
	GasLimit             string  `json:"gasLimit"`
	MaxFeePerGas         string  `json:"maxFeePerGas"`
	MaxPriorityFeePerGas string  `json:"maxPriorityFeePerGas"`
	ChainID              uint64  `json:"chainId"`
	Nonce                *uint64 `json:"nonce,omitempty"`
}

// DeploymentResult is the typed outcome of receipt processing.
type DeploymentResult struct {
	Success         bool   `json:"success"`
	ContractAddress string `json:"contractAddress,omitempty"`
	TransactionHash string `json:"transactionHash,omitempty"`
	BlockNumber     uint64 `json:"blockNumber,omitempty"`
	GasUsed         string `json:"gasUsed,omitempty"`
	Error           string `json:"error,omitempty"`
}

// ReceiptLog is one event log from a mined transaction, as reported by the
// caller that polled the chain.
type ReceiptLog struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// DeploymentReceipt is the caller-supplied view of a mined transaction.
type DeploymentReceipt struct {
	Status      uint64       `json:"status"`
	BlockNumber uint64       `json:"blockNumber"`
	GasUsed     string       `json:"gasUsed"`
	Logs        []ReceiptLog `json:"logs"`
}

// RegisteredToken is the durable registry record for a deployed token.
// Contract addresses are stored lowercased; they are the natural key.
type RegisteredToken struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Symbol          string        `json:"symbol"`
	ContractAddress string        `json:"contractAddress"`
	Standard        TokenStandard `json:"standard"`
	TotalSupply     string        `json:"totalSupply"`
	Decimals        int           `json:"decimals"`

	DeployerAddress  string    `json:"deployerAddress"`
	DeploymentTxHash string    `json:"deploymentTxHash"`
	DeployedAt       time.Time `json:"deployedAt"`
	BlockNumber      uint64    `json:"blockNumber"`

	Mintable          bool    `json:"mintable"`
	Burnable          bool    `json:"burnable"`
	Pausable          bool    `json:"pausable"`
	MaxSupply         string  `json:"maxSupply,omitempty"`
	BaseURI           string  `json:"baseUri,omitempty"`
	RoyaltyPercentage float64 `json:"royaltyPercentage,omitempty"`
	RoyaltyRecipient  string  `json:"royaltyRecipient,omitempty"`

	AIOptimizationEnabled bool `json:"aiOptimizationEnabled"`
	QuantumResistant      bool `json:"quantumResistant"`
	MEVProtection         bool `json:"mevProtection"`

	// Runtime statistics, updated by external indexers
	Holders          int64  `json:"holders"`
	TransactionCount int64  `json:"transactionCount"`
	Volume24h        string `json:"volume24h"`

	Status        TokenStatus `json:"status"`
	Verified      bool        `json:"verified"`
	SecurityScore int         `json:"securityScore,omitempty"`
	VerifiedAt    null.Time   `json:"verifiedAt,omitempty"`

	DeploymentSource DeploymentSource `json:"deploymentSource"`
	DeploymentMode   DeploymentMode   `json:"deploymentMode"`
}

// TokenUpdate is a partial update applied to a registered token.
//
// Persisted fields (the reviewed durable contract): Status, Verified,
// SecurityScore, Holders, TransactionCount, Volume24h. Name and Symbol are
// cache-only display edits and are intentionally not written through.
type TokenUpdate struct {
	Status           *TokenStatus `json:"status,omitempty"`
	Verified         *bool        `json:"verified,omitempty"`
	SecurityScore    *int         `json:"securityScore,omitempty"`
	Holders          *int64       `json:"holders,omitempty"`
	TransactionCount *int64       `json:"transactionCount,omitempty"`
	Volume24h        *string      `json:"volume24h,omitempty"`

	// cache-only
	Name   *string `json:"name,omitempty"`
	Symbol *string `json:"symbol,omitempty"`
}

// TokenStats aggregates the registry population for the admin dashboard.
type TokenStats struct {
	TotalTokens       int            `json:"totalTokens"`
	ByStatus          map[string]int `json:"byStatus"`
	ByStandard        map[string]int `json:"byStandard"`
	BySource          map[string]int `json:"bySource"`
	TotalHolders      int64          `json:"totalHolders"`
	TotalTransactions int64          `json:"totalTransactions"`
}

// AdminToken is the admin panel projection of a registered token.
type AdminToken struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	ContractAddress string `json:"contractAddress"`
	Standard        string `json:"standard"`
	Supply          string `json:"supply"`
	Decimals        int    `json:"decimals"`
	Deployer        string `json:"deployer"`
	DeployedAt      string `json:"deployedAt"`
	Holders         int64  `json:"holders"`
	Transactions    int64  `json:"transactions"`
	Volume24h       string `json:"volume24h"`
	Status          string `json:"status"`
	Verified        bool   `json:"verified"`
	SecurityScore   int    `json:"securityScore"`
	Source          string `json:"source"`
	Mode            string `json:"mode"`
}

// FactoryInfo describes one configured factory contract.
type FactoryInfo struct {
	Address      string `json:"address"`
	IsConfigured bool   `json:"isConfigured"`
}

// FactoryStatus is the health/readiness report for the deployment surface.
type FactoryStatus struct {
	IsReady             bool                   `json:"isReady"`
	RPCConnected        bool                   `json:"rpcConnected"`
	BlockNumber         uint64                 `json:"blockNumber,omitempty"`
	Factories           map[string]FactoryInfo `json:"factories"`
	LaunchReady         bool                   `json:"launchReady"`
	LaunchDate          string                 `json:"launchDate"`
	DeployedTokensCount int                    `json:"deployedTokensCount"`
	Warnings            []string               `json:"warnings"`
}

// ContractValidation is the result of probing a deployed token contract
// with read-only calls.
type ContractValidation struct {
	Valid       bool   `json:"valid"`
	Name        string `json:"name,omitempty"`
	Symbol      string `json:"symbol,omitempty"`
	TotalSupply string `json:"totalSupply,omitempty"`
	Owner       string `json:"owner,omitempty"`
	Error       string `json:"error,omitempty"`
}
