package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// RegisteredToken is the durable row behind the token registry. Numeric
// chain quantities are stored as strings to keep full big-int precision.
type RegisteredToken struct {
	ID              string `gorm:"type:varchar(64);primaryKey"`
	Name            string `gorm:"type:varchar(100);not null"`
	Symbol          string `gorm:"type:varchar(20);not null"`
	ContractAddress string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Standard        string `gorm:"type:varchar(20);not null"`
	TotalSupply     string `gorm:"type:varchar(100)"` // BigInt as string
	Decimals        int    `gorm:"not null;default:18"`

	DeployerAddress  string    `gorm:"type:varchar(100);not null;index"`
	DeploymentTxHash string    `gorm:"type:varchar(100)"`
	DeployedAt       time.Time `gorm:"index"`
	BlockNumber      uint64

	Mintable          bool    `gorm:"default:false"`
	Burnable          bool    `gorm:"default:true"`
	Pausable          bool    `gorm:"default:false"`
	MaxSupply         string  `gorm:"type:varchar(100)"` // BigInt as string
	BaseURI           string  `gorm:"type:text"`
	RoyaltyPercentage float64 `gorm:"default:0"`
	RoyaltyRecipient  string  `gorm:"type:varchar(100)"`

	AIOptimizationEnabled bool `gorm:"default:true"`
	QuantumResistant      bool `gorm:"default:true"`
	MEVProtection         bool `gorm:"default:true"`

	Holders          int64  `gorm:"default:0"`
	TransactionCount int64  `gorm:"default:0"`
	Volume24h        string `gorm:"column:volume24h;type:varchar(100);default:'0'"` // BigInt as string

	Status        string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	Verified      bool      `gorm:"default:false"`
	SecurityScore int       `gorm:"default:0"`
	VerifiedAt    null.Time `gorm:""`

	DeploymentSource string `gorm:"type:varchar(30);not null;default:'token-factory'"`
	DeploymentMode   string `gorm:"type:varchar(20);not null;default:'wallet'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RegisteredToken) TableName() string {
	return "registered_tokens"
}
