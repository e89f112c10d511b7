package repositories

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"tburn-scan.backend/internal/domain/entities"
	"tburn-scan.backend/internal/infrastructure/models"
)

// RegisteredTokenRepository implements durable token registry storage
type RegisteredTokenRepository struct {
	db *gorm.DB
}

// NewRegisteredTokenRepository creates a new registered token repository
func NewRegisteredTokenRepository(db *gorm.DB) *RegisteredTokenRepository {
	return &RegisteredTokenRepository{db: db}
}

// Insert writes a token row. If a row with the same contract address
// already exists the insert is a no-op and the existing row wins.
func (r *RegisteredTokenRepository) Insert(ctx context.Context, token *entities.RegisteredToken) error {
	m := r.toModel(token)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contract_address"}},
			DoNothing: true,
		}).
		Create(m).Error
}

// UpdateFields applies the persisted subset of a partial update to the row
// identified by contract address. Cache-only fields (Name, Symbol) are not
// written through.
func (r *RegisteredTokenRepository) UpdateFields(ctx context.Context, contractAddress string, update *entities.TokenUpdate) error {
	fields := map[string]interface{}{}
	if update.Status != nil {
		fields["status"] = string(*update.Status)
	}
	if update.Verified != nil {
		fields["verified"] = *update.Verified
	}
	if update.SecurityScore != nil {
		fields["security_score"] = *update.SecurityScore
	}
	if update.Holders != nil {
		fields["holders"] = *update.Holders
	}
	if update.TransactionCount != nil {
		fields["transaction_count"] = *update.TransactionCount
	}
	if update.Volume24h != nil {
		fields["volume24h"] = *update.Volume24h
	}
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.RegisteredToken{}).
		Where("contract_address = ?", strings.ToLower(contractAddress)).
		Updates(fields).Error
}

// GetAll returns every stored token, newest deployment first.
func (r *RegisteredTokenRepository) GetAll(ctx context.Context) ([]*entities.RegisteredToken, error) {
	var ms []models.RegisteredToken
	if err := r.db.WithContext(ctx).Order("deployed_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}

	var tokens []*entities.RegisteredToken
	for _, m := range ms {
		model := m
		tokens = append(tokens, r.toEntity(&model))
	}
	return tokens, nil
}

func (r *RegisteredTokenRepository) toModel(e *entities.RegisteredToken) *models.RegisteredToken {
	return &models.RegisteredToken{
		ID:                    e.ID,
		Name:                  e.Name,
		Symbol:                e.Symbol,
		ContractAddress:       strings.ToLower(e.ContractAddress),
		Standard:              string(e.Standard),
		TotalSupply:           e.TotalSupply,
		Decimals:              e.Decimals,
		DeployerAddress:       e.DeployerAddress,
		DeploymentTxHash:      e.DeploymentTxHash,
		DeployedAt:            e.DeployedAt,
		BlockNumber:           e.BlockNumber,
		Mintable:              e.Mintable,
		Burnable:              e.Burnable,
		Pausable:              e.Pausable,
		MaxSupply:             e.MaxSupply,
		BaseURI:               e.BaseURI,
		RoyaltyPercentage:     e.RoyaltyPercentage,
		RoyaltyRecipient:      e.RoyaltyRecipient,
		AIOptimizationEnabled: e.AIOptimizationEnabled,
		QuantumResistant:      e.QuantumResistant,
		MEVProtection:         e.MEVProtection,
		Holders:               e.Holders,
		TransactionCount:      e.TransactionCount,
		Volume24h:             e.Volume24h,
		Status:                string(e.Status),
		Verified:              e.Verified,
		SecurityScore:         e.SecurityScore,
		VerifiedAt:            e.VerifiedAt,
		DeploymentSource:      string(e.DeploymentSource),
		DeploymentMode:        string(e.DeploymentMode),
	}
}

func (r *RegisteredTokenRepository) toEntity(m *models.RegisteredToken) *entities.RegisteredToken {
	return &entities.RegisteredToken{
		ID:                    m.ID,
		Name:                  m.Name,
		Symbol:                m.Symbol,
		ContractAddress:       m.ContractAddress,
		Standard:              entities.TokenStandard(m.Standard),
		TotalSupply:           m.TotalSupply,
		Decimals:              m.Decimals,
		DeployerAddress:       m.DeployerAddress,
		DeploymentTxHash:      m.DeploymentTxHash,
		DeployedAt:            m.DeployedAt,
		BlockNumber:           m.BlockNumber,
		Mintable:              m.Mintable,
		Burnable:              m.Burnable,
		Pausable:              m.Pausable,
		MaxSupply:             m.MaxSupply,
		BaseURI:               m.BaseURI,
		RoyaltyPercentage:     m.RoyaltyPercentage,
		RoyaltyRecipient:      m.RoyaltyRecipient,
		AIOptimizationEnabled: m.AIOptimizationEnabled,
		QuantumResistant:      m.QuantumResistant,
		MEVProtection:         m.MEVProtection,
		Holders:               m.Holders,
		TransactionCount:      m.TransactionCount,
		Volume24h:             m.Volume24h,
		Status:                entities.TokenStatus(m.Status),
		Verified:              m.Verified,
		SecurityScore:         m.SecurityScore,
		VerifiedAt:            m.VerifiedAt,
		DeploymentSource:      entities.DeploymentSource(m.DeploymentSource),
		DeploymentMode:        entities.DeploymentMode(m.DeploymentMode),
	}
}
