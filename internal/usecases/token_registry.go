package usecases

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"tburn-scan.backend/internal/domain/entities"
	"tburn-scan.backend/internal/domain/repositories"
	"tburn-scan.backend/pkg/logger"
	"tburn-scan.backend/pkg/metrics"
	"tburn-scan.backend/pkg/utils"
)

// DefaultSecurityScore is assigned by VerifyToken when no score is given.
const DefaultSecurityScore = 95

// TokenRegistryUsecase is the system of record for registered tokens:
// a durable store plus an in-memory read cache keyed by lowercased
// contract address. All reads serve from the cache; the cache is kept in
// lockstep with every mutation within the process.
//
// Known, deliberate asymmetries (kept and tested rather than fixed):
// the durable insert is conflict-ignore while the cache upsert is
// unconditional, so after a duplicate registration the cache holds the
// latest attempt and the store holds the first. Durable write failures
// are logged and the cache is still updated, trading durability for read
// availability.
type TokenRegistryUsecase struct {
	repo repositories.RegisteredTokenRepository

	mu          sync.RWMutex
	cache       map[string]*entities.RegisteredToken
	initialized bool
}

// NewTokenRegistryUsecase creates a new token registry usecase
func NewTokenRegistryUsecase(repo repositories.RegisteredTokenRepository) *TokenRegistryUsecase {
	return &TokenRegistryUsecase{
		repo:  repo,
		cache: make(map[string]*entities.RegisteredToken),
	}
}

// Initialize loads all durable rows into the cache. Idempotent: calls
// after the first successful load are no-ops.
func (u *TokenRegistryUsecase) Initialize(ctx context.Context) error {
	u.mu.RLock()
	done := u.initialized
	u.mu.RUnlock()
	if done {
		return nil
	}
	return u.load(ctx)
}

// Reload discards the cache and re-reads durable storage.
func (u *TokenRegistryUsecase) Reload(ctx context.Context) error {
	return u.load(ctx)
}

func (u *TokenRegistryUsecase) load(ctx context.Context) error {
	tokens, err := u.repo.GetAll(ctx)
	if err != nil {
		logger.Error(ctx, "token registry load failed", zap.Error(err))
		return err
	}

	fresh := make(map[string]*entities.RegisteredToken, len(tokens))
	for _, t := range tokens {
		fresh[strings.ToLower(t.ContractAddress)] = t
	}

	u.mu.Lock()
	u.cache = fresh
	u.initialized = true
	u.mu.Unlock()

	logger.Info(ctx, "token registry initialized", zap.Int("tokens", len(fresh)))
	return nil
}

// RegisterToken durably inserts a token (first writer wins on address
// conflict) and unconditionally upserts the cache. A durable write
// failure is logged, not propagated: the read path stays available.
func (u *TokenRegistryUsecase) RegisterToken(ctx context.Context, token *entities.RegisteredToken) error {
	key := strings.ToLower(token.ContractAddress)
	token.ContractAddress = key

	if err := u.repo.Insert(ctx, token); err != nil {
		logger.Error(ctx, "durable token insert failed, cache updated anyway",
			zap.String("contractAddress", key),
			zap.Error(err))
	}

	clone := *token
	u.mu.Lock()
	u.cache[key] = &clone
	u.mu.Unlock()

	metrics.TokensRegistered.WithLabelValues(string(token.Standard), string(token.DeploymentMode)).Inc()
	logger.Info(ctx, "token registered",
		zap.String("contractAddress", key),
		zap.String("standard", string(token.Standard)),
		zap.String("mode", string(token.DeploymentMode)))
	return nil
}

// UpdateToken applies a partial update to a cached token. Returns false
// if the address is unknown. Only the reviewed durable whitelist
// (status, verified, securityScore, holders, transactionCount, volume24h)
// is persisted; name/symbol edits are cache-only.
func (u *TokenRegistryUsecase) UpdateToken(ctx context.Context, address string, update *entities.TokenUpdate) bool {
	key := strings.ToLower(address)

	u.mu.RLock()
	_, ok := u.cache[key]
	u.mu.RUnlock()
	if !ok {
		return false
	}

	if err := u.repo.UpdateFields(ctx, key, update); err != nil {
		logger.Error(ctx, "durable token update failed, cache updated anyway",
			zap.String("contractAddress", key),
			zap.Error(err))
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	current, ok := u.cache[key]
	if !ok {
		return false
	}
	merged := *current
	applyUpdate(&merged, update)
	u.cache[key] = &merged
	return true
}

func applyUpdate(token *entities.RegisteredToken, update *entities.TokenUpdate) {
	if update.Status != nil {
		token.Status = *update.Status
	}
	if update.Verified != nil {
		token.Verified = *update.Verified
	}
	if update.SecurityScore != nil {
		token.SecurityScore = *update.SecurityScore
	}
	if update.Holders != nil {
		token.Holders = *update.Holders
	}
	if update.TransactionCount != nil {
		token.TransactionCount = *update.TransactionCount
	}
	if update.Volume24h != nil {
		token.Volume24h = *update.Volume24h
	}
	if update.Name != nil {
		token.Name = *update.Name
	}
	if update.Symbol != nil {
		token.Symbol = *update.Symbol
	}
	if update.Verified != nil && *update.Verified && !token.VerifiedAt.Valid {
		token.VerifiedAt = null.TimeFrom(time.Now().UTC())
	}
}

// GetToken returns the cached token for an address, or nil.
func (u *TokenRegistryUsecase) GetToken(address string) *entities.RegisteredToken {
	u.mu.RLock()
	defer u.mu.RUnlock()
	token, ok := u.cache[strings.ToLower(address)]
	if !ok {
		return nil
	}
	clone := *token
	return &clone
}

// GetAllTokens returns every cached token, newest deployment first.
func (u *TokenRegistryUsecase) GetAllTokens() []*entities.RegisteredToken {
	return u.filter(func(*entities.RegisteredToken) bool { return true })
}

// GetTokensByDeployer returns tokens deployed by an address.
func (u *TokenRegistryUsecase) GetTokensByDeployer(deployer string) []*entities.RegisteredToken {
	want := strings.ToLower(deployer)
	return u.filter(func(t *entities.RegisteredToken) bool {
		return strings.ToLower(t.DeployerAddress) == want
	})
}

// GetTokensByStandard returns tokens of one standard.
func (u *TokenRegistryUsecase) GetTokensByStandard(standard entities.TokenStandard) []*entities.RegisteredToken {
	return u.filter(func(t *entities.RegisteredToken) bool {
		return t.Standard == standard
	})
}

// GetTokensByStatus returns tokens in one lifecycle state.
func (u *TokenRegistryUsecase) GetTokensByStatus(status entities.TokenStatus) []*entities.RegisteredToken {
	return u.filter(func(t *entities.RegisteredToken) bool {
		return t.Status == status
	})
}

// GetTokensBySource returns tokens created by one subsystem.
func (u *TokenRegistryUsecase) GetTokensBySource(source entities.DeploymentSource) []*entities.RegisteredToken {
	return u.filter(func(t *entities.RegisteredToken) bool {
		return t.DeploymentSource == source
	})
}

// GetActiveTokens returns tokens in a live state (active, confirmed or
// verified; paused and failed tokens are excluded).
func (u *TokenRegistryUsecase) GetActiveTokens() []*entities.RegisteredToken {
	return u.filter(func(t *entities.RegisteredToken) bool {
		switch t.Status {
		case entities.TokenStatusActive, entities.TokenStatusConfirmed, entities.TokenStatusVerified:
			return true
		}
		return false
	})
}

func (u *TokenRegistryUsecase) filter(keep func(*entities.RegisteredToken) bool) []*entities.RegisteredToken {
	u.mu.RLock()
	tokens := make([]*entities.RegisteredToken, 0, len(u.cache))
	for _, t := range u.cache {
		if keep(t) {
			clone := *t
			tokens = append(tokens, &clone)
		}
	}
	u.mu.RUnlock()

	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].DeployedAt.After(tokens[j].DeployedAt)
	})
	return tokens
}

// GetStats recomputes aggregate counts over the full cache. O(n) per
// call, fine at the expected population.
func (u *TokenRegistryUsecase) GetStats() *entities.TokenStats {
	u.mu.RLock()
	defer u.mu.RUnlock()

	stats := &entities.TokenStats{
		TotalTokens: len(u.cache),
		ByStatus:    make(map[string]int),
		ByStandard:  make(map[string]int),
		BySource:    make(map[string]int),
	}
	for _, t := range u.cache {
		stats.ByStatus[string(t.Status)]++
		stats.ByStandard[string(t.Standard)]++
		stats.BySource[string(t.DeploymentSource)]++
		stats.TotalHolders += t.Holders
		stats.TotalTransactions += t.TransactionCount
	}
	return stats
}

// PauseToken sets a token's status to paused.
func (u *TokenRegistryUsecase) PauseToken(ctx context.Context, address string) bool {
	status := entities.TokenStatusPaused
	return u.UpdateToken(ctx, address, &entities.TokenUpdate{Status: &status})
}

// ResumeToken sets a paused token back to active.
func (u *TokenRegistryUsecase) ResumeToken(ctx context.Context, address string) bool {
	status := entities.TokenStatusActive
	return u.UpdateToken(ctx, address, &entities.TokenUpdate{Status: &status})
}

// VerifyToken marks a token verified with a security score (default 95).
func (u *TokenRegistryUsecase) VerifyToken(ctx context.Context, address string, securityScore *int) bool {
	status := entities.TokenStatusVerified
	verified := true
	score := DefaultSecurityScore
	if securityScore != nil {
		score = *securityScore
	}
	return u.UpdateToken(ctx, address, &entities.TokenUpdate{
		Status:        &status,
		Verified:      &verified,
		SecurityScore: &score,
	})
}

// ToAdminTokenFormat projects a token for the admin dashboard; supply is
// human-formatted with B/M/K suffixes.
func (u *TokenRegistryUsecase) ToAdminTokenFormat(t *entities.RegisteredToken) *entities.AdminToken {
	return &entities.AdminToken{
		ID:              t.ID,
		Name:            t.Name,
		Symbol:          t.Symbol,
		ContractAddress: t.ContractAddress,
		Standard:        string(t.Standard),
		Supply:          utils.FormatSupply(t.TotalSupply),
		Decimals:        t.Decimals,
		Deployer:        t.DeployerAddress,
		DeployedAt:      t.DeployedAt.UTC().Format(time.RFC3339),
		Holders:         t.Holders,
		Transactions:    t.TransactionCount,
		Volume24h:       t.Volume24h,
		Status:          string(t.Status),
		Verified:        t.Verified,
		SecurityScore:   t.SecurityScore,
		Source:          string(t.DeploymentSource),
		Mode:            string(t.DeploymentMode),
	}
}

// ExportAllTokens returns the full registry in admin format, newest first.
func (u *TokenRegistryUsecase) ExportAllTokens() []*entities.AdminToken {
	tokens := u.GetAllTokens()
	out := make([]*entities.AdminToken, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, u.ToAdminTokenFormat(t))
	}
	return out
}
