// Package seed provisions the demo accounts and catalog. It is the only path
// that creates admin accounts.
package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-api/internal/auth"
	"github.com/spec-kit/catalog-api/internal/config"
	"github.com/spec-kit/catalog-api/internal/domain"
	"github.com/spec-kit/catalog-api/internal/repository"
)

// Account describes a seeded user.
type Account struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// Seeder writes the fixture data.
type Seeder struct {
	users    repository.UserRepository
	products repository.ProductRepository
	hasher   *auth.PasswordHasher
	logger   *zap.Logger
}

// New builds a Seeder.
func New(users repository.UserRepository, products repository.ProductRepository, hasher *auth.PasswordHasher, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, products: products, hasher: hasher, logger: logger}
}

// DefaultAccounts returns the admin and regular demo accounts.
func DefaultAccounts(cfg config.SeedConfig) []Account {
	return []Account{
		{Username: "admin", Email: "admin@example.com", Password: cfg.AdminPassword, Role: domain.RoleAdmin},
		{Username: "user", Email: "user@example.com", Password: cfg.UserPassword, Role: domain.RoleUser},
	}
}

// Run creates missing accounts, then fills the catalog if it is empty.
// Existing accounts are left untouched, so running it twice is harmless.
func (s *Seeder) Run(ctx context.Context, accounts []Account) error {
	owners := make(map[domain.Role]int64, len(accounts))
	for _, account := range accounts {
		user, err := s.ensureAccount(ctx, account)
		if err != nil {
			return err
		}
		if _, ok := owners[user.Role]; !ok {
			owners[user.Role] = user.ID
		}
	}

	existing, err := s.products.List(ctx, domain.Page{Limit: 1})
	if err != nil {
		return fmt.Errorf("seed: list products: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info("catalog already populated; skipping demo products")
		return nil
	}

	for _, product := range demoProducts(owners) {
		if err := s.products.Create(ctx, product); err != nil {
			return fmt.Errorf("seed: create product %q: %w", product.Name, err)
		}
		s.logger.Info("seeded product", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	}
	return nil
}

func (s *Seeder) ensureAccount(ctx context.Context, account Account) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, account.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("seed: lookup %s: %w", account.Email, err)
	}

	hash, err := s.hasher.Hash(account.Password)
	if err != nil {
		return nil, fmt.Errorf("seed: hash password for %s: %w", account.Email, err)
	}

	user = &domain.User{
		Username:     account.Username,
		Email:        account.Email,
		PasswordHash: hash,
		Role:         account.Role,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return s.users.GetByEmail(ctx, account.Email)
		}
		return nil, fmt.Errorf("seed: insert %s: %w", account.Email, err)
	}
	s.logger.Info("seeded account", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return user, nil
}

func demoProducts(owners map[domain.Role]int64) []*domain.Product {
	owner := func(role domain.Role) *int64 {
		id, ok := owners[role]
		if !ok {
			return nil
		}
		return &id
	}
	str := func(s string) *string { return &s }

	return []*domain.Product{
		{
			Name:        "Laptop Pro",
			Description: str("A powerful laptop for professionals"),
			Price:       1299.99,
			Quantity:    50,
			Category:    str("Electronics"),
			ImageURL:    str("https://example.com/laptop.jpg"),
			UserID:      owner(domain.RoleAdmin),
		},
		{
			Name:        "Smartphone X",
			Description: str("The latest smartphone with an excellent camera"),
			Price:       899.99,
			Quantity:    100,
			Category:    str("Electronics"),
			ImageURL:    str("https://example.com/smartphone.jpg"),
			UserID:      owner(domain.RoleAdmin),
		},
		{
			Name:        "Wireless Headphones",
			Description: str("Bluetooth headphones with noise cancelling"),
			Price:       249.99,
			Quantity:    75,
			Category:    str("Audio"),
			ImageURL:    str("https://example.com/headphones.jpg"),
			UserID:      owner(domain.RoleUser),
		},
		{
			Name:        "Smartwatch",
			Description: str("Track your activity and stay connected"),
			Price:       199.99,
			Quantity:    60,
			Category:    str("Wearable"),
			ImageURL:    str("https://example.com/smartwatch.jpg"),
			UserID:      owner(domain.RoleUser),
		},
	}
}
