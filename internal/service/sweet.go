// Package service contains the business logic layer.
//
// Handlers parse HTTP and delegate here; this layer enforces the inventory
// rules and delegates persistence to the repository interfaces. It returns
// apperror values, never HTTP status codes, so the same rules serve the
// HTTP surface, the promote CLI, and the tests without modification.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/sakif/sweet-shop/internal/apperror"
	"github.com/sakif/sweet-shop/internal/auth"
	"github.com/sakif/sweet-shop/internal/model"
	"github.com/sakif/sweet-shop/internal/repository"
)

// MaxSweetNameLength caps sweet names.
const MaxSweetNameLength = 100

// SweetService enforces the sweet lifecycle rules: creation uniqueness,
// category membership, non-negative price/quantity, stock arithmetic, and
// the admin capability on delete/restock.
type SweetService struct {
	repo   repository.SweetRepository
	logger *slog.Logger
}

// NewSweetService creates a SweetService. The repository is injected so
// tests can substitute an in-memory fake.
func NewSweetService(repo repository.SweetRepository, logger *slog.Logger) *SweetService {
	return &SweetService{
		repo:   repo,
		logger: logger,
	}
}

// CreateSweetInput is the full field set required to create a sweet.
type CreateSweetInput struct {
	Name        string
	Category    string
	Price       float64
	Quantity    int
	Description string
}

// SweetPatch is a partial update. Each field is a pointer so "omitted"
// (nil) is distinguishable from "set to the zero value"; clearing a
// description is not the same as leaving it alone.
type SweetPatch struct {
	Name        *string
	Category    *string
	Price       *float64
	Quantity    *int
	Description *string
}

// SearchParams are the optional, conjunctive search predicates.
type SearchParams struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// PurchaseResult bundles the updated record with the purchase receipt.
type PurchaseResult struct {
	Sweet     *model.Sweet
	Purchased int
	TotalCost float64
}

// RestockResult bundles the updated record with the added quantity.
type RestockResult struct {
	Sweet         *model.Sweet
	AddedQuantity int
}

// Create validates and persists a new sweet owned by the caller.
//
// Any authenticated caller may create; creation is not admin-gated. The
// name pre-check here is an early rejection only; the store's unique
// constraint remains the authoritative guard against a concurrent
// duplicate.
func (s *SweetService) Create(ctx context.Context, ident auth.Identity, in CreateSweetInput) (*model.Sweet, error) {
	in.Name = strings.TrimSpace(in.Name)

	if in.Name == "" {
		return nil, apperror.ValidationFailed("name", "sweet name is required")
	}
	if len(in.Name) > MaxSweetNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("sweet name must be %d characters or less", MaxSweetNameLength))
	}
	if !model.ValidCategory(in.Category) {
		return nil, apperror.ValidationFailed("category",
			fmt.Sprintf("%q is not a valid category", in.Category))
	}
	if in.Price < 0 {
		return nil, apperror.ValidationFailed("price", "price cannot be negative")
	}
	if in.Quantity < 0 {
		return nil, apperror.ValidationFailed("quantity", "quantity cannot be negative")
	}

	if err := s.checkNameAvailable(ctx, in.Name); err != nil {
		return nil, err
	}

	sweet := &model.Sweet{
		Name:        in.Name,
		Category:    in.Category,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: strings.TrimSpace(in.Description),
		CreatedByID: ident.ID,
		CreatedBy: model.Creator{
			Username: ident.Username,
			Email:    ident.Email,
		},
	}

	if err := s.repo.Create(ctx, sweet); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create sweet",
			slog.String("name", in.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating sweet: %w", err)
	}

	s.logger.Info("sweet created",
		slog.String("id", sweet.ID),
		slog.String("name", sweet.Name),
		slog.String("createdBy", ident.ID),
	)

	return sweet, nil
}

// GetAll returns every sweet, creator expanded. No pagination; the shop's
// whole catalogue is the working set.
func (s *SweetService) GetAll(ctx context.Context) ([]model.Sweet, error) {
	sweets, err := s.repo.List(ctx, repository.SweetFilter{})
	if err != nil {
		s.logger.Error("failed to list sweets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing sweets: %w", err)
	}
	return sweets, nil
}

// Search returns the sweets matching the given predicates, ANDed together.
// With no predicates supplied it behaves exactly like GetAll. Category
// input is lower-cased before the exact match.
func (s *SweetService) Search(ctx context.Context, p SearchParams) ([]model.Sweet, error) {
	filter := repository.SweetFilter{
		Name:     strings.TrimSpace(p.Name),
		Category: strings.ToLower(strings.TrimSpace(p.Category)),
		MinPrice: p.MinPrice,
		MaxPrice: p.MaxPrice,
	}

	sweets, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to search sweets", slog.String("error", err.Error()))
		return nil, fmt.Errorf("searching sweets: %w", err)
	}
	return sweets, nil
}

// GetByID retrieves a single sweet.
func (s *SweetService) GetByID(ctx context.Context, id string) (*model.Sweet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "sweet ID is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial field set to an existing sweet. Unsupplied
// fields are left unchanged; createdBy and createdAt never change.
//
// A rename re-checks global name uniqueness against all other items. The
// validation here duplicates what the HTTP layer already rejects on
// purpose: an invalid value must not slip through to the store no matter
// how it arrived.
func (s *SweetService) Update(ctx context.Context, id string, patch SweetPatch) (*model.Sweet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "sweet ID is required")
	}

	sweet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "sweet name is required")
		}
		if len(name) > MaxSweetNameLength {
			return nil, apperror.ValidationFailed("name",
				fmt.Sprintf("sweet name must be %d characters or less", MaxSweetNameLength))
		}
		if name != sweet.Name {
			if err := s.checkNameAvailable(ctx, name); err != nil {
				return nil, err
			}
			sweet.Name = name
		}
	}
	if patch.Category != nil {
		if !model.ValidCategory(*patch.Category) {
			return nil, apperror.ValidationFailed("category",
				fmt.Sprintf("%q is not a valid category", *patch.Category))
		}
		sweet.Category = *patch.Category
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return nil, apperror.ValidationFailed("price", "price cannot be negative")
		}
		sweet.Price = *patch.Price
	}
	if patch.Quantity != nil {
		if *patch.Quantity < 0 {
			return nil, apperror.ValidationFailed("quantity", "quantity cannot be negative")
		}
		sweet.Quantity = *patch.Quantity
	}
	if patch.Description != nil {
		sweet.Description = strings.TrimSpace(*patch.Description)
	}

	if err := s.repo.Update(ctx, sweet); err != nil {
		if errors.Is(err, apperror.ErrConflict) || errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to update sweet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating sweet: %w", err)
	}

	s.logger.Info("sweet updated",
		slog.String("id", sweet.ID),
		slog.String("name", sweet.Name),
	)

	return sweet, nil
}

// Purchase decrements stock by qty and reports the receipt.
//
// The sufficiency check and the decrement are one atomic repository
// operation; two concurrent purchases of the same item can never jointly
// exceed its stock, and a failed purchase leaves the quantity untouched.
// TotalCost is price x quantity rounded to 2 decimal places.
func (s *SweetService) Purchase(ctx context.Context, id string, qty int) (*PurchaseResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "sweet ID is required")
	}
	if qty <= 0 {
		return nil, apperror.ValidationFailed("quantity", "valid quantity is required")
	}

	sweet, err := s.repo.DecrementStock(ctx, id, qty)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrInsufficientStock) {
			return nil, err
		}
		s.logger.Error("failed to purchase sweet",
			slog.String("id", id),
			slog.Int("quantity", qty),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("purchasing sweet: %w", err)
	}

	s.logger.Info("sweet purchased",
		slog.String("id", sweet.ID),
		slog.Int("purchased", qty),
		slog.Int("remaining", sweet.Quantity),
	)

	return &PurchaseResult{
		Sweet:     sweet,
		Purchased: qty,
		TotalCost: round2(sweet.Price * float64(qty)),
	}, nil
}

// Restock increments stock by qty. Admin only; there is no upper bound on
// the resulting stock.
func (s *SweetService) Restock(ctx context.Context, ident auth.Identity, id string, qty int) (*RestockResult, error) {
	if !ident.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "sweet ID is required")
	}
	if qty <= 0 {
		return nil, apperror.ValidationFailed("quantity", "valid quantity is required")
	}

	sweet, err := s.repo.IncrementStock(ctx, id, qty)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to restock sweet",
			slog.String("id", id),
			slog.Int("quantity", qty),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("restocking sweet: %w", err)
	}

	s.logger.Info("sweet restocked",
		slog.String("id", sweet.ID),
		slog.Int("added", qty),
		slog.Int("quantity", sweet.Quantity),
	)

	return &RestockResult{
		Sweet:         sweet,
		AddedQuantity: qty,
	}, nil
}

// Delete permanently removes a sweet and returns its final snapshot so the
// caller can display what was removed. Admin only.
func (s *SweetService) Delete(ctx context.Context, ident auth.Identity, id string) (*model.Sweet, error) {
	if !ident.IsAdmin() {
		return nil, apperror.Forbidden("admin access required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "sweet ID is required")
	}

	sweet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("sweet deleted",
		slog.String("id", id),
		slog.String("name", sweet.Name),
		slog.String("deletedBy", ident.ID),
	)

	return sweet, nil
}

// checkNameAvailable is the early-rejection half of the uniqueness rule.
// The store's unique constraint catches whatever races past it.
func (s *SweetService) checkNameAvailable(ctx context.Context, name string) error {
	_, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return apperror.Conflict("sweet with this name already exists")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return fmt.Errorf("checking sweet name: %w", err)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
