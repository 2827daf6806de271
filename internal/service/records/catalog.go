package records

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/ledger/internal/domain/models"
)

// Catalog returns the product list and the known units, seeding the default
// units the first time the units collection is read empty.
func (s *Service) Catalog(ctx context.Context) ([]models.Product, []string, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list products: %w", err)
	}

	units, err := s.repo.ListUnits(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list units: %w", err)
	}
	if len(units) == 0 {
		for _, unit := range models.DefaultUnits {
			if err := s.repo.UpsertUnit(ctx, unit); err != nil {
				return nil, nil, fmt.Errorf("seed unit %s: %w", unit, err)
			}
		}
		units = append(units, models.DefaultUnits...)
		s.logger.Info("seeded default units", zap.Strings("units", units))
	}

	return products, units, nil
}

// AddProduct upserts a product keyed by name and ensures its unit exists in
// the units collection. The two writes are independent single-document
// operations with no atomicity between them.
func (s *Service) AddProduct(ctx context.Context, req models.AddProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.logger.Warn("ignoring product with empty name")
		return nil
	}

	unit := req.Unit
	if unit == "custom" {
		unit = strings.TrimSpace(req.CustomUnit)
	}

	if err := s.repo.UpsertProduct(ctx, models.Product{Name: name, Unit: unit}); err != nil {
		return err
	}
	if unit != "" {
		if err := s.repo.UpsertUnit(ctx, unit); err != nil {
			return err
		}
	}
	return nil
}
