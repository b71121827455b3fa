package seed

import (
	"context"
	"errors"
	"fmt"

	"restaurant-admin/internal/model"

	"github.com/rs/zerolog"
)

// Summary counts what an import wrote and skipped.
type Summary struct {
	Restaurants int
	Tables      int
	Products    int
	Menus       int
	Skipped     int
}

func (s *Summary) add(o Summary) {
	s.Restaurants += o.Restaurants
	s.Tables += o.Tables
	s.Products += o.Products
	s.Menus += o.Menus
	s.Skipped += o.Skipped
}

// Importer writes seed records into a Target.
type Importer struct {
	target    Target
	validator Validator
	logger    zerolog.Logger
}

// NewImporter creates an importer.
func NewImporter(target Target, validator Validator, logger zerolog.Logger) *Importer {
	return &Importer{
		target:    target,
		validator: validator,
		logger:    logger.With().Str("component", "seed-importer").Logger(),
	}
}

// Run loads every path with loader and imports the records. A file that
// cannot be loaded aborts the run.
func (im *Importer) Run(ctx context.Context, loader Loader, paths []string) (Summary, error) {
	var total Summary
	for _, path := range paths {
		records, err := loader.Load(ctx, path)
		if err != nil {
			return total, fmt.Errorf("failed to load seed file %s: %w", path, err)
		}

		s, err := im.Import(ctx, records)
		total.add(s)
		if err != nil {
			return total, fmt.Errorf("failed to import seed file %s: %w", path, err)
		}
	}

	im.logger.Info().
		Int("restaurants", total.Restaurants).
		Int("tables", total.Tables).
		Int("products", total.Products).
		Int("menus", total.Menus).
		Int("skipped", total.Skipped).
		Msg("seed import finished")

	return total, nil
}

// Import writes records in order. Restaurants already present for the same
// client and name are skipped, so re-running a seed is harmless. Invalid
// records are skipped; backend failures abort.
func (im *Importer) Import(ctx context.Context, records []Record) (Summary, error) {
	var s Summary
	existing := map[string]bool{}

	for i, rec := range records {
		logger := im.logger.With().Int("record", i).Str("name", rec.Restaurant.Name).Logger()

		if err := im.validate(rec); err != nil {
			logger.Warn().Err(err).Msg("skipping invalid seed record")
			s.Skipped++
			continue
		}

		key := rec.Restaurant.ClientID + "\x00" + rec.Restaurant.Name
		if !existing[key] {
			present, err := im.exists(ctx, rec.Restaurant)
			if err != nil {
				return s, err
			}
			existing[key] = present
		}
		if existing[key] {
			logger.Debug().Msg("restaurant already present, skipping")
			s.Skipped++
			continue
		}

		written, err := im.importRecord(ctx, rec)
		s.add(written)
		if err != nil {
			if isDomainInputError(err) {
				logger.Warn().Err(err).Msg("seed record rejected by backend")
				s.Skipped++
				continue
			}
			return s, err
		}
		existing[key] = true
	}

	return s, nil
}

func (im *Importer) validate(rec Record) error {
	if err := im.validator.ValidateInput(rec.Restaurant); err != nil {
		return err
	}
	numbers := make(map[int]bool, len(rec.Tables))
	for _, t := range rec.Tables {
		if err := im.validator.ValidateTable(t); err != nil {
			return err
		}
		if numbers[t.Number] {
			return fmt.Errorf("duplicate table number %d", t.Number)
		}
		numbers[t.Number] = true
	}
	refs := make(map[string]bool, len(rec.Products))
	for _, p := range rec.Products {
		if err := im.validator.ValidateProduct(p.ProductInput); err != nil {
			return err
		}
		if p.Ref != "" {
			if refs[p.Ref] {
				return fmt.Errorf("duplicate product ref %q", p.Ref)
			}
			refs[p.Ref] = true
		}
	}
	for _, m := range rec.Menus {
		if len(m.ProductRefs) == 0 {
			return fmt.Errorf("menu %q has no products", m.Name)
		}
		for _, ref := range m.ProductRefs {
			if !refs[ref] {
				return fmt.Errorf("menu %q references unknown product %q", m.Name, ref)
			}
		}
	}
	return nil
}

func (im *Importer) exists(ctx context.Context, in model.RestaurantInput) (bool, error) {
	current, err := im.target.List(ctx, in.ClientID)
	if err != nil {
		return false, fmt.Errorf("failed to list restaurants: %w", err)
	}
	for _, r := range current {
		if r.Name == in.Name {
			return true, nil
		}
	}
	return false, nil
}

func (im *Importer) importRecord(ctx context.Context, rec Record) (Summary, error) {
	var s Summary

	rest, err := im.target.Create(ctx, rec.Restaurant)
	if err != nil {
		return s, fmt.Errorf("failed to create restaurant %q: %w", rec.Restaurant.Name, err)
	}
	s.Restaurants++

	for _, t := range rec.Tables {
		if _, err := im.target.AddTable(ctx, rest.ID, t); err != nil {
			return s, fmt.Errorf("failed to add table %d: %w", t.Number, err)
		}
		s.Tables++
	}

	ids := make(map[string]string, len(rec.Products))
	for _, p := range rec.Products {
		created, err := im.target.AddProduct(ctx, rest.ID, p.ProductInput)
		if err != nil {
			return s, fmt.Errorf("failed to add product %q: %w", p.Name, err)
		}
		if p.Ref != "" {
			ids[p.Ref] = created.ID
		}
		s.Products++
	}

	for _, m := range rec.Menus {
		in := model.MenuInput{Name: m.Name, IsActive: m.IsActive}
		for _, ref := range m.ProductRefs {
			in.ProductIDs = append(in.ProductIDs, ids[ref])
		}
		if err := im.validator.ValidateMenu(in); err != nil {
			return s, err
		}
		if _, err := im.target.AssembleMenu(ctx, rest.ID, in); err != nil {
			return s, fmt.Errorf("failed to assemble menu %q: %w", m.Name, err)
		}
		s.Menus++
	}

	return s, nil
}

func isDomainInputError(err error) bool {
	return errors.Is(err, model.ErrValidationFailed) || errors.Is(err, model.ErrNotFound)
}
