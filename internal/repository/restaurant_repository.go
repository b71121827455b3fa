package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-admin/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes mapped to domain errors.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

const restaurantColumns = `id, client_id, name, description, address, phone, email, website, is_open, created_at, updated_at`

// Stamp that never moves updated_at backwards, even when the clock does.
const bumpUpdatedAt = `updated_at = GREATEST(now(), updated_at + interval '1 microsecond')`

// restaurantRepository implements RestaurantRepository using PostgreSQL.
type restaurantRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRestaurantRepository creates a new PostgreSQL-backed restaurant repository.
func NewRestaurantRepository(pool *pgxpool.Pool, logger zerolog.Logger) RestaurantRepository {
	return &restaurantRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "restaurant").Logger(),
	}
}

// List retrieves restaurants in creation order, optionally for one client.
func (r *restaurantRepository) List(ctx context.Context, clientID string) ([]model.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY seq`
	var args []any

	if clientID != "" {
		cid, err := uuid.Parse(clientID)
		if err != nil {
			return []model.Restaurant{}, nil
		}
		query = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE client_id = $1 ORDER BY seq`
		args = append(args, cid)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Msg("failed to query restaurants")
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	restaurants := []model.Restaurant{}
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan restaurant row")
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		restaurants = append(restaurants, *rest)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating restaurant rows")
		return nil, fmt.Errorf("error iterating restaurants: %w", err)
	}

	return restaurants, nil
}

// Create inserts a new restaurant. The repository assigns id and timestamps.
func (r *restaurantRepository) Create(ctx context.Context, input model.RestaurantInput) (*model.Restaurant, error) {
	clientID, err := uuid.Parse(input.ClientID)
	if err != nil {
		return nil, model.NewValidationError([]model.FieldError{
			{Field: "clientId", Key: "validation.clientId.invalid_uuid"},
		})
	}

	query := `
		INSERT INTO restaurants (id, client_id, name, description, address, phone, email, website, is_open, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8::text, ''), $9, $10, $10)
		RETURNING ` + restaurantColumns

	now := time.Now().UTC()
	rest, err := scanRestaurant(r.pool.QueryRow(ctx, query,
		uuid.New(),
		clientID,
		input.Name,
		input.Description,
		input.Address,
		input.Phone,
		input.Email,
		input.Website,
		input.IsOpen,
		now,
	))
	if err != nil {
		r.logger.Error().Err(err).Str("client_id", input.ClientID).Msg("failed to create restaurant")
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	r.logger.Debug().Str("restaurant_id", rest.ID).Msg("restaurant created successfully")

	return rest, nil
}

// Update applies the non-nil fields of patch. An empty website clears it.
func (r *restaurantRepository) Update(ctx context.Context, id string, patch model.RestaurantPatch) (*model.Restaurant, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, model.NotFound("restaurant", id)
	}

	query := `
		UPDATE restaurants SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			address = COALESCE($4, address),
			phone = COALESCE($5, phone),
			email = COALESCE($6, email),
			website = CASE WHEN $7::text IS NULL THEN website ELSE NULLIF($7::text, '') END,
			` + bumpUpdatedAt + `
		WHERE id = $1
		RETURNING ` + restaurantColumns

	rest, err := scanRestaurant(r.pool.QueryRow(ctx, query,
		rid,
		patch.Name,
		patch.Description,
		patch.Address,
		patch.Phone,
		patch.Email,
		patch.Website,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("restaurant_id", id).Msg("restaurant not found")
			return nil, model.NotFound("restaurant", id)
		}
		r.logger.Error().Err(err).Str("restaurant_id", id).Msg("failed to update restaurant")
		return nil, fmt.Errorf("failed to update restaurant: %w", err)
	}

	return rest, nil
}

// ToggleStatus flips is_open.
func (r *restaurantRepository) ToggleStatus(ctx context.Context, id string) (*model.Restaurant, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, model.NotFound("restaurant", id)
	}

	query := `
		UPDATE restaurants SET is_open = NOT is_open, ` + bumpUpdatedAt + `
		WHERE id = $1
		RETURNING ` + restaurantColumns

	rest, err := scanRestaurant(r.pool.QueryRow(ctx, query, rid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("restaurant_id", id).Msg("restaurant not found")
			return nil, model.NotFound("restaurant", id)
		}
		r.logger.Error().Err(err).Str("restaurant_id", id).Msg("failed to toggle restaurant status")
		return nil, fmt.Errorf("failed to toggle restaurant status: %w", err)
	}

	r.logger.Debug().
		Str("restaurant_id", id).
		Bool("is_open", rest.IsOpen).
		Msg("restaurant status toggled")

	return rest, nil
}

// FetchDependents loads tables, products, menus and stats in one batch.
func (r *restaurantRepository) FetchDependents(ctx context.Context, restaurantID string) (*model.Dependents, error) {
	rid, err := uuid.Parse(restaurantID)
	if err != nil {
		return nil, model.NotFound("restaurant", restaurantID)
	}

	batch := &pgx.Batch{}
	batch.Queue(`SELECT EXISTS (SELECT 1 FROM restaurants WHERE id = $1)`, rid)
	batch.Queue(`
		SELECT id, restaurant_id, number, capacity, status
		FROM restaurant_tables
		WHERE restaurant_id = $1
		ORDER BY number`, rid)
	batch.Queue(`
		SELECT id, restaurant_id, name, description, price, category, is_available
		FROM products
		WHERE restaurant_id = $1
		ORDER BY name, id`, rid)
	batch.Queue(`
		SELECT m.id, m.restaurant_id, m.name, m.is_active,
			i.product_id, i.name, i.description, i.price, i.category, i.position
		FROM menus m
		LEFT JOIN menu_items i ON i.menu_id = m.id
		WHERE m.restaurant_id = $1
		ORDER BY m.name, m.id, i.position`, rid)
	batch.Queue(`
		SELECT
			(SELECT COUNT(*) FROM products WHERE restaurant_id = $1),
			(SELECT COUNT(*) FROM products WHERE restaurant_id = $1 AND is_available),
			(SELECT COUNT(*) FROM menus WHERE restaurant_id = $1),
			(SELECT COUNT(*) FROM menus WHERE restaurant_id = $1 AND is_active)`, rid)
	batch.Queue(`
		SELECT status, COUNT(*)
		FROM restaurant_tables
		WHERE restaurant_id = $1
		GROUP BY status`, rid)

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	var exists bool
	if err := results.QueryRow().Scan(&exists); err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID).Msg("failed to query restaurant")
		return nil, fmt.Errorf("failed to query restaurant: %w", err)
	}
	if !exists {
		return nil, model.NotFound("restaurant", restaurantID)
	}

	deps := &model.Dependents{
		Tables:   []model.Table{},
		Products: []model.Product{},
		Menus:    []model.Menu{},
	}

	if deps.Tables, err = r.collectTables(results); err != nil {
		return nil, err
	}
	if deps.Products, err = r.collectProducts(results); err != nil {
		return nil, err
	}
	if deps.Menus, err = r.collectMenus(results); err != nil {
		return nil, err
	}
	if deps.Stats, err = r.collectStats(results); err != nil {
		return nil, err
	}
	deps.Stats.TableCount = len(deps.Tables)

	return deps, nil
}

func (r *restaurantRepository) collectTables(results pgx.BatchResults) ([]model.Table, error) {
	rows, err := results.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	tables := []model.Table{}
	for rows.Next() {
		var (
			t       model.Table
			id, rid uuid.UUID
		)
		if err := rows.Scan(&id, &rid, &t.Number, &t.Capacity, &t.Status); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan table row")
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		t.ID, t.RestaurantID = id.String(), rid.String()
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

func (r *restaurantRepository) collectProducts(results pgx.BatchResults) ([]model.Product, error) {
	rows, err := results.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}

func (r *restaurantRepository) collectMenus(results pgx.BatchResults) ([]model.Menu, error) {
	rows, err := results.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}
	defer rows.Close()

	menus := []model.Menu{}
	for rows.Next() {
		var (
			menuID, rid uuid.UUID
			name        string
			isActive    bool
			productID   *uuid.UUID
			itemName    *string
			itemDesc    *string
			itemPrice   *float64
			itemCat     *string
			position    *int
		)
		if err := rows.Scan(&menuID, &rid, &name, &isActive,
			&productID, &itemName, &itemDesc, &itemPrice, &itemCat, &position); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan menu row")
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}

		if n := len(menus); n == 0 || menus[n-1].ID != menuID.String() {
			menus = append(menus, model.Menu{
				ID:           menuID.String(),
				RestaurantID: rid.String(),
				Name:         name,
				IsActive:     isActive,
				Items:        []model.MenuItem{},
			})
		}
		if productID == nil {
			continue
		}
		last := &menus[len(menus)-1]
		last.Items = append(last.Items, model.MenuItem{
			ProductID:   productID.String(),
			Name:        *itemName,
			Description: *itemDesc,
			Price:       *itemPrice,
			Category:    *itemCat,
			Position:    *position,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menus: %w", err)
	}
	return menus, nil
}

func (r *restaurantRepository) collectStats(results pgx.BatchResults) (model.RestaurantStats, error) {
	stats := model.RestaurantStats{TablesByStatus: map[model.TableStatus]int{}}

	if err := results.QueryRow().Scan(
		&stats.ProductCount,
		&stats.AvailableProducts,
		&stats.MenuCount,
		&stats.ActiveMenus,
	); err != nil {
		r.logger.Error().Err(err).Msg("failed to query restaurant stats")
		return stats, fmt.Errorf("failed to query restaurant stats: %w", err)
	}

	rows, err := results.Query()
	if err != nil {
		return stats, fmt.Errorf("failed to query table stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status model.TableStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return stats, fmt.Errorf("failed to scan table stats: %w", err)
		}
		stats.TablesByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("error iterating table stats: %w", err)
	}
	return stats, nil
}

// AddTable inserts a table. A duplicate number is a validation failure.
func (r *restaurantRepository) AddTable(ctx context.Context, restaurantID string, input model.TableInput) (*model.Table, error) {
	rid, err := uuid.Parse(restaurantID)
	if err != nil {
		return nil, model.NotFound("restaurant", restaurantID)
	}

	t := model.Table{
		ID:           uuid.NewString(),
		RestaurantID: rid.String(),
		Number:       input.Number,
		Capacity:     input.Capacity,
		Status:       tableStatusOrDefault(input.Status),
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO restaurant_tables (id, restaurant_id, number, capacity, status)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.MustParse(t.ID), rid, t.Number, t.Capacity, t.Status,
	)
	if err != nil {
		if mapped := r.mapWriteError(err, restaurantID, "number"); mapped != nil {
			return nil, mapped
		}
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID).Msg("failed to create table")
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &t, nil
}

// AddProduct inserts a product.
func (r *restaurantRepository) AddProduct(ctx context.Context, restaurantID string, input model.ProductInput) (*model.Product, error) {
	rid, err := uuid.Parse(restaurantID)
	if err != nil {
		return nil, model.NotFound("restaurant", restaurantID)
	}

	p := model.Product{
		ID:           uuid.NewString(),
		RestaurantID: rid.String(),
		Name:         input.Name,
		Description:  input.Description,
		Price:        input.Price,
		Category:     input.Category,
		IsAvailable:  input.IsAvailable,
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO products (id, restaurant_id, name, description, price, category, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.MustParse(p.ID), rid, p.Name, p.Description, p.Price, p.Category, p.IsAvailable,
	)
	if err != nil {
		if mapped := r.mapWriteError(err, restaurantID, "name"); mapped != nil {
			return nil, mapped
		}
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return &p, nil
}

// AssembleMenu snapshots the listed products into a new menu within one transaction.
func (r *restaurantRepository) AssembleMenu(ctx context.Context, restaurantID string, input model.MenuInput) (*model.Menu, error) {
	rid, err := uuid.Parse(restaurantID)
	if err != nil {
		return nil, model.NotFound("restaurant", restaurantID)
	}

	productIDs := make([]uuid.UUID, 0, len(input.ProductIDs))
	for _, id := range input.ProductIDs {
		pid, err := uuid.Parse(id)
		if err != nil {
			return nil, model.NotFound("product", id)
		}
		productIDs = append(productIDs, pid)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM restaurants WHERE id = $1)`, rid).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to query restaurant: %w", err)
	}
	if !exists {
		return nil, model.NotFound("restaurant", restaurantID)
	}

	rows, err := tx.Query(ctx, `
		SELECT id, restaurant_id, name, description, price, category, is_available
		FROM products
		WHERE restaurant_id = $1 AND id = ANY($2)`, rid, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu products: %w", err)
	}
	byID := make(map[string]model.Product, len(productIDs))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		byID[p.ID] = *p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu products: %w", err)
	}

	ordered := make([]model.Product, 0, len(productIDs))
	for _, pid := range productIDs {
		p, ok := byID[pid.String()]
		if !ok {
			return nil, model.NotFound("product", pid.String())
		}
		ordered = append(ordered, p)
	}

	menu := model.Menu{
		ID:           uuid.NewString(),
		RestaurantID: rid.String(),
		Name:         input.Name,
		IsActive:     input.IsActive,
		Items:        model.SnapshotItems(ordered),
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO menus (id, restaurant_id, name, is_active) VALUES ($1, $2, $3, $4)`,
		uuid.MustParse(menu.ID), rid, menu.Name, menu.IsActive,
	); err != nil {
		r.logger.Error().Err(err).Str("restaurant_id", restaurantID).Msg("failed to create menu")
		return nil, fmt.Errorf("failed to create menu: %w", err)
	}

	itemQuery := `
		INSERT INTO menu_items (menu_id, product_id, name, description, price, category, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for _, item := range menu.Items {
		batch.Queue(itemQuery, uuid.MustParse(menu.ID), uuid.MustParse(item.ProductID),
			item.Name, item.Description, item.Price, item.Category, item.Position)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range menu.Items {
		if _, err := results.Exec(); err != nil {
			results.Close()
			r.logger.Error().
				Err(err).
				Str("menu_id", menu.ID).
				Str("product_id", menu.Items[i].ProductID).
				Msg("failed to create menu item")
			return nil, fmt.Errorf("failed to create menu item: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to create menu items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit menu: %w", err)
	}

	r.logger.Debug().
		Str("menu_id", menu.ID).
		Int("items", len(menu.Items)).
		Msg("menu assembled successfully")

	return &menu, nil
}

// mapWriteError converts constraint violations into domain errors.
func (r *restaurantRepository) mapWriteError(err error, restaurantID, uniqueField string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return model.NotFound("restaurant", restaurantID)
	case pgUniqueViolation:
		return model.NewValidationError([]model.FieldError{
			{Field: uniqueField, Key: "validation." + uniqueField + ".duplicate"},
		})
	}
	return nil
}

func scanRestaurant(row pgx.Row) (*model.Restaurant, error) {
	var (
		rest         model.Restaurant
		id, clientID uuid.UUID
	)
	err := row.Scan(
		&id,
		&clientID,
		&rest.Name,
		&rest.Description,
		&rest.Address,
		&rest.Phone,
		&rest.Email,
		&rest.Website,
		&rest.IsOpen,
		&rest.CreatedAt,
		&rest.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rest.ID = id.String()
	rest.ClientID = clientID.String()
	rest.CreatedAt = rest.CreatedAt.UTC()
	rest.UpdatedAt = rest.UpdatedAt.UTC()
	return &rest, nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var (
		p       model.Product
		id, rid uuid.UUID
	)
	if err := row.Scan(&id, &rid, &p.Name, &p.Description, &p.Price, &p.Category, &p.IsAvailable); err != nil {
		return nil, err
	}
	p.ID, p.RestaurantID = id.String(), rid.String()
	return &p, nil
}
