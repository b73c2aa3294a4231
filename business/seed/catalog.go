package seed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"smartShop/domain"
	"smartShop/internal/repository/postgres"
)

const (
	productsFile = "products.csv"
	reviewsFile  = "reviews.csv"
	policiesFile = "store_policies.csv"
	usersFile    = "users.csv"
	eventsFile   = "user_events.csv"
)

func amount(v float64) *float64 { return &v }

// DefaultUsers are loaded when the data directory has no users.csv.
func DefaultUsers() []domain.UserProfile {
	return []domain.UserProfile{
		{ID: "U001", Name: "Alex Kim", PreferredCategories: []string{"smartphone", "laptop"}, BudgetMin: amount(300), BudgetMax: amount(1200)},
		{ID: "U002", Name: "Jordan Lee", PreferredCategories: []string{"smart_tv", "speaker"}, BudgetMin: amount(200), BudgetMax: amount(2000)},
		{ID: "U003", Name: "Sam Rivera", PreferredCategories: []string{"laptop"}, BudgetMin: amount(500), BudgetMax: amount(1800)},
	}
}

// LoadCatalog parses every seed file in dir. Products, reviews and store policies are
// required. Events naming an unknown user or product are skipped.
func LoadCatalog(dir string, today time.Time) (postgres.CatalogData, error) {
	var data postgres.CatalogData

	for _, name := range []string{productsFile, reviewsFile, policiesFile} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return data, fmt.Errorf("missing %s: %w", filepath.Join(dir, name), err)
		}
	}

	var err error
	if data.Products, err = loadProducts(filepath.Join(dir, productsFile)); err != nil {
		return data, err
	}
	if data.Reviews, err = loadReviews(filepath.Join(dir, reviewsFile)); err != nil {
		return data, err
	}
	if data.Policies, err = loadPolicies(filepath.Join(dir, policiesFile)); err != nil {
		return data, err
	}
	if data.Users, err = LoadUsers(dir); err != nil {
		return data, err
	}
	if data.Events, err = loadEvents(filepath.Join(dir, eventsFile), today); err != nil {
		return data, err
	}

	data.Events = knownReferences(data.Events, data.Users, data.Products)
	return data, nil
}

// LoadUsers reads users.csv from dir, or returns DefaultUsers when the file is absent.
func LoadUsers(dir string) ([]domain.UserProfile, error) {
	rows, err := readCSV(filepath.Join(dir, usersFile))
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultUsers(), nil
	}
	if err != nil {
		return nil, err
	}

	users := make([]domain.UserProfile, 0, len(rows))
	for i, r := range rows {
		u := domain.UserProfile{
			ID:                  r.str("id"),
			Name:                r.str("name"),
			PreferredCategories: r.list("preferred_categories"),
		}
		if u.BudgetMin, err = r.optionalFloat("budget_min"); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", usersFile, i+1, err)
		}
		if u.BudgetMax, err = r.optionalFloat("budget_max"); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", usersFile, i+1, err)
		}
		users = append(users, u)
	}

	return users, nil
}

func loadProducts(path string) ([]domain.Product, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for i, r := range rows {
		p := domain.Product{
			ID:          r.str("id"),
			Name:        r.str("name"),
			Brand:       r.str("brand"),
			Category:    r.str("category"),
			Description: r.str("description"),
			RowIndex:    i,
		}
		if p.Price, err = r.float("price"); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", productsFile, i+1, err)
		}
		if p.Stock, err = r.integer("stock"); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", productsFile, i+1, err)
		}
		if p.Rating, err = r.float("rating"); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", productsFile, i+1, err)
		}
		products = append(products, p)
	}

	return products, nil
}

func loadReviews(path string) ([]domain.Review, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	reviews := make([]domain.Review, 0, len(rows))
	for i, r := range rows {
		rv := domain.Review{ProductID: r.str("product_id"), Text: r.str("text")}
		if rv.Rating, err = r.float("rating"); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", reviewsFile, i+1, err)
		}
		if rv.Date, err = r.date("date"); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", reviewsFile, i+1, err)
		}
		reviews = append(reviews, rv)
	}

	return reviews, nil
}

func loadPolicies(path string) ([]domain.StorePolicy, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	policies := make([]domain.StorePolicy, 0, len(rows))
	for i, r := range rows {
		p := domain.StorePolicy{
			PolicyType:  r.str("policy_type"),
			Description: r.str("description"),
			Conditions:  r.list("conditions"),
		}
		if p.Timeframe, err = r.integer("timeframe"); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", policiesFile, i+1, err)
		}
		policies = append(policies, p)
	}

	return policies, nil
}

// loadEvents reads the optional events file. Missing dates default to today and a
// missing type to view.
func loadEvents(path string, today time.Time) ([]domain.UserEvent, error) {
	rows, err := readCSV(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.UserEvent{}, nil
	}
	if err != nil {
		return nil, err
	}

	day := today.UTC().Truncate(24 * time.Hour)
	events := make([]domain.UserEvent, 0, len(rows))
	for i, r := range rows {
		e := domain.UserEvent{
			UserID:    r.str("user_id"),
			ProductID: r.str("product_id"),
			EventType: r.str("event_type"),
			CreatedAt: day,
		}
		if e.EventType == "" {
			e.EventType = domain.EventView
		}
		d, err := r.date("date")
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", eventsFile, i+1, err)
		}
		if d != nil {
			e.CreatedAt = *d
		}
		events = append(events, e)
	}

	return events, nil
}

func knownReferences(events []domain.UserEvent, users []domain.UserProfile, products []domain.Product) []domain.UserEvent {
	userIDs := make(map[string]struct{}, len(users))
	for _, u := range users {
		userIDs[u.ID] = struct{}{}
	}
	productIDs := make(map[string]struct{}, len(products))
	for _, p := range products {
		productIDs[p.ID] = struct{}{}
	}

	kept := events[:0]
	for _, e := range events {
		_, okUser := userIDs[e.UserID]
		_, okProduct := productIDs[e.ProductID]
		if okUser && okProduct {
			kept = append(kept, e)
		}
	}
	return kept
}
