package domain

// CREATE TABLE public.products (
//     id          TEXT PRIMARY KEY,
//     name        TEXT NOT NULL,
//     brand       TEXT NOT NULL,
//     category    TEXT NOT NULL,
//     price       DOUBLE PRECISION NOT NULL,
//     description TEXT NOT NULL,
//     stock       INTEGER NOT NULL,
//     rating      DOUBLE PRECISION NOT NULL,
//     row_index   INTEGER NOT NULL DEFAULT 0
// );

type Product struct {
	ID          string  `gorm:"primaryKey;column:id;type:text" json:"id"`
	Name        string  `gorm:"column:name;type:text;not null" json:"name"`
	Brand       string  `gorm:"column:brand;type:text;not null" json:"brand"`
	Category    string  `gorm:"column:category;type:text;not null;index" json:"category"`
	Price       float64 `gorm:"column:price;not null" json:"price"`
	Description string  `gorm:"column:description;type:text;not null" json:"description"`
	Stock       int     `gorm:"column:stock;not null" json:"stock"`
	Rating      float64 `gorm:"column:rating;not null" json:"rating"`
	RowIndex    int     `gorm:"column:row_index;not null;default:0;index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

func (p Product) InStock() bool {
	return p.Stock > 0
}

// ProductFilter narrows a catalog listing. Zero values mean "no constraint".
type ProductFilter struct {
	Query       string
	Category    string
	Categories  []string
	MinPrice    *float64
	MaxPrice    *float64
	InStockOnly bool
	Limit       int
}

// CategorySummary is one row of the distinct-category listing.
type CategorySummary struct {
	Category     string  `json:"category"`
	ProductCount int64   `json:"product_count"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
}

// PriceStats holds the aggregates of a single category.
type PriceStats struct {
	Min float64
	Max float64
	Avg float64
}
