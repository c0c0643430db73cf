package domain

import (
	"strings"
	"time"
	"unicode"
)

const (
	DefaultPageLimit = 24
	MaxPageLimit     = 100
)

type Product struct {
	ID              string
	Slug            string
	Name            string
	Description     string
	DescriptionHTML string
	Category        string
	PriceCents      int64
	Stock           int
	ImageURL        string
	Featured        bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Normalize trims text fields and derives the slug from the name
// when the slug is empty.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.Slug = Slugify(p.Slug)
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
}

func (p Product) Validate() error {
	switch {
	case p.Name == "":
		return invalid("name", "required")
	case p.Slug == "":
		return invalid("slug", "required")
	case p.PriceCents <= 0:
		return invalid("price_cents", "must be positive")
	case p.Stock < 0:
		return invalid("stock", "must not be negative")
	}
	return nil
}

// Purchasable reports whether qty units can be ordered right now.
func (p Product) Purchasable(qty int) error {
	if !p.Active {
		return ErrNotFound
	}
	if qty > p.Stock {
		return StockError{ProductID: p.ID, Available: p.Stock}
	}
	return nil
}

// Slugify lowercases s and collapses every run of
// non letters or digits into a single dash.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

type ProductFilter struct {
	Category        string
	Query           string
	FeaturedOnly    bool
	IncludeInactive bool
	Limit           int
	Offset          int
}

func (f *ProductFilter) Normalize() {
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Query = strings.TrimSpace(f.Query)
	f.Limit, f.Offset = normalizePage(f.Limit, f.Offset)
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type Bestseller struct {
	Product   Product
	UnitsSold int64
}

// ProductSales is the number of units sold of a product.
type ProductSales struct {
	ProductID string
	UnitsSold int64
}
