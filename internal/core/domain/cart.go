package domain

import "time"

const (
	MinItemQuantity = 1
	MaxItemQuantity = 99
)

type CartItem struct {
	ProductID string
	Quantity  int
}

type Cart struct {
	ID        string
	Items     []CartItem
	UpdatedAt time.Time
}

// Quantity returns the quantity of the product in the cart, 0 if absent.
func (c Cart) Quantity(productID string) int {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Add adds qty units of the product, capping the line at [MaxItemQuantity].
// Returns the resulting line quantity.
func (c *Cart) Add(productID string, qty int) (int, error) {
	if qty < MinItemQuantity || qty > MaxItemQuantity {
		return 0, invalid("quantity", "must be between 1 and 99")
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = min(c.Items[i].Quantity+qty, MaxItemQuantity)
			return c.Items[i].Quantity, nil
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: qty})
	return qty, nil
}

// Set replaces the line quantity. Zero removes the line.
func (c *Cart) Set(productID string, qty int) error {
	if qty == 0 {
		c.Remove(productID)
		return nil
	}
	if qty < MinItemQuantity || qty > MaxItemQuantity {
		return invalid("quantity", "must be between 0 and 99")
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = qty
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: qty})
	return nil
}

func (c *Cart) Remove(productID string) {
	items := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	c.Items = items
}

func (c Cart) ProductIDs() []string {
	ids := make([]string, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}
	return ids
}

type CartLine struct {
	Product        Product
	Quantity       int
	LineTotalCents int64
}

type CartView struct {
	ID            string
	Lines         []CartLine
	ItemCount     int
	SubtotalCents int64
	UpdatedAt     time.Time
}

// NewCartView prices the cart with the given products.
//
// Lines whose product is missing or inactive are dropped.
func NewCartView(c Cart, products map[string]Product) CartView {
	v := CartView{ID: c.ID, UpdatedAt: c.UpdatedAt, Lines: []CartLine{}}
	for _, it := range c.Items {
		p, ok := products[it.ProductID]
		if !ok || !p.Active {
			continue
		}
		line := CartLine{
			Product:        p,
			Quantity:       it.Quantity,
			LineTotalCents: p.PriceCents * int64(it.Quantity),
		}
		v.Lines = append(v.Lines, line)
		v.ItemCount += it.Quantity
		v.SubtotalCents += line.LineTotalCents
	}
	return v
}
