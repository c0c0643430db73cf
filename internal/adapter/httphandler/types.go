package httphandler

import (
	"time"

	"github.com/niksmo/choco-shop/internal/core/domain"
)

type (
	Product struct {
		ID              string    `json:"id"`
		Slug            string    `json:"slug"`
		Name            string    `json:"name"`
		Description     string    `json:"description"`
		DescriptionHTML string    `json:"description_html"`
		Category        string    `json:"category"`
		PriceCents      int64     `json:"price_cents"`
		Currency        string    `json:"currency"`
		Stock           int       `json:"stock"`
		ImageURL        string    `json:"image_url"`
		Featured        bool      `json:"featured"`
		Active          bool      `json:"active"`
		CreatedAt       time.Time `json:"created_at"`
		UpdatedAt       time.Time `json:"updated_at"`
	}

	// ProductInput is the admin create and update body.
	// Missing active means active.
	ProductInput struct {
		Slug        string `json:"slug"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		PriceCents  int64  `json:"price_cents"`
		Stock       int    `json:"stock"`
		ImageURL    string `json:"image_url"`
		Featured    bool   `json:"featured"`
		Active      *bool  `json:"active"`
	}

	Bestseller struct {
		Product   Product `json:"product"`
		UnitsSold int64   `json:"units_sold"`
	}
)

type (
	Cart struct {
		ID            string     `json:"id"`
		Lines         []CartLine `json:"lines"`
		ItemCount     int        `json:"item_count"`
		SubtotalCents int64      `json:"subtotal_cents"`
		Currency      string     `json:"currency"`
		UpdatedAt     time.Time  `json:"updated_at"`
	}

	CartLine struct {
		Product        Product `json:"product"`
		Quantity       int     `json:"quantity"`
		LineTotalCents int64   `json:"line_total_cents"`
	}

	AddItemRequest struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}

	SetQuantityRequest struct {
		Quantity int `json:"quantity"`
	}
)

type (
	Discount struct {
		Code             string     `json:"code"`
		Kind             string     `json:"kind"`
		Value            int64      `json:"value"`
		MinSubtotalCents int64      `json:"min_subtotal_cents"`
		MaxUses          int        `json:"max_uses"`
		Uses             int        `json:"uses"`
		ExpiresAt        *time.Time `json:"expires_at"`
		Active           bool       `json:"active"`
		CreatedAt        time.Time  `json:"created_at"`
	}

	DiscountInput struct {
		Code             string     `json:"code"`
		Kind             string     `json:"kind"`
		Value            int64      `json:"value"`
		MinSubtotalCents int64      `json:"min_subtotal_cents"`
		MaxUses          int        `json:"max_uses"`
		ExpiresAt        *time.Time `json:"expires_at"`
		Active           *bool      `json:"active"`
	}

	ValidateDiscountRequest struct {
		Code          string `json:"code"`
		SubtotalCents int64  `json:"subtotal_cents"`
	}

	ValidateDiscountResponse struct {
		Code          string `json:"code"`
		DiscountCents int64  `json:"discount_cents"`
	}
)

type (
	Customer struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Address string `json:"address"`
	}

	PlaceOrderRequest struct {
		CartID       string   `json:"cart_id"`
		Customer     Customer `json:"customer"`
		DiscountCode string   `json:"discount_code"`
	}

	OrderItem struct {
		ProductID      string `json:"product_id"`
		Name           string `json:"name"`
		UnitPriceCents int64  `json:"unit_price_cents"`
		Quantity       int    `json:"quantity"`
		TotalCents     int64  `json:"total_cents"`
	}

	Order struct {
		ID            string      `json:"id"`
		Number        string      `json:"number"`
		Status        string      `json:"status"`
		Customer      Customer    `json:"customer"`
		Items         []OrderItem `json:"items"`
		SubtotalCents int64       `json:"subtotal_cents"`
		DiscountCode  string      `json:"discount_code,omitempty"`
		DiscountCents int64       `json:"discount_cents"`
		ShippingCents int64       `json:"shipping_cents"`
		TotalCents    int64       `json:"total_cents"`
		Currency      string      `json:"currency"`
		PaymentURL    string      `json:"payment_url,omitempty"`
		CreatedAt     time.Time   `json:"created_at"`
		UpdatedAt     time.Time   `json:"updated_at"`
	}

	UpdateStatusRequest struct {
		Status string `json:"status"`
	}

	PaymentReturnRequest struct {
		SessionID string `json:"session_id"`
	}

	MockSettleRequest struct {
		Outcome string `json:"outcome"`
	}
)

type (
	Theme struct {
		PrimaryColor    string `json:"primary_color"`
		AccentColor     string `json:"accent_color"`
		BackgroundColor string `json:"background_color"`
		FontFamily      string `json:"font_family"`
		LogoURL         string `json:"logo_url"`
		BannerText      string `json:"banner_text"`
		DarkMode        bool   `json:"dark_mode"`
	}

	Event struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Kind        string    `json:"kind"`
		StartsAt    time.Time `json:"starts_at"`
		EndsAt      time.Time `json:"ends_at"`
		Location    string    `json:"location"`
	}
)

func productFromDomain(p domain.Product, currency string) Product {
	return Product{
		ID:              p.ID,
		Slug:            p.Slug,
		Name:            p.Name,
		Description:     p.Description,
		DescriptionHTML: p.DescriptionHTML,
		Category:        p.Category,
		PriceCents:      p.PriceCents,
		Currency:        currency,
		Stock:           p.Stock,
		ImageURL:        p.ImageURL,
		Featured:        p.Featured,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func productsFromDomain(ps []domain.Product, currency string) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = productFromDomain(p, currency)
	}
	return out
}

func (in ProductInput) toDomain(id string) domain.Product {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return domain.Product{
		ID:          id,
		Slug:        in.Slug,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
		Featured:    in.Featured,
		Active:      active,
	}
}

func cartFromDomain(v domain.CartView, currency string) Cart {
	c := Cart{
		ID:            v.ID,
		Lines:         make([]CartLine, len(v.Lines)),
		ItemCount:     v.ItemCount,
		SubtotalCents: v.SubtotalCents,
		Currency:      currency,
		UpdatedAt:     v.UpdatedAt,
	}
	for i, l := range v.Lines {
		c.Lines[i] = CartLine{
			Product:        productFromDomain(l.Product, currency),
			Quantity:       l.Quantity,
			LineTotalCents: l.LineTotalCents,
		}
	}
	return c
}

func discountFromDomain(d domain.DiscountCode) Discount {
	return Discount{
		Code:             d.Code,
		Kind:             string(d.Kind),
		Value:            d.Value,
		MinSubtotalCents: d.MinSubtotalCents,
		MaxUses:          d.MaxUses,
		Uses:             d.Uses,
		ExpiresAt:        d.ExpiresAt,
		Active:           d.Active,
		CreatedAt:        d.CreatedAt,
	}
}

func (in DiscountInput) toDomain(code string) domain.DiscountCode {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	if code == "" {
		code = in.Code
	}
	return domain.DiscountCode{
		Code:             code,
		Kind:             domain.DiscountKind(in.Kind),
		Value:            in.Value,
		MinSubtotalCents: in.MinSubtotalCents,
		MaxUses:          in.MaxUses,
		ExpiresAt:        in.ExpiresAt,
		Active:           active,
	}
}

func (c Customer) toDomain() domain.Customer {
	return domain.Customer(c)
}

func orderFromDomain(o domain.Order) Order {
	out := Order{
		ID:            o.ID,
		Number:        o.Number,
		Status:        string(o.Status),
		Customer:      Customer(o.Customer),
		Items:         make([]OrderItem, len(o.Items)),
		SubtotalCents: o.SubtotalCents,
		DiscountCode:  o.DiscountCode,
		DiscountCents: o.DiscountCents,
		ShippingCents: o.ShippingCents,
		TotalCents:    o.TotalCents,
		Currency:      o.Currency,
		PaymentURL:    o.PaymentURL,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	for i, it := range o.Items {
		out.Items[i] = OrderItem{
			ProductID:      it.ProductID,
			Name:           it.Name,
			UnitPriceCents: it.UnitPriceCents,
			Quantity:       it.Quantity,
			TotalCents:     it.TotalCents(),
		}
	}
	return out
}

func themeFromDomain(t domain.Theme) Theme {
	return Theme(t)
}

func (t Theme) toDomain() domain.Theme {
	return domain.Theme(t)
}

func eventFromDomain(e domain.Event) Event {
	return Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Kind:        string(e.Kind),
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Location:    e.Location,
	}
}

func (e Event) toDomain(id string) domain.Event {
	return domain.Event{
		ID:          id,
		Title:       e.Title,
		Description: e.Description,
		Kind:        domain.EventKind(e.Kind),
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		Location:    e.Location,
	}
}
