package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Dark Chocolate 70%":      "dark-chocolate-70",
		"  Sea-Salt   Caramel  ":  "sea-salt-caramel",
		"Крем-брюле":              "крем-брюле",
		"---":                     "",
		"Hazelnut & Praline Box!": "hazelnut-praline-box",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestProductNormalizeValidate(t *testing.T) {
	p := Product{Name: " Milk Bar ", Category: " Bars ", PriceCents: 450}
	p.Normalize()
	assert.Equal(t, "milk-bar", p.Slug)
	assert.Equal(t, "bars", p.Category)
	require.NoError(t, p.Validate())

	p.PriceCents = 0
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidInput)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price_cents", verr.Field)
}

func TestProductPurchasable(t *testing.T) {
	p := Product{ID: "p1", Stock: 2, Active: true}
	assert.NoError(t, p.Purchasable(2))
	assert.ErrorIs(t, p.Purchasable(3), ErrOutOfStock)

	p.Active = false
	assert.ErrorIs(t, p.Purchasable(1), ErrNotFound)
}

func TestCart(t *testing.T) {
	t.Run("AddMergesAndCaps", func(t *testing.T) {
		var c Cart
		q, err := c.Add("p1", 2)
		require.NoError(t, err)
		assert.Equal(t, 2, q)

		q, err = c.Add("p1", 98)
		require.NoError(t, err)
		assert.Equal(t, MaxItemQuantity, q)
		assert.Len(t, c.Items, 1)
	})

	t.Run("AddRejectsBadQuantity", func(t *testing.T) {
		var c Cart
		_, err := c.Add("p1", 0)
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = c.Add("p1", 100)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("SetZeroRemoves", func(t *testing.T) {
		c := Cart{Items: []CartItem{{"p1", 1}, {"p2", 3}}}
		require.NoError(t, c.Set("p1", 0))
		assert.Equal(t, []CartItem{{"p2", 3}}, c.Items)
		require.NoError(t, c.Set("p2", 5))
		assert.Equal(t, 5, c.Quantity("p2"))
	})

	t.Run("ViewDropsInactive", func(t *testing.T) {
		c := Cart{ID: "c1", Items: []CartItem{{"p1", 2}, {"p2", 1}, {"gone", 1}}}
		products := map[string]Product{
			"p1": {ID: "p1", PriceCents: 300, Active: true},
			"p2": {ID: "p2", PriceCents: 900, Active: false},
		}
		v := NewCartView(c, products)
		require.Len(t, v.Lines, 1)
		assert.Equal(t, int64(600), v.SubtotalCents)
		assert.Equal(t, 2, v.ItemCount)
	})
}

func TestDiscountApply(t *testing.T) {
	now := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	tests := []struct {
		name    string
		code    DiscountCode
		sub     int64
		want    int64
		wantErr bool
	}{
		{"Percent", DiscountCode{Kind: DiscountPercent, Value: 15, Active: true}, 1999, 300, false},
		{"FixedCapped", DiscountCode{Kind: DiscountFixed, Value: 5000, Active: true}, 1200, 1200, false},
		{"Inactive", DiscountCode{Kind: DiscountFixed, Value: 100}, 1200, 0, true},
		{"Expired", DiscountCode{Kind: DiscountFixed, Value: 100, Active: true, ExpiresAt: &past}, 1200, 0, true},
		{"Exhausted", DiscountCode{Kind: DiscountFixed, Value: 100, Active: true, MaxUses: 3, Uses: 3}, 1200, 0, true},
		{"UnlimitedUses", DiscountCode{Kind: DiscountFixed, Value: 100, Active: true, Uses: 1000}, 1200, 100, false},
		{"BelowMinimum", DiscountCode{Kind: DiscountFixed, Value: 100, Active: true, MinSubtotalCents: 2000}, 1200, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.code.Apply(tt.sub, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDiscountRejected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscountValidate(t *testing.T) {
	d := DiscountCode{Code: " love10 ", Kind: "PERCENT", Value: 10}
	d.Normalize()
	assert.Equal(t, "LOVE10", d.Code)
	require.NoError(t, d.Validate())

	d.Value = 101
	assert.ErrorIs(t, d.Validate(), ErrInvalidInput)

	d.Kind = "bogo"
	assert.ErrorIs(t, d.Validate(), ErrInvalidInput)
}

func TestOrderPricing(t *testing.T) {
	o := Order{Items: []OrderItem{
		{UnitPriceCents: 1000, Quantity: 2},
		{UnitPriceCents: 550, Quantity: 1},
	}}
	policy := ShippingPolicy{FlatCents: 490, FreeFromCents: 5000}

	o.PriceItems(250, policy)
	assert.Equal(t, int64(2550), o.SubtotalCents)
	assert.Equal(t, int64(250), o.DiscountCents)
	assert.Equal(t, int64(490), o.ShippingCents)
	assert.Equal(t, int64(2790), o.TotalCents)

	o.Items[0].Quantity = 5
	o.PriceItems(0, policy)
	assert.Equal(t, int64(0), o.ShippingCents)
	assert.Equal(t, int64(5550), o.TotalCents)
}

func TestOrderStatusTransitions(t *testing.T) {
	assert.True(t, OrderPending.CanTransition(OrderPaid))
	assert.True(t, OrderPaid.CanTransition(OrderShipped))
	assert.False(t, OrderShipped.CanTransition(OrderPending))
	assert.False(t, OrderCancelled.CanTransition(OrderPaid))
	assert.False(t, OrderStatus("lost").Valid())
}

func TestOrderNumber(t *testing.T) {
	ts := time.Date(2026, 10, 14, 23, 0, 0, 0, time.UTC)
	got := OrderNumber("3f2a9c1e-0000-4000-8000-000000000000", ts)
	assert.Equal(t, "CHOC-20261014-3F2A9C", got)
}

func TestCustomerValidate(t *testing.T) {
	c := Customer{Name: " Ann ", Email: " ANN@Example.com "}
	c.Normalize()
	require.NoError(t, c.Validate())
	assert.Equal(t, "ann@example.com", c.Email)

	c.Email = "not-an-email"
	assert.ErrorIs(t, c.Validate(), ErrInvalidInput)
}

func TestThemeValidate(t *testing.T) {
	th := DefaultTheme()
	require.NoError(t, th.Validate())

	th.AccentColor = "#FFF"
	th.Normalize()
	require.NoError(t, th.Validate())

	th.PrimaryColor = "brown"
	assert.ErrorIs(t, th.Validate(), ErrInvalidInput)
}

func TestEventRange(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

	r, err := NewEventRange(time.Time{}, time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), r.From)
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), r.To)

	_, err = NewEventRange(now, now.AddDate(2, 0, 0), now)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewEventRange(now, now.Add(-time.Hour), now)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEventValidate(t *testing.T) {
	start := time.Date(2026, 12, 1, 18, 0, 0, 0, time.UTC)
	e := Event{Title: "Truffle workshop", Kind: "Workshop", StartsAt: start, EndsAt: start.Add(2 * time.Hour)}
	e.Normalize()
	require.NoError(t, e.Validate())

	e.EndsAt = start
	assert.ErrorIs(t, e.Validate(), ErrInvalidInput)
}
