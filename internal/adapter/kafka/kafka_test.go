package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/tester"
	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

// jsonSerde stands in for the schema registry serde.
type jsonSerde struct{}

func (jsonSerde) Encode(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonSerde) Decode(b []byte, v any) error { return json.Unmarshal(b, v) }

type MockProducerClient struct {
	mock.Mock
}

func (m *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (m *MockProducerClient) Close() {
	m.Called()
}

func clientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		opts.cl = cl
		return nil
	}
}

var placedAt = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func placedEvent() domain.OrderPlacedEvent {
	return domain.OrderPlacedEvent{
		OrderID: "o1",
		Items: []domain.OrderItem{
			{ProductID: "p1", Name: "Truffles", UnitPriceCents: 1500, Quantity: 2},
		},
		TotalCents: 3500,
		Currency:   "EUR",
		PlacedAt:   placedAt,
	}
}

func TestOrderEventsProducer(t *testing.T) {
	newProducer := func(t *testing.T) (OrderEventsProducer, *MockProducerClient) {
		cl := &MockProducerClient{}
		p, err := NewOrderEventsProducer(
			clientOpt(cl),
			ProducerTopicsOpt("orders-placed", jsonSerde{}, "orders-paid", jsonSerde{}),
		)
		require.NoError(t, err)
		return p, cl
	}

	t.Run("Placed", func(t *testing.T) {
		p, cl := newProducer(t)

		var sent []*kgo.Record
		cl.On("ProduceSync", t.Context(), mock.Anything).
			Run(func(args mock.Arguments) {
				sent = args.Get(1).([]*kgo.Record)
			}).
			Return(kgo.ProduceResults{}).Once()

		require.NoError(t, p.ProduceOrderPlaced(t.Context(), placedEvent()))
		require.Len(t, sent, 1)
		assert.Equal(t, "orders-placed", sent[0].Topic)
		assert.Equal(t, []byte("o1"), sent[0].Key)

		var got schema.OrderPlacedV1
		require.NoError(t, json.Unmarshal(sent[0].Value, &got))
		assert.Equal(t, orderPlacedToSchemaV1(placedEvent()), got)
	})

	t.Run("Paid", func(t *testing.T) {
		p, cl := newProducer(t)

		var sent []*kgo.Record
		cl.On("ProduceSync", t.Context(), mock.Anything).
			Run(func(args mock.Arguments) {
				sent = args.Get(1).([]*kgo.Record)
			}).
			Return(kgo.ProduceResults{}).Once()

		evt := domain.OrderPaidEvent{
			OrderID: "o1", TotalCents: 3500, Currency: "EUR", PaidAt: placedAt,
		}
		require.NoError(t, p.ProduceOrderPaid(t.Context(), evt))
		require.Len(t, sent, 1)
		assert.Equal(t, "orders-paid", sent[0].Topic)
	})

	t.Run("BrokerError", func(t *testing.T) {
		p, cl := newProducer(t)

		boom := errors.New("not enough replicas")
		cl.On("ProduceSync", t.Context(), mock.Anything).
			Return(kgo.ProduceResults{{Err: boom}}).Once()

		err := p.ProduceOrderPlaced(t.Context(), placedEvent())
		require.ErrorIs(t, err, boom)
	})

	t.Run("Close", func(t *testing.T) {
		p, cl := newProducer(t)
		cl.On("Close").Once()
		p.Close()
		cl.AssertExpectations(t)
	})

	t.Run("MissingOpts", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewOrderEventsProducer(clientOpt(&MockProducerClient{}))
		})
	})

	t.Run("EmptyTopic", func(t *testing.T) {
		_, err := NewOrderEventsProducer(
			clientOpt(&MockProducerClient{}),
			ProducerTopicsOpt("", jsonSerde{}, "orders-paid", jsonSerde{}),
		)
		require.Error(t, err)
	})
}

func TestUnitsCodec(t *testing.T) {
	var c unitsCodec

	b, err := c.Encode(units(42))
	require.NoError(t, err)
	assert.Equal(t, []byte("42"), b)

	v, err := c.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, units(42), v)

	_, err = c.Encode(int64(42))
	require.ErrorIs(t, err, ErrInvalidValueType)

	_, err = c.Decode([]byte("many"))
	require.Error(t, err)
}

func TestOrderPlacedCodec(t *testing.T) {
	c := newOrderPlacedCodec(jsonSerde{})

	s := orderPlacedToSchemaV1(placedEvent())
	b, err := c.Encode(s)
	require.NoError(t, err)

	v, err := c.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, s, v)

	_, err = c.Encode(placedEvent())
	require.ErrorIs(t, err, ErrInvalidValueType)
}

func TestBestsellersProcessor(t *testing.T) {
	gkt := tester.New(t)

	p, err := NewBestsellersProc(
		nil, "orders-placed", "bestsellers", jsonSerde{},
		goka.WithTester(gkt),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	var wg sync.WaitGroup
	wg.Add(1)
	go p.Run(ctx, cancel, &wg)
	wg.Wait()
	defer cancel()

	first := schema.OrderPlacedV1{
		OrderID: "o1",
		Items: []schema.OrderItemV1{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	}
	second := schema.OrderPlacedV1{
		OrderID: "o2",
		Items:   []schema.OrderItemV1{{ProductID: "p1", Quantity: 3}},
	}
	gkt.Consume("orders-placed", first.OrderID, first)
	gkt.Consume("orders-placed", second.OrderID, second)

	table := goka.GroupTable(goka.Group("bestsellers"))
	assert.Equal(t, units(5), gkt.TableValue(table, "p1"))
	assert.Equal(t, units(1), gkt.TableValue(table, "p2"))
	assert.Nil(t, gkt.TableValue(table, "o1"))
}

// fakeIterator walks a sorted snapshot of a table.
type fakeIterator struct {
	keys   []string
	values map[string]any
	pos    int
	err    error
}

func newFakeIterator(values map[string]any) *fakeIterator {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &fakeIterator{keys: keys, values: values, pos: -1}
}

func (it *fakeIterator) Next() bool {
	it.pos++
	return it.pos < len(it.keys)
}

func (it *fakeIterator) Err() error       { return it.err }
func (it *fakeIterator) Key() string      { return it.keys[it.pos] }
func (it *fakeIterator) Release()         {}
func (it *fakeIterator) Seek(string) bool { return false }

func (it *fakeIterator) Value() (any, error) {
	return it.values[it.Key()], nil
}

type fakeTable struct {
	it  goka.Iterator
	err error
}

func (t fakeTable) Iterator() (goka.Iterator, error) { return t.it, t.err }

func TestSalesViewProductSales(t *testing.T) {
	t.Run("Iterates", func(t *testing.T) {
		v := SalesView{table: fakeTable{it: newFakeIterator(map[string]any{
			"p1": units(5), "p2": units(1),
		})}}

		got, err := v.ProductSales(t.Context())
		require.NoError(t, err)
		assert.Equal(t, []domain.ProductSales{
			{ProductID: "p1", UnitsSold: 5},
			{ProductID: "p2", UnitsSold: 1},
		}, got)
	})

	t.Run("UnexpectedValue", func(t *testing.T) {
		v := SalesView{table: fakeTable{it: newFakeIterator(map[string]any{
			"p1": "five",
		})}}

		_, err := v.ProductSales(t.Context())
		require.ErrorIs(t, err, ErrInvalidValueType)
	})

	t.Run("NotReady", func(t *testing.T) {
		boom := errors.New("view is not running")
		v := SalesView{table: fakeTable{err: boom}}

		_, err := v.ProductSales(t.Context())
		require.ErrorIs(t, err, boom)
	})
}
