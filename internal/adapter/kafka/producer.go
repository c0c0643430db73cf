package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.OrderEventsProducer = (*OrderEventsProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// An OrderEventsProducer publishes order lifecycle events keyed by order id.
type OrderEventsProducer struct {
	producer    producer
	placedTopic string
	paidTopic   string
	placedEnc   Encoder
	paidEnc     Encoder
	opPrefix    string
}

// NewOrderEventsProducer expects [ProducerClientOpt] and [ProducerTopicsOpt].
func NewOrderEventsProducer(
	opts ...ProducerOpt,
) (OrderEventsProducer, error) {
	const op = "NewOrderEventsProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return OrderEventsProducer{}, opErr(err, op)
		}
	}

	opPrefix := "OrderEventsProducer"
	return OrderEventsProducer{
		producer: producer{
			opPrefix: opPrefix,
			cl:       options.cl,
		},
		placedTopic: options.placedTopic,
		paidTopic:   options.paidTopic,
		placedEnc:   options.placedEnc,
		paidEnc:     options.paidEnc,
		opPrefix:    opPrefix,
	}, nil
}

func (p OrderEventsProducer) Close() {
	p.producer.close()
}

func (p OrderEventsProducer) ProduceOrderPlaced(
	ctx context.Context, evt domain.OrderPlacedEvent,
) error {
	const op = "ProduceOrderPlaced"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(
		p.placedTopic, p.placedEnc, evt.OrderID, orderPlacedToSchemaV1(evt),
	)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p OrderEventsProducer) ProduceOrderPaid(
	ctx context.Context, evt domain.OrderPaidEvent,
) error {
	const op = "ProduceOrderPaid"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(
		p.paidTopic, p.paidEnc, evt.OrderID, orderPaidToSchemaV1(evt),
	)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

func (p OrderEventsProducer) createRecord(
	topic string, enc Encoder, key string, v any,
) (*kgo.Record, error) {
	const op = "createRecord"

	b, err := enc.Encode(v)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Topic: topic, Key: []byte(key), Value: b}, nil
}
