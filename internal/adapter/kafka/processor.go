package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/choco-shop/pkg/schema"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An orderPlacedCodec used for serde [schema.OrderPlacedV1]
type orderPlacedCodec struct {
	serde Serde
}

func newOrderPlacedCodec(s Serde) orderPlacedCodec {
	return orderPlacedCodec{s}
}

func (c orderPlacedCodec) Encode(v any) ([]byte, error) {
	const op = "orderPlacedCodec.Encode"
	if _, ok := v.(schema.OrderPlacedV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c orderPlacedCodec) Decode(data []byte) (any, error) {
	const op = "orderPlacedCodec.Decode"
	var s schema.OrderPlacedV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// An units is the number of sold units of a product.
type units int64

// An unitsCodec used for serde [units]
type unitsCodec struct{}

func (unitsCodec) Encode(v any) ([]byte, error) {
	const op = "unitsCodec.Encode"
	u, ok := v.(units)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendInt([]byte(nil), int64(u), 10), nil
}

func (unitsCodec) Decode(data []byte) (any, error) {
	const op = "unitsCodec.Decode"
	u, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return units(u), nil
}

// A BestsellersProcessor counts sold units per product.
//
// Placed orders are split into per product loopback messages, the
// loopback callback accumulates them in the group table keyed by
// product id.
type BestsellersProcessor struct {
	opPrefix string
	proc     processor
}

func NewBestsellersProc(
	seedBrokers []string,
	inputStream string,
	group string,
	orderPlacedSerde Serde,
	opts ...goka.ProcessorOption,
) (*BestsellersProcessor, error) {
	const op = "NewBestsellersProcessor"

	p := BestsellersProcessor{opPrefix: "BestsellersProcessor"}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newOrderPlacedCodec(orderPlacedSerde),
			p.splitFn,
		),
		goka.Loop(unitsCodec{}, p.countFn),
		goka.Persist(unitsCodec{}),
	)

	opts = append([]goka.ProcessorOption{withNoLogProcOpt()}, opts...)
	gp, err := goka.NewProcessor(seedBrokers, gg, opts...)
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}
	return &p, nil
}

func (p *BestsellersProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *BestsellersProcessor) Close() {
	p.proc.close()
}

func (p *BestsellersProcessor) splitFn(ctx goka.Context, msg any) {
	const op = "splitFn"

	event, _ := msg.(schema.OrderPlacedV1)
	log := slog.With("op", makeOp(p.opPrefix, op), "orderID", event.OrderID)

	for _, it := range event.Items {
		if it.Quantity <= 0 {
			continue
		}
		ctx.Loopback(it.ProductID, units(it.Quantity))
	}
	log.Debug("order split", "items", len(event.Items))
}

func (p *BestsellersProcessor) countFn(ctx goka.Context, msg any) {
	const op = "countFn"

	sold, _ := msg.(units)
	total, _ := ctx.Value().(units)
	ctx.SetValue(total + sold)

	slog.With("op", makeOp(p.opPrefix, op)).Debug(
		"units counted", "productID", ctx.Key(), "total", total+sold,
	)
}
