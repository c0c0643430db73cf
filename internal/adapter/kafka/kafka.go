package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lovoo/goka"
	"github.com/niksmo/choco-shop/internal/core/domain"
	"github.com/niksmo/choco-shop/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl          ProducerClient
	placedTopic string
	paidTopic   string
	placedEnc   Encoder
	paidEnc     Encoder
}

// ProducerClientOpt connects to the brokers. A nil tlsConfig
// means plaintext.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, tlsConfig *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		}
		if tlsConfig != nil {
			kopts = append(kopts, kgo.DialTLSConfig(tlsConfig))
		}

		cl, err := kgo.NewClient(kopts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerTopicsOpt sets the topic and the encoder of each event.
func ProducerTopicsOpt(
	placedTopic string, placedEnc Encoder, paidTopic string, paidEnc Encoder,
) ProducerOpt {
	return func(opts *producerOpts) error {
		if placedTopic == "" || paidTopic == "" {
			return errors.New("topic is empty string")
		}
		if placedEnc == nil || paidEnc == nil {
			return errors.New("encoder is nil")
		}
		opts.placedTopic, opts.placedEnc = placedTopic, placedEnc
		opts.paidTopic, opts.paidEnc = paidTopic, paidEnc
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

// UseTLS makes goka processors and views dial the brokers over tls.
// It replaces the goka global config, so call it before creating them.
func UseTLS(tlsConfig *tls.Config) {
	cfg := goka.DefaultConfig()
	cfg.Net.TLS.Enable = true
	cfg.Net.TLS.Config = tlsConfig
	goka.ReplaceGlobalConfig(cfg)
}

func withNoLogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func withNoLogViewOpt() goka.ViewOption {
	return goka.WithViewLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func orderPlacedToSchemaV1(v domain.OrderPlacedEvent) (s schema.OrderPlacedV1) {
	s.OrderID = v.OrderID
	s.TotalCents = v.TotalCents
	s.Currency = v.Currency
	s.PlacedAt = v.PlacedAt.UTC()

	s.Items = make([]schema.OrderItemV1, len(v.Items))
	for i, it := range v.Items {
		s.Items[i].ProductID = it.ProductID
		s.Items[i].Name = it.Name
		s.Items[i].UnitPriceCents = it.UnitPriceCents
		s.Items[i].Quantity = it.Quantity
	}
	return
}

func orderPaidToSchemaV1(v domain.OrderPaidEvent) (s schema.OrderPaidV1) {
	s.OrderID = v.OrderID
	s.TotalCents = v.TotalCents
	s.Currency = v.Currency
	s.PaidAt = v.PaidAt.UTC()
	return
}
