package payments

import (
	"context"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/refund"
	"go.uber.org/zap"
)

// RefundSignaler emits the refund intent for a cancelled paid
// consultation. Refund execution and reconciliation live elsewhere; the
// engine only signals.
type RefundSignaler interface {
	SignalRefund(ctx context.Context, consultationID, paymentID string, amount float64) error
}

// MercadoPagoSignaler forwards the intent to Mercado Pago.
type MercadoPagoSignaler struct {
	client refund.Client
	log    *zap.Logger
}

func NewMercadoPagoSignaler(accessToken string, log *zap.Logger) (*MercadoPagoSignaler, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, err
	}
	return &MercadoPagoSignaler{
		client: refund.NewClient(cfg),
		log:    log,
	}, nil
}

func (s *MercadoPagoSignaler) SignalRefund(
	ctx context.Context,
	consultationID string,
	paymentID string,
	amount float64,
) error {

	paymentIDInt, err := strconv.Atoi(paymentID)
	if err != nil {
		return err
	}

	res, err := s.client.CreatePartialRefund(ctx, paymentIDInt, amount)
	if err != nil {
		return err
	}

	s.log.Info("refund intent signaled",
		zap.String("consultation_id", consultationID),
		zap.String("payment_id", paymentID),
		zap.Float64("amount", amount),
		zap.Int("refund_id", res.ID),
	)
	return nil
}

// NoopSignaler is used when no payment credentials are configured.
type NoopSignaler struct {
	log *zap.Logger
}

func NewNoopSignaler(log *zap.Logger) *NoopSignaler {
	return &NoopSignaler{log: log}
}

func (s *NoopSignaler) SignalRefund(
	ctx context.Context,
	consultationID string,
	paymentID string,
	amount float64,
) error {
	s.log.Info("refund intent (no gateway configured)",
		zap.String("consultation_id", consultationID),
		zap.Float64("amount", amount),
	)
	return nil
}

var (
	_ RefundSignaler = (*MercadoPagoSignaler)(nil)
	_ RefundSignaler = (*NoopSignaler)(nil)
)
