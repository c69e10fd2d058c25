package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	ucPayment "github.com/BruksfildServices01/court-scheduler/internal/usecase/payment"
)

// MercadoPago looks payments up through the Mercado Pago API.
type MercadoPago struct {
	client payment.Client
}

func NewMercadoPago(accessToken string) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPago{client: payment.NewClient(cfg)}, nil
}

func (m *MercadoPago) Lookup(ctx context.Context, paymentID string) (*ucPayment.ProviderPayment, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return nil, fmt.Errorf("invalid mercadopago payment id %q", paymentID)
	}

	res, err := m.client.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("mercadopago get payment %d: %w", id, err)
	}

	return &ucPayment.ProviderPayment{
		ID:                strconv.Itoa(res.ID),
		Status:            res.Status,
		ExternalReference: res.ExternalReference,
		Amount:            res.TransactionAmount,
	}, nil
}

var _ ucPayment.Gateway = (*MercadoPago)(nil)
