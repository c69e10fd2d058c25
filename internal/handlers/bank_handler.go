package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/infra/banks"
)

type BankDirectory interface {
	Banks(ctx context.Context) ([]banks.Bank, error)
}

// BankHandler lists the banks an owner can pick for transfer payouts.
type BankHandler struct {
	directory BankDirectory
}

func NewBankHandler(directory BankDirectory) *BankHandler {
	return &BankHandler{directory: directory}
}

func (h *BankHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := h.directory.Banks(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("bank list unavailable")
		httperr.Unavailable(c, "banks_unavailable", "The bank list is temporarily unavailable.")
		return
	}

	httpresp.OK(c, gin.H{"banks": list})
}
