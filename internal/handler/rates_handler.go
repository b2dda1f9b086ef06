package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/commission-allocation-engine/internal/dto"
	"github.com/anyulbade/commission-allocation-engine/internal/service"
)

type RatesHandler struct {
	svc *service.ReportService
}

func NewRatesHandler(svc *service.ReportService) *RatesHandler {
	return &RatesHandler{svc: svc}
}

func (h *RatesHandler) List(c *gin.Context) {
	versions := h.svc.RateVersions()

	resp := dto.RateVersionsResponse{Data: make([]dto.RateVersionResponse, 0, len(versions))}
	for _, v := range versions {
		resp.Data = append(resp.Data, dto.RateVersionResponse{
			Version:                 v.Version,
			EffectiveFrom:           v.EffectiveFrom,
			ServiceFeeRate:          v.ServiceFeeRate.String(),
			FoodVATRate:             v.FoodVATRate.String(),
			PlatformCommissionRate:  v.PlatformCommissionRate.String(),
			PlatformServicesVATRate: v.PlatformServicesVATRate.String(),
		})
	}

	c.JSON(http.StatusOK, resp)
}
