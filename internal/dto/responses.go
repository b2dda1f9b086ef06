package dto

import "time"

type RateVersionResponse struct {
	Version                 string    `json:"version"`
	EffectiveFrom           time.Time `json:"effective_from"`
	ServiceFeeRate          string    `json:"service_fee_rate"`
	FoodVATRate             string    `json:"food_vat_rate"`
	PlatformCommissionRate  string    `json:"platform_commission_rate"`
	PlatformServicesVATRate string    `json:"platform_services_vat_rate"`
}

type RateVersionsResponse struct {
	Data []RateVersionResponse `json:"data"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
