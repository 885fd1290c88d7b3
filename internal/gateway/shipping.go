package gateway

import "context"

type Province struct {
	ID   string `json:"province_id"`
	Name string `json:"province"`
}

type City struct {
	ID         string `json:"city_id"`
	ProvinceID string `json:"province_id"`
	Name       string `json:"city_name"`
	PostalCode string `json:"postal_code"`
}

type Area struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PostalCode string `json:"postal_code"`
}

// CostQuote is one courier service option with its price and estimated
// delivery time.
type CostQuote struct {
	Courier     string `json:"courier"`
	Service     string `json:"service"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	ETD         string `json:"etd"`
}

type LabelRequest struct {
	OrderRef       string
	OriginCityID   string
	DestinationID  string
	RecipientName  string
	RecipientPhone string
	Address        string
	Courier        string
	Service        string
	WeightGrams    int64
}

type LabelResult struct {
	TrackingNumber string
}

// ShippingGateway is the outbound logistics boundary: area lookups, cost
// quotes and waybill (resi) generation.
type ShippingGateway interface {
	GetProvinces(ctx context.Context) ([]Province, error)
	GetCities(ctx context.Context, provinceID string) ([]City, error)
	SearchArea(ctx context.Context, query string) ([]Area, error)
	GetCost(ctx context.Context, originCityID string, destinationID string, weightGrams int64, courier string) ([]CostQuote, error)
	GenerateLabel(ctx context.Context, req LabelRequest) (LabelResult, error)
}
