package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tokonada/internal/gateway"
)

// RajaOngkirClient covers the area/cost lookups plus waybill generation the
// storefront needs. Label generation goes through the same API key.
type RajaOngkirClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewRajaOngkirClient(baseURL string, apiKey string) *RajaOngkirClient {
	return &RajaOngkirClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *RajaOngkirClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", gateway.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: rajaongkir returned %d", gateway.ErrGateway, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", gateway.ErrGateway, err)
	}
	return nil
}

func (c *RajaOngkirClient) GetProvinces(ctx context.Context) ([]gateway.Province, error) {
	var out struct {
		RajaOngkir struct {
			Results []gateway.Province `json:"results"`
		} `json:"rajaongkir"`
	}
	if err := c.get(ctx, "/province", nil, &out); err != nil {
		return nil, err
	}
	return out.RajaOngkir.Results, nil
}

func (c *RajaOngkirClient) GetCities(ctx context.Context, provinceID string) ([]gateway.City, error) {
	q := url.Values{}
	if provinceID != "" {
		q.Set("province", provinceID)
	}

	var out struct {
		RajaOngkir struct {
			Results []gateway.City `json:"results"`
		} `json:"rajaongkir"`
	}
	if err := c.get(ctx, "/city", q, &out); err != nil {
		return nil, err
	}
	return out.RajaOngkir.Results, nil
}

func (c *RajaOngkirClient) SearchArea(ctx context.Context, query string) ([]gateway.Area, error) {
	q := url.Values{}
	q.Set("search", query)

	var out struct {
		Areas []gateway.Area `json:"areas"`
	}
	if err := c.get(ctx, "/area", q, &out); err != nil {
		return nil, err
	}
	return out.Areas, nil
}

func (c *RajaOngkirClient) GetCost(ctx context.Context, originCityID string, destinationID string, weightGrams int64, courier string) ([]gateway.CostQuote, error) {
	form := url.Values{}
	form.Set("origin", originCityID)
	form.Set("destination", destinationID)
	form.Set("weight", strconv.FormatInt(weightGrams, 10))
	form.Set("courier", courier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cost", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("key", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: rajaongkir returned %d", gateway.ErrGateway, resp.StatusCode)
	}

	var out struct {
		RajaOngkir struct {
			Results []struct {
				Code  string `json:"code"`
				Costs []struct {
					Service     string `json:"service"`
					Description string `json:"description"`
					Cost        []struct {
						Value int64  `json:"value"`
						ETD   string `json:"etd"`
					} `json:"cost"`
				} `json:"costs"`
			} `json:"results"`
		} `json:"rajaongkir"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrGateway, err)
	}

	quotes := []gateway.CostQuote{}
	for _, r := range out.RajaOngkir.Results {
		for _, svc := range r.Costs {
			if len(svc.Cost) == 0 {
				continue
			}
			quotes = append(quotes, gateway.CostQuote{
				Courier:     r.Code,
				Service:     svc.Service,
				Description: svc.Description,
				Cost:        svc.Cost[0].Value,
				ETD:         svc.Cost[0].ETD,
			})
		}
	}
	return quotes, nil
}

func (c *RajaOngkirClient) GenerateLabel(ctx context.Context, in gateway.LabelRequest) (gateway.LabelResult, error) {
	form := url.Values{}
	form.Set("order_ref", in.OrderRef)
	form.Set("origin", in.OriginCityID)
	form.Set("destination", in.DestinationID)
	form.Set("recipient_name", in.RecipientName)
	form.Set("recipient_phone", in.RecipientPhone)
	form.Set("address", in.Address)
	form.Set("courier", in.Courier)
	form.Set("service", in.Service)
	form.Set("weight", strconv.FormatInt(in.WeightGrams, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/waybill/generate", strings.NewReader(form.Encode()))
	if err != nil {
		return gateway.LabelResult{}, err
	}
	req.Header.Set("key", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return gateway.LabelResult{}, fmt.Errorf("%w: %v", gateway.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return gateway.LabelResult{}, fmt.Errorf("%w: rajaongkir returned %d", gateway.ErrGateway, resp.StatusCode)
	}

	var out struct {
		Waybill string `json:"waybill"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return gateway.LabelResult{}, fmt.Errorf("%w: %v", gateway.ErrGateway, err)
	}
	if out.Waybill == "" {
		return gateway.LabelResult{}, fmt.Errorf("%w: empty waybill", gateway.ErrGateway)
	}

	return gateway.LabelResult{TrackingNumber: out.Waybill}, nil
}
