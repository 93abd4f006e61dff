package upswap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the upswap marketplace API: the deal publish call used by
// the publishing agent, and the vendor/activity listings used by the
// sourcing agent.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// --------------------------------------------------
// PUBLISH
// --------------------------------------------------

// CreateDealRequest is the wire payload of the publish call.
type CreateDealRequest struct {
	DealTitle       string   `json:"deal_title"`
	DealDescription string   `json:"deal_description"`
	SelectService   string   `json:"select_service"`
	UploadedImages  []string `json:"uploaded_images"`
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	StartNow        string   `json:"start_now"`
	ActualPrice     string   `json:"actual_price"`
	DealPrice       string   `json:"deal_price"`
	AvailableDeals  string   `json:"available_deals"`
	VendorKYC       string   `json:"vendor_kyc"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
}

// CreateDeal posts the deal and returns the raw response body verbatim for
// audit. Once the request has been sent the deal may exist on the remote
// side regardless of what comes back, which is why callers must never retry.
func (c *Client) CreateDeal(ctx context.Context, req CreateDealRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/create-deal/hackathon/",
		bytes.NewBuffer(body),
	)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return raw, fmt.Errorf("create-deal failed with status %d: %s", resp.StatusCode, raw)
	}
	return raw, nil
}

// --------------------------------------------------
// SOURCING LISTINGS
// --------------------------------------------------

type Vendor struct {
	VendorID  string  `json:"vendor_id"`
	Name      string  `json:"full_name"`
	Latitude  float64 `json:"latitude,string"`
	Longitude float64 `json:"longitude,string"`
}

type Activity struct {
	ActivityID string         `json:"activity_id"`
	Title      string         `json:"activity_title"`
	Location   string         `json:"location"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date"`
	Latitude   float64        `json:"latitude,string"`
	Longitude  float64        `json:"longitude,string"`
	Category   map[string]any `json:"activity_category"`
}

func (c *Client) ListVendors(ctx context.Context) ([]Vendor, error) {
	var out struct {
		Vendors []Vendor `json:"vendors"`
	}
	if err := c.getJSON(ctx, "/vendor/lists/", &out); err != nil {
		return nil, err
	}
	return out.Vendors, nil
}

func (c *Client) ListActivities(ctx context.Context) ([]Activity, error) {
	var out []Activity
	if err := c.getJSON(ctx, "/activities/lists/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s failed with status %d: %s", path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
