package client

import (
	"context"
	"fmt"
	"net/url"

	"toolrent/pkg/model"
)

const bookingsPath = "/api/v1/bookings"

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseUrl string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

// WithToken returns a client that authenticates as the token's subject.
func (c *BookingClient) WithToken(token string) *BookingClient {
	hc := *c.httpClient
	hc.Token = token
	return &BookingClient{httpClient: &hc}
}

func (c *BookingClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, bookingsPath, body)
}

func (c *BookingClient) CreateRaw(ctx context.Context, rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw(ctx, bookingsPath, rawBody)
}

func (c *BookingClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("%s?limit=%d&offset=%d", bookingsPath, limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *BookingClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, bookingsPath+"/id/"+url.PathEscape(id))
}

func (c *BookingClient) Search(ctx context.Context, toolID, userID string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if toolID != "" {
		q.Set("tool_id", toolID)
	}
	if userID != "" {
		q.Set("user_id", userID)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	return c.httpClient.GET(ctx, bookingsPath+"/search?"+q.Encode())
}

func (c *BookingClient) Cancel(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, bookingsPath+"/id/"+url.PathEscape(id))
}

func (c *BookingClient) CancelMatching(ctx context.Context, req model.CancelRequest) (*Response, error) {
	return c.httpClient.POST(ctx, bookingsPath+"/cancel", req)
}

func (c *BookingClient) Availability(ctx context.Context, toolID, startDate, endDate string) (*Response, error) {
	q := url.Values{}
	q.Set("tool_id", toolID)
	q.Set("start_date", startDate)
	q.Set("end_date", endDate)

	return c.httpClient.GET(ctx, bookingsPath+"/availability?"+q.Encode())
}

func (c *BookingClient) BlockedDates(ctx context.Context, toolID, from, to string) (*Response, error) {
	q := url.Values{}
	q.Set("tool_id", toolID)
	if from != "" {
		q.Set("from", from)
	}
	if to != "" {
		q.Set("to", to)
	}

	return c.httpClient.GET(ctx, bookingsPath+"/blocked-dates?"+q.Encode())
}

func (c *BookingClient) DecodeBooking(resp *Response) (*model.Booking, error) {
	var booking model.Booking
	if err := resp.DecodeData(&booking); err != nil {
		return nil, fmt.Errorf("could not decode booking %s: %w", resp, err)
	}
	return &booking, nil
}

func (c *BookingClient) DecodeBookings(resp *Response) ([]*model.Booking, *Metadata, error) {
	var bookings []*model.Booking
	metadata, err := resp.DecodePage(&bookings)
	if err != nil {
		return nil, nil, fmt.Errorf("could not decode booking list %s: %w", resp, err)
	}
	return bookings, metadata, nil
}

func (c *BookingClient) DecodeAvailability(resp *Response) (*model.AvailabilityResult, error) {
	var result model.AvailabilityResult
	if err := resp.DecodeData(&result); err != nil {
		return nil, fmt.Errorf("could not decode availability %s: %w", resp, err)
	}
	return &result, nil
}

func (c *BookingClient) DecodeBlockedDates(resp *Response) (*model.BlockedDates, error) {
	var blocked model.BlockedDates
	if err := resp.DecodeData(&blocked); err != nil {
		return nil, fmt.Errorf("could not decode blocked dates %s: %w", resp, err)
	}
	return &blocked, nil
}
