package client

import (
	"context"
	"fmt"
	"net/url"

	"toolrent/pkg/model"
)

const toolsPath = "/api/v1/tools"

type ToolClient struct {
	httpClient *HttpClient
}

func NewToolClient(baseUrl string) *ToolClient {
	return &ToolClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *ToolClient) WithToken(token string) *ToolClient {
	hc := *c.httpClient
	hc.Token = token
	return &ToolClient{httpClient: &hc}
}

func (c *ToolClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, toolsPath, body)
}

func (c *ToolClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("%s?limit=%d&offset=%d", toolsPath, limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *ToolClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, toolsPath+"/id/"+url.PathEscape(id))
}

func (c *ToolClient) Search(ctx context.Context, city, category string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	if city != "" {
		q.Set("city", city)
	}
	if category != "" {
		q.Set("category", category)
	}
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	return c.httpClient.GET(ctx, toolsPath+"/search?"+q.Encode())
}

func (c *ToolClient) Update(ctx context.Context, id string, body any) (*Response, error) {
	return c.httpClient.PATCH(ctx, toolsPath+"/id/"+url.PathEscape(id), body)
}

func (c *ToolClient) Delete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, toolsPath+"/id/"+url.PathEscape(id))
}

func (c *ToolClient) DecodeTool(resp *Response) (*model.Tool, error) {
	var tool model.Tool
	if err := resp.DecodeData(&tool); err != nil {
		return nil, fmt.Errorf("could not decode tool %s: %w", resp, err)
	}
	return &tool, nil
}

func (c *ToolClient) DecodeTools(resp *Response) ([]*model.Tool, *Metadata, error) {
	var tools []*model.Tool
	metadata, err := resp.DecodePage(&tools)
	if err != nil {
		return nil, nil, fmt.Errorf("could not decode tool list %s: %w", resp, err)
	}
	return tools, metadata, nil
}
