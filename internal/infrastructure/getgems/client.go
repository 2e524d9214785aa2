package getgems

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	DefaultBaseURL = "https://api.getgems.io/public-api"
	pageLimit      = 100
	maxPages       = 50
)

// Client — клиент публичного API getgems. Авторизация и логирование
// навешиваются транспортом http.Client.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// NftsOnSale возвращает все выставленные на продажу NFT коллекции.
func (c *Client) NftsOnSale(ctx context.Context, collectionAddress string) ([]NftOnSale, error) {
	return paginate[NftOnSale](ctx, c, "/v1/nfts/on-sale/"+url.PathEscape(collectionAddress))
}

// GiftCollections возвращает коллекции подарков Telegram.
func (c *Client) GiftCollections(ctx context.Context) ([]Collection, error) {
	return paginate[Collection](ctx, c, "/v1/gifts/collections")
}

func paginate[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var (
		items  []T
		cursor string
	)

	for range maxPages {
		page, err := get[T](ctx, c, path, cursor)
		if err != nil {
			return nil, err
		}

		items = append(items, page.Response.Items...)

		if page.Response.Cursor == nil || *page.Response.Cursor == "" || len(page.Response.Items) == 0 {
			break
		}
		cursor = *page.Response.Cursor
	}

	return items, nil
}

func get[T any](ctx context.Context, c *Client, path, cursor string) (envelope[T], error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(pageLimit))
	if cursor != "" {
		q.Set("after", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return envelope[T]{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return envelope[T]{}, fmt.Errorf("http.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope[T]{}, fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return envelope[T]{}, &StatusError{Path: path, Code: resp.StatusCode}
	}

	var out envelope[T]
	if err := json.Unmarshal(body, &out); err != nil {
		return envelope[T]{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	if !out.Success {
		return envelope[T]{}, fmt.Errorf("getgems %s: success=false", path)
	}

	return out, nil
}

type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("getgems %s: status %d", e.Path, e.Code)
}
