package liveapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 默认的航班实况数据服务地址
const defaultHost = "flightera-flight-data.p.rapidapi.com"

// 错误响应体最多保留的字节数，避免整页HTML进日志
const maxErrorBody = 400

// LiveAPIError 实况接口调用失败：凭据缺失或上游返回非200
type LiveAPIError struct {
	Status int
	Body   string
}

func (e *LiveAPIError) Error() string {
	if e.Status == 0 {
		return "实况接口调用失败: 未配置RAPIDAPI_KEY"
	}
	return fmt.Sprintf("实况接口返回 %d: %s", e.Status, e.Body)
}

// Client 航班实况数据的透传客户端
// 只做转发不做解析，响应原样返回给调用方
type Client struct {
	host       string
	key        string
	scheme     string
	httpClient *http.Client
}

// NewFromEnv 从环境变量创建客户端，.env文件存在时先加载
// RAPIDAPI_KEY必填，RAPIDAPI_HOST可选
func NewFromEnv() (*Client, error) {
	godotenv.Load()

	key := os.Getenv("RAPIDAPI_KEY")
	if key == "" {
		return nil, &LiveAPIError{}
	}

	host := os.Getenv("RAPIDAPI_HOST")
	if host == "" {
		host = defaultHost
	}
	return NewClient(host, key), nil
}

// NewClient 用指定的服务地址和密钥创建客户端
func NewClient(host, key string) *Client {
	return &Client{
		host:   host,
		key:    key,
		scheme: "https",
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// FlightStatusByNumber 查询指定航班号的实时状态
func (c *Client) FlightStatusByNumber(ctx context.Context, flight string) (json.RawMessage, error) {
	return c.get(ctx, "flight/info", url.Values{
		"flnr": {flight},
	})
}

// AirportDepartures 查询机场未来数小时内的出港航班
func (c *Client) AirportDepartures(ctx context.Context, iata string, hours int) (json.RawMessage, error) {
	return c.get(ctx, "airport/departures", url.Values{
		"ident": {iata},
		"time":  {strconv.Itoa(hours)},
		"limit": {"50"},
	})
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     "/" + path,
		RawQuery: query.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("构造实况请求失败: %w", err)
	}
	req.Header.Set("x-rapidapi-host", c.host)
	req.Header.Set("x-rapidapi-key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求实况接口失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取实况响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &LiveAPIError{
			Status: resp.StatusCode,
			Body:   truncate(body, maxErrorBody),
		}
	}
	return json.RawMessage(body), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
