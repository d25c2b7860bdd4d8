package locale

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrDetection 检测服务不可用或无法识别
var ErrDetection = errors.New("locale detection failed")

// TestKey 使用该 key 时不调用外部服务，固定返回英语
const TestKey = "test"

// Detector 识别文本语言，返回 locale tag
type Detector interface {
	Detect(ctx context.Context, text string) (string, error)
}

type StaticDetector string

func (d StaticDetector) Detect(context.Context, string) (string, error) { return string(d), nil }

type DetectorFunc func(ctx context.Context, text string) (string, error)

func (f DetectorFunc) Detect(ctx context.Context, text string) (string, error) { return f(ctx, text) }

// HTTPDetector 兼容 detectlanguage.com 的检测接口
type HTTPDetector struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewDetector(endpoint, apiKey string, timeout time.Duration) Detector {
	if apiKey == TestKey {
		return StaticDetector("en")
	}
	return NewHTTPDetector(endpoint, apiKey, &http.Client{Timeout: timeout})
}

func NewHTTPDetector(endpoint, apiKey string, client *http.Client) *HTTPDetector {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPDetector{endpoint: endpoint, apiKey: apiKey, client: client}
}

type detectResponse struct {
	Data struct {
		Detections []struct {
			Language   string  `json:"language"`
			IsReliable bool    `json:"isReliable"`
			Confidence float64 `json:"confidence"`
		} `json:"detections"`
	} `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (d *HTTPDetector) Detect(ctx context.Context, text string) (string, error) {
	form := url.Values{"q": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDetection, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDetection, err)
	}
	defer resp.Body.Close()

	var body detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode response (status %d): %w", ErrDetection, resp.StatusCode, err)
	}
	if body.Error != nil {
		return "", fmt.Errorf("%w: %s (code %d)", ErrDetection, body.Error.Message, body.Error.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrDetection, resp.StatusCode)
	}
	if len(body.Data.Detections) == 0 {
		return "", fmt.Errorf("%w: no language detected", ErrDetection)
	}
	return body.Data.Detections[0].Language, nil
}
