package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"fundlist/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testClient(t *testing.T, handler roundTripFunc) *Client {
	t.Helper()
	cfg, _ := config.Load()
	cfg.FundAPIBaseURL = "https://example.test/v1"
	cfg.FundRateLimitRPS = 1000
	cfg.NavSleepMs = 0
	client := NewClient(cfg)
	client.httpClient = &http.Client{Transport: handler}
	return client
}

func jsonResponse(status int, payload any) *http.Response {
	blob, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(string(blob))),
		Header:     make(http.Header),
	}
}

func envelope(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

func TestFundListProbesRetiredEndpoints(t *testing.T) {
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		switch r.URL.Path {
		case "/v1/fund/name":
			return jsonResponse(http.StatusNotFound, map[string]any{"error": "gone"}), nil
		case "/v1/fund/fund-name":
			return jsonResponse(http.StatusOK, envelope(map[string]any{
				"funds": []map[string]any{
					{"代码": 40, "简称": "华夏成长混合", "类型": "混合型"},
					{"基金代码": "000040", "基金名称": "重复行"},
					{"基金代码": "110022", "基金名称": "易方达消费行业", "基金类型": "股票型", "成立日期": "2010-08-20"},
				},
			})), nil
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
			return nil, nil
		}
	})

	funds, err := client.FundList(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(funds) != 2 {
		t.Fatalf("len=%d", len(funds))
	}
	if funds[0].Code != "000040" {
		t.Fatalf("code=%q, want zero-padded 000040", funds[0].Code)
	}
	if funds[0].Name != "华夏成长混合" {
		t.Fatalf("duplicate should keep first occurrence, got name=%q", funds[0].Name)
	}
	if funds[0].Type == nil || *funds[0].Type != "混合型" {
		t.Fatalf("type alias not normalized: %v", funds[0].Type)
	}
	if funds[1].InceptionDate == nil || *funds[1].InceptionDate != "2010-08-20" {
		t.Fatalf("inception date missing: %v", funds[1].InceptionDate)
	}
}

func TestFundListNoEndpointAvailable(t *testing.T) {
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, map[string]any{}), nil
	})

	_, err := client.FundList(context.Background())
	if err == nil {
		t.Fatal("expected configuration error")
	}
	if !strings.Contains(err.Error(), "fund/name") {
		t.Fatalf("error should name the candidates tried: %v", err)
	}
}

func TestFundListUnsuccessfulEnvelope(t *testing.T) {
	client := testClient(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, map[string]any{"success": false, "errors": "quota"}), nil
	})

	if _, err := client.FundList(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNormalizeFundsGuessesCodeColumn(t *testing.T) {
	funds, err := normalizeFunds([]map[string]any{
		{"产品代码": "5", "名称": "测试基金"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(funds) != 1 || funds[0].Code != "000005" {
		t.Fatalf("funds=%+v", funds)
	}
}

func TestNormalizeFundsNoCodeColumn(t *testing.T) {
	_, err := normalizeFunds([]map[string]any{
		{"名称": "测试基金", "类型": "混合型"},
	})
	if err == nil {
		t.Fatal("expected error when no code column can be inferred")
	}
	if !strings.Contains(err.Error(), "名称") {
		t.Fatalf("error should list actual columns: %v", err)
	}
}

func TestNormalizeFundsEmptyName(t *testing.T) {
	funds, err := normalizeFunds([]map[string]any{
		{"基金代码": "000001", "基金类型": "混合型"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if funds[0].Name != "" {
		t.Fatalf("name=%q", funds[0].Name)
	}
}
