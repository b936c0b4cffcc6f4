package provider

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fundlist/internal"
	"fundlist/internal/util"
)

const navHistoryEndpoint = "fund/nav-history"

// navPayload covers both wire shapes the provider has served: newer
// versions return items directly, older ones embed an HTML table in
// the content field.
type navPayload struct {
	Items   []map[string]any `json:"items"`
	Content string           `json:"content"`
}

var (
	navDateAliases  = []string{"净值日期", "FSRQ"}
	navValueAliases = []string{"单位净值", "DWJZ"}
)

// LatestNav returns the maximum-date valid observation of the fund's
// unit-NAV series, or nil when the series is missing, empty, or
// entirely unparseable. All failures are treated as missing data; the
// caller keeps going.
func (c *Client) LatestNav(ctx context.Context, symbol string) *internal.NavPoint {
	point, err := c.latestNav(ctx, symbol)
	if err != nil {
		return nil
	}
	return point
}

func (c *Client) latestNav(ctx context.Context, symbol string) (*internal.NavPoint, error) {
	params := map[string]string{"symbol": symbol, "size": "20000"}
	body, err := c.fetchJSON(ctx, c.navLimiter, navHistoryEndpoint, params)
	if err != nil {
		return nil, err
	}

	var payload navPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	rows := payload.Items
	if len(rows) == 0 && payload.Content != "" {
		rows = parseNavTable(payload.Content)
	}

	points := parseSeries(rows)
	if len(points) == 0 {
		return nil, nil
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	last := points[len(points)-1]
	return &last, nil
}

func parseSeries(rows []map[string]any) []internal.NavPoint {
	points := make([]internal.NavPoint, 0, len(rows))
	for _, raw := range rows {
		dateCell := pickAlias(raw, navDateAliases)
		if dateCell == "" {
			dateCell = pickContaining(raw, "日期", "date")
		}
		valueCell := pickAlias(raw, navValueAliases)
		if valueCell == "" {
			for _, key := range columnNames(raw) {
				if strings.Contains(key, "净值") && !strings.Contains(key, "日期") {
					valueCell = toCellString(raw[key])
					break
				}
			}
		}

		date, ok := util.ParseDate(dateCell)
		if !ok {
			continue
		}
		value, ok := util.ParseDecimal(valueCell)
		if !ok {
			continue
		}
		points = append(points, internal.NavPoint{Date: date, Value: value})
	}
	return points
}

// parseNavTable extracts series rows from the legacy HTML table shape.
// The first table row carries headers; the date and value columns are
// located by header name.
func parseNavTable(html string) []map[string]any {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	out := []map[string]any{}
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return true
		}

		headers := []string{}
		rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, strings.TrimSpace(cell.Text()))
		})

		dateIdx := findHeaderIndex(headers, append(navDateAliases, "日期"))
		valueIdx := findHeaderIndex(headers, append(navValueAliases, "净值"))
		if dateIdx < 0 || valueIdx < 0 {
			return true
		}

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if dateIdx >= len(cells) || valueIdx >= len(cells) {
				return
			}
			out = append(out, map[string]any{
				"净值日期": cells[dateIdx],
				"单位净值": cells[valueIdx],
			})
		})
		return false
	})
	return out
}

// findHeaderIndex tries each wanted name in order, so an exact alias
// wins over a loose fragment ("净值日期" also contains "净值").
func findHeaderIndex(headers []string, wanted []string) int {
	for _, w := range wanted {
		for i, h := range headers {
			if strings.Contains(h, w) {
				return i
			}
		}
	}
	return -1
}
