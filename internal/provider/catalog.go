package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"fundlist/internal"
	"fundlist/internal/util"
)

const fundCodeWidth = 6

// The provider renamed its fund-list endpoint across API versions.
// Candidates are probed in order; 404/410 means "try the next one".
var catalogEndpoints = []string{
	"fund/name",
	"fund/fund-name",
	"open-fund/fund-name",
}

type catalogPayload struct {
	Funds []map[string]any `json:"funds"`
	Total *int             `json:"total"`
}

var (
	codeAliases      = []string{"基金代码", "代码"}
	nameAliases      = []string{"基金简称", "简称", "基金名称", "名称"}
	typeAliases      = []string{"基金类型", "类型"}
	fullNameAliases  = []string{"基金全称", "全称"}
	companyAliases   = []string{"基金公司", "公司"}
	inceptionAliases = []string{"成立日期", "成立日"}
)

// FundList fetches the full fund catalog from the first candidate
// endpoint the provider still serves, normalized and de-duplicated by
// code (first occurrence wins).
func (c *Client) FundList(ctx context.Context) ([]internal.FundRecord, error) {
	for _, endpoint := range catalogEndpoints {
		body, err := c.fetchJSON(ctx, c.catalogLimiter, endpoint, nil)
		if err != nil {
			if isEndpointGone(err) {
				continue
			}
			return nil, err
		}

		var payload catalogPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, err
		}
		return normalizeFunds(payload.Funds)
	}

	return nil, fmt.Errorf(
		"no fund list endpoint available on this provider version; tried: %s",
		strings.Join(catalogEndpoints, ", "))
}

func normalizeFunds(rows []map[string]any) ([]internal.FundRecord, error) {
	out := make([]internal.FundRecord, 0, len(rows))
	seen := map[string]struct{}{}
	anyCode := false

	for _, raw := range rows {
		code := pickAlias(raw, codeAliases)
		if code == "" {
			code = pickContaining(raw, "代码")
		}
		if code == "" {
			continue
		}
		anyCode = true

		code = util.ZeroPad(code, fundCodeWidth)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}

		name := pickAlias(raw, nameAliases)
		if name == "" {
			name = pickContaining(raw, "简称", "名称")
		}

		rec := internal.FundRecord{Code: code, Name: name}
		rec.Type = optAlias(raw, typeAliases)
		rec.FullName = optAlias(raw, fullNameAliases)
		rec.Company = optAlias(raw, companyAliases)
		rec.InceptionDate = optAlias(raw, inceptionAliases)
		out = append(out, rec)
	}

	if len(rows) > 0 && !anyCode {
		return nil, fmt.Errorf("fund list has no code column; actual columns: %s",
			strings.Join(columnNames(rows[0]), ", "))
	}
	return out, nil
}

func pickAlias(raw map[string]any, aliases []string) string {
	for _, key := range aliases {
		if v, ok := raw[key]; ok {
			if s := toCellString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// pickContaining guesses a column whose name contains any of the given
// fragments. Keys are scanned in sorted order so the guess is stable.
func pickContaining(raw map[string]any, fragments ...string) string {
	for _, key := range columnNames(raw) {
		for _, frag := range fragments {
			if strings.Contains(key, frag) {
				if s := toCellString(raw[key]); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func optAlias(raw map[string]any, aliases []string) *string {
	s := pickAlias(raw, aliases)
	if s == "" {
		return nil
	}
	return util.StringPtr(s)
}

func columnNames(raw map[string]any) []string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
