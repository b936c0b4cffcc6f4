package pipeline

import (
	"context"
	"log"

	"fundlist/internal"
	"fundlist/internal/util"
)

// NavSource yields the most recent valid NAV observation for one fund,
// or nil when none could be obtained. Request pacing is the source's
// concern.
type NavSource interface {
	LatestNav(ctx context.Context, symbol string) *internal.NavPoint
}

const navDateLayout = "2006-01-02"

// EnrichLatestNav walks the funds strictly in order, one blocking call
// per fund. Funds whose lookup fails keep nil NAV fields; the loop
// never aborts on a per-fund failure.
func EnrichLatestNav(ctx context.Context, funds []internal.FundRecord, source NavSource) []internal.FundRecord {
	total := len(funds)
	for i := range funds {
		if ctx.Err() != nil {
			break
		}

		point := source.LatestNav(ctx, funds[i].Code)
		if point != nil {
			funds[i].NavDate = util.StringPtr(point.Date.Format(navDateLayout))
			value := point.Value
			funds[i].Nav = &value
		}

		if n := i + 1; n%50 == 0 || n == total {
			log.Printf("nav enrichment progress %d/%d", n, total)
		}
	}
	return funds
}
