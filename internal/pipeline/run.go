package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"fundlist/internal"
)

// CatalogSource yields the full normalized fund catalog.
type CatalogSource interface {
	FundList(ctx context.Context) ([]internal.FundRecord, error)
}

type RunResult struct {
	CatalogTotal int
	Exported     int
	ExportedAt   string
	OutputPath   string
}

const exportTimeLayout = "2006-01-02 15:04:05"

// Run is the one-shot pipeline: catalog fetch, cutoff at top, NAV
// enrichment, XLSX export. Nothing is persisted.
func Run(ctx context.Context, catalog CatalogSource, nav NavSource, top int, outputPath string) (RunResult, error) {
	log.Println("fetching fund catalog")
	funds, err := catalog.FundList(ctx)
	if err != nil {
		return RunResult{}, err
	}
	total := len(funds)

	if top <= 0 {
		top = total
	}
	if len(funds) > top {
		funds = funds[:top]
	}
	log.Printf("catalog fetched: %d funds, enriching first %d", total, len(funds))

	funds = EnrichLatestNav(ctx, funds, nav)
	if err := ctx.Err(); err != nil {
		return RunResult{}, err
	}

	exportedAt := time.Now().Format(exportTimeLayout)
	sheet := fmt.Sprintf("Top%d", top)
	if err := ExportFundsToXLSX(funds, exportedAt, sheet, outputPath); err != nil {
		return RunResult{}, err
	}

	return RunResult{
		CatalogTotal: total,
		Exported:     len(funds),
		ExportedAt:   exportedAt,
		OutputPath:   outputPath,
	}, nil
}
