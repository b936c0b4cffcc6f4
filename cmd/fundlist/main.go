package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"fundlist/internal/config"
	"fundlist/internal/pipeline"
	"fundlist/internal/provider"
	"fundlist/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	ctx := context.Background()
	client := provider.NewClient(cfg)

	cmd := os.Args[1]
	switch cmd {
	case "run":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		top := fs.Int("top", cfg.TopN, "number of funds to enrich")
		out := fs.String("out", cfg.OutPath, "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		result, err := pipeline.Run(ctx, client, client, *top, *out)
		must(err)
		fmt.Printf("run done catalog=%d exported=%d output=%s\n",
			result.CatalogTotal, result.Exported, result.OutputPath)
	case "catalog:sync":
		db := openDB(cfg)
		defer db.Close()
		funds, err := client.FundList(ctx)
		must(err)
		must(db.UpsertFunds(funds))
		_ = db.SetMetadata("catalog.last_sync", time.Now().UTC().Format(time.RFC3339))
		_ = db.InsertRun(uuid.NewString(), "catalog:sync", map[string]int{"funds": len(funds)})
		fmt.Printf("catalog sync complete: %d funds\n", len(funds))
	case "nav:enrich":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		top := fs.Int("top", cfg.TopN, "number of funds to enrich")
		_ = fs.Parse(os.Args[2:])
		db := openDB(cfg)
		defer db.Close()
		funds, err := db.ListFunds(*top)
		must(err)
		funds = pipeline.EnrichLatestNav(ctx, funds, client)
		enriched := 0
		for _, f := range funds {
			if f.NavDate == nil || f.Nav == nil {
				continue
			}
			must(db.RecordNav(f.Code, *f.NavDate, *f.Nav))
			enriched++
		}
		_ = db.SetMetadata("nav.last_enrich", time.Now().UTC().Format(time.RFC3339))
		_ = db.InsertRun(uuid.NewString(), "nav:enrich",
			map[string]int{"funds": len(funds), "enriched": enriched})
		fmt.Printf("nav enrich complete funds=%d enriched=%d\n", len(funds), enriched)
	case "nav:latest":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		symbol := fs.String("symbol", "", "6-digit fund code")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*symbol) == "" {
			must(fmt.Errorf("--symbol is required"))
		}
		point := client.LatestNav(ctx, *symbol)
		if point == nil {
			fmt.Printf("no nav data for %s\n", *symbol)
			return
		}
		fmt.Printf("%s %s %s\n", *symbol, point.Date.Format("2006-01-02"), point.Value)
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		out := fs.String("out", cfg.OutPath, "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		db := openDB(cfg)
		defer db.Close()
		funds, err := db.ListFunds(0)
		must(err)
		if len(funds) == 0 {
			must(fmt.Errorf("no funds stored, run catalog:sync first"))
		}
		exportedAt := time.Now().Format("2006-01-02 15:04:05")
		sheet := fmt.Sprintf("Top%d", len(funds))
		must(pipeline.ExportFundsToXLSX(funds, exportedAt, sheet, *out))
		fmt.Printf("exported %d funds to %s\n", len(funds), *out)
	default:
		usage()
		os.Exit(1)
	}
}

func openDB(cfg config.Config) *storage.DB {
	db, err := storage.Open(cfg.DBPath)
	must(err)
	return db
}

func usage() {
	fmt.Println("usage: fundlist <command>")
	fmt.Println("commands:")
	fmt.Println("  run [--top=1000] [--out=outputs/fundlist.xlsx]")
	fmt.Println("  catalog:sync")
	fmt.Println("  nav:enrich [--top=1000]")
	fmt.Println("  nav:latest --symbol=000001")
	fmt.Println("  export:xlsx [--out=outputs/fundlist.xlsx]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
