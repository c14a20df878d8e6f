// cmd/reconcile/main.go
//
// Command-line runner for the reconciliation pipeline: four workbooks in,
// two report workbooks out.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/salesops/asinsight/internal/domain"
	"github.com/salesops/asinsight/internal/excel"
	"github.com/salesops/asinsight/internal/pipeline"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "reconcile",
		Usage: "Reconcile sales, inventory and product-master exports into analysis reports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "sales-long",
				Usage:    "Long-window sales export (xlsx)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "sales-short",
				Usage:    "Short-window sales export (xlsx)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "inventory",
				Usage:    "Inventory snapshot (xlsx)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "product-master",
				Usage:    "Product master catalog (xlsx)",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "long-days",
				Usage:   "Long window length in days (minimum 1)",
				Value:   90,
				EnvVars: []string{"WINDOW_LONG_DAYS"},
			},
			&cli.IntFlag{
				Name:    "short-days",
				Usage:   "Short window length in days (minimum 1)",
				Value:   15,
				EnvVars: []string{"WINDOW_SHORT_DAYS"},
			},
			&cli.StringFlag{
				Name:  "clean-policy",
				Usage: "Sales cleaning policy: status or price",
				Value: string(pipeline.CleanByStatus),
			},
			&cli.StringFlag{
				Name:  "union-policy",
				Usage: "Identifier union policy: merge or append",
				Value: string(pipeline.MergeByIdentifier),
			},
			&cli.StringFlag{
				Name:    "out-dir",
				Usage:   "Directory for the generated workbooks",
				Value:   "./data/output",
				EnvVars: []string{"APP_OUTPUT_DIR"},
			},
		},
		Action: runReconcile,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runReconcile(c *cli.Context) error {
	params := pipeline.Params{
		LongWindowDays:  c.Int("long-days"),
		ShortWindowDays: c.Int("short-days"),
		CleanPolicy:     pipeline.CleanPolicy(strings.ToLower(c.String("clean-policy"))),
		UnionPolicy:     pipeline.UnionPolicy(strings.ToLower(c.String("union-policy"))),
	}
	if err := params.Validate(); err != nil {
		return err
	}

	read := func(flag, name string) (*domain.Table, error) {
		table, err := excel.ReadTable(c.String(flag), name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		return table, nil
	}

	var (
		inputs pipeline.Inputs
		err    error
	)
	if inputs.SalesLong, err = read("sales-long", pipeline.TableSalesLong); err != nil {
		return err
	}
	if inputs.SalesShort, err = read("sales-short", pipeline.TableSalesShort); err != nil {
		return err
	}
	if inputs.Inventory, err = read("inventory", pipeline.TableInventory); err != nil {
		return err
	}
	if inputs.ProductMaster, err = read("product-master", pipeline.TableProductMaster); err != nil {
		return err
	}

	result, err := pipeline.Run(c.Context, inputs, params)
	if err != nil {
		return err
	}

	outDir := c.String("out-dir")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	summaryBook, err := excel.WriteSummaryReport(result.Report, params.LongWindowDays, params.ShortWindowDays)
	if err != nil {
		return fmt.Errorf("failed to render summary workbook: %w", err)
	}
	inventoryBook, err := excel.WriteInventoryReport(result.InventoryReport, params.LongWindowDays, params.ShortWindowDays)
	if err != nil {
		return fmt.Errorf("failed to render inventory workbook: %w", err)
	}

	summaryPath := filepath.Join(outDir, "sales_inventory_analysis.xlsx")
	if err := os.WriteFile(summaryPath, summaryBook, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", summaryPath, err)
	}
	inventoryPath := filepath.Join(outDir, "inventory_report.xlsx")
	if err := os.WriteFile(inventoryPath, inventoryBook, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", inventoryPath, err)
	}

	fmt.Printf("Report rows: %d (union policy %s)\n", len(result.Report), params.UnionPolicy)
	fmt.Printf("Inventory report rows: %d\n", len(result.InventoryReport))
	fmt.Printf("Coercion substitutions: %d\n", result.Summary.CoercionCount)
	fmt.Printf("Written: %s, %s\n", summaryPath, inventoryPath)

	return nil
}
