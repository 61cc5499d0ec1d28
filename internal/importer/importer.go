// Package importer loads product CSVs into the catalog through the REST API.
// It replaces the original's offline import script with an online one: each
// row becomes a create-product call, so the server keeps enforcing barcode
// uniqueness and validation.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"till/internal/api"
)

// Report summarizes one import run.
type Report struct {
	Added   int
	Skipped int // duplicate barcode, in the file or already on the server
	Errors  int // malformed rows
}

func (r Report) String() string {
	return fmt.Sprintf("added %d, skipped %d, errors %d", r.Added, r.Skipped, r.Errors)
}

// Importer drives CSV imports against one backend.
type Importer struct {
	client *api.Client
	log    *zap.Logger
}

// New returns an importer. log may be nil.
func New(client *api.Client, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{client: client, log: log}
}

// ImportFile imports one CSV file.
func (im *Importer) ImportFile(ctx context.Context, path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, err
	}
	defer f.Close()
	return im.Import(ctx, f)
}

// Import reads header-addressed CSV rows and creates one product per row.
// Required columns: barcode, name, price. Optional: cost, stock, min_stock,
// sell_by_weight, description. Duplicate barcodes within the file, and rows
// the server rejects as already existing, are counted as skipped.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Report, error) {
	var rep Report

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows, count them as errors below

	header, err := cr.Read()
	if err != nil {
		return rep, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"barcode", "name", "price"} {
		if _, ok := cols[required]; !ok {
			return rep, fmt.Errorf("csv is missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	seen := make(map[string]bool)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rep.Errors++
			continue
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		barcode := field(row, "barcode")
		name := field(row, "name")
		price, perr := strconv.ParseFloat(field(row, "price"), 64)
		if barcode == "" || name == "" || perr != nil {
			rep.Errors++
			continue
		}
		if seen[barcode] {
			rep.Skipped++
			continue
		}
		seen[barcode] = true

		in := api.ProductCreate{
			Barcode:     barcode,
			Name:        name,
			Price:       price,
			Description: field(row, "description"),
			MinStock:    5,
		}
		if v := field(row, "cost"); v != "" {
			in.Cost, _ = strconv.ParseFloat(v, 64)
		}
		if v := field(row, "stock"); v != "" {
			in.Stock, _ = strconv.Atoi(v)
		}
		if v := field(row, "min_stock"); v != "" {
			in.MinStock, _ = strconv.Atoi(v)
		}
		if v := field(row, "sell_by_weight"); v != "" {
			in.SellByWeight, _ = strconv.ParseBool(v)
		}

		if _, err := im.client.CreateProduct(ctx, in); err != nil {
			var apiErr *api.Error
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
				// Server owns uniqueness: an existing barcode is a skip.
				im.log.Debug("skipping existing product",
					zap.String("barcode", barcode), zap.String("detail", apiErr.Detail))
				rep.Skipped++
				continue
			}
			return rep, fmt.Errorf("import %q: %w", barcode, err)
		}
		rep.Added++
		if rep.Added%200 == 0 {
			im.log.Info("import progress", zap.Int("added", rep.Added))
		}
	}

	im.log.Info("import complete",
		zap.Int("added", rep.Added), zap.Int("skipped", rep.Skipped), zap.Int("errors", rep.Errors))
	return rep, nil
}
