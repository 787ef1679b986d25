package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"checkdesk/internal/api"
	"checkdesk/internal/ticket"
)

// ErrNothingToExport reports an export attempt over an empty result
// set. No request is sent.
var ErrNothingToExport = errors.New("nothing to export")

// ErrRejected reports that the backend answered an export request with
// a textual refusal instead of a file.
var ErrRejected = errors.New("export rejected by server")

// Downloader is the slice of the API client the exporter needs.
type Downloader interface {
	ExportSearch(ctx context.Context, ids []int64, searchName string) (api.Download, error)
	ExportSingle(ctx context.Context, number string) (api.Download, error)
	ExportAll(ctx context.Context) (api.Download, error)
	ExportByDate(ctx context.Context, day string) (api.Download, error)
}

// Exporter triggers server-side Excel exports and saves the downloaded
// files under the export directory.
type Exporter struct {
	client Downloader
	dir    string
}

func New(client Downloader, dir string) (*Exporter, error) {
	dir = strings.TrimSpace(dir)
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve cwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}
	return &Exporter{client: client, dir: dir}, nil
}

// ExportResults posts the ids of the current filtered result set to the
// search-export endpoint and saves the returned spreadsheet. The file
// name is derived from the active term and/or date.
func (e *Exporter) ExportResults(ctx context.Context, results []ticket.Ticket, term string, date ticket.Day) (string, error) {
	if len(results) == 0 {
		return "", ErrNothingToExport
	}

	ids := make([]int64, 0, len(results))
	for _, tk := range results {
		ids = append(ids, tk.ID)
	}
	name := SearchName(term, date)

	d, err := e.client.ExportSearch(ctx, ids, name)
	if err != nil {
		return "", err
	}
	return e.save(d, name+".xlsx")
}

// ExportSingle downloads the export of one ticket by number.
func (e *Exporter) ExportSingle(ctx context.Context, number string) (string, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return "", ErrNothingToExport
	}
	d, err := e.client.ExportSingle(ctx, number)
	if err != nil {
		return "", err
	}
	return e.save(d, "application_"+sanitizeNamePart(number)+".xlsx")
}

// ExportAll downloads the export of the full collection.
func (e *Exporter) ExportAll(ctx context.Context) (string, error) {
	d, err := e.client.ExportAll(ctx)
	if err != nil {
		return "", err
	}
	return e.save(d, "applications.xlsx")
}

// ExportByDate downloads the export of one calendar day.
func (e *Exporter) ExportByDate(ctx context.Context, date ticket.Day) (string, error) {
	if date.Undated() {
		return "", ErrNothingToExport
	}
	d, err := e.client.ExportByDate(ctx, date.Key())
	if err != nil {
		return "", err
	}
	return e.save(d, "applications_"+compactDate(date)+".xlsx")
}

func (e *Exporter) save(d api.Download, fallbackName string) (string, error) {
	if out := Classify(d); !out.OK {
		return "", fmt.Errorf("%w: %s", ErrRejected, out.Message)
	}

	name := strings.TrimSpace(d.Filename)
	if name == "" {
		name = fallbackName
	}
	name = sanitizeNamePart(strings.TrimSuffix(name, ".xlsx")) + ".xlsx"

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, d.Body, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// SearchName builds the searchName form field for filtered exports:
// the base name plus the sanitized term and/or the compact date, the
// same shape the backend expects from its own UI.
func SearchName(term string, date ticket.Day) string {
	name := "filtered_applications"
	if term = strings.TrimSpace(term); term != "" {
		name += "_" + sanitizeNamePart(term)
	}
	if !date.Undated() {
		name += "_" + compactDate(date)
	}
	return name
}

func compactDate(date ticket.Day) string {
	return strings.ReplaceAll(date.Key(), "-", "")
}

var namePartReplacer = strings.NewReplacer(
	" ", "_", "\t", "_", "-", "_",
	"/", "_", "\\", "_", ":", "_",
)

func sanitizeNamePart(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return namePartReplacer.Replace(s)
}
