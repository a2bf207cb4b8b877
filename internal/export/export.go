// Package export serializes a session into downloadable CSV and JSON reports.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mbudget/internal/model"
)

// Format selects the report encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv or json)", s)
	}
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// FileName returns budget-report-YYYY-MM-DD.<ext> for the given date.
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("budget-report-%s.%s", now.Format("2006-01-02"), f)
}

// Write encodes s in the given format.
func Write(w io.Writer, f Format, s model.Session) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, s)
	case FormatJSON:
		return WriteJSON(w, s)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteCSV writes one row per spend entry, ordered by category, then
// subcategory, then entry. Fields containing separators are quoted.
func WriteCSV(w io.Writer, s model.Session) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Category", "Subcategory", "Day", "Amount"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, c := range s.Categories {
		for _, sub := range c.Subcategories {
			for _, e := range sub.Entries {
				rec := []string{c.Name, sub.Name, strconv.Itoa(e.Day), e.Amount.String()}
				if err := cw.Write(rec); err != nil {
					return fmt.Errorf("writing csv row: %w", err)
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonReport struct {
	TotalDays      int            `json:"totalDays"`
	TotalBudget    json.Number    `json:"totalBudget"`
	TotalSpent     json.Number    `json:"totalSpent"`
	TotalRemaining json.Number    `json:"totalRemaining"`
	Categories     []jsonCategory `json:"categories"`
}

type jsonCategory struct {
	Name          string            `json:"name"`
	Budget        json.Number       `json:"budget"`
	Spent         json.Number       `json:"spent"`
	Remaining     json.Number       `json:"remaining"`
	Subcategories []jsonSubcategory `json:"subcategories"`
}

type jsonSubcategory struct {
	Name    string      `json:"name"`
	Spent   json.Number `json:"spent"`
	Entries []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Amount json.Number `json:"amount"`
	Day    int         `json:"day"`
}

func num(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

// WriteJSON writes the session report as indented JSON. Money values are
// plain JSON numbers.
func WriteJSON(w io.Writer, s model.Session) error {
	report := jsonReport{
		TotalDays:      s.TotalDays,
		TotalBudget:    num(s.TotalBudget()),
		TotalSpent:     num(s.TotalSpent()),
		TotalRemaining: num(s.TotalRemaining()),
		Categories:     make([]jsonCategory, 0, len(s.Categories)),
	}
	for _, c := range s.Categories {
		jc := jsonCategory{
			Name:          c.Name,
			Budget:        num(c.Budget),
			Spent:         num(c.TotalSpent()),
			Remaining:     num(c.Remaining),
			Subcategories: make([]jsonSubcategory, 0, len(c.Subcategories)),
		}
		for _, sub := range c.Subcategories {
			js := jsonSubcategory{
				Name:    sub.Name,
				Spent:   num(sub.TotalSpent()),
				Entries: make([]jsonEntry, 0, len(sub.Entries)),
			}
			for _, e := range sub.Entries {
				js.Entries = append(js.Entries, jsonEntry{Amount: num(e.Amount), Day: e.Day})
			}
			jc.Subcategories = append(jc.Subcategories, js)
		}
		report.Categories = append(report.Categories, jc)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return nil
}

// ToFile writes the report into dir using FileName and returns its path.
func ToFile(dir string, f Format, s model.Session, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(f, now))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report: %w", err)
	}
	if err := Write(out, f, s); err != nil {
		_ = out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing report: %w", err)
	}
	return path, nil
}
