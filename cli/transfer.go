package cli

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"

	"github.com/fahmaliyi/hiho/vault"
	"github.com/pkg/errors"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var csvHeader = []string{"name", "username", "password"}

func writeEntries(w io.Writer, entries []vault.Entry, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []vault.Entry{}
		}
		return enc.Encode(entries)
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return err
		}
		for _, e := range entries {
			if err := cw.Write([]string{e.Name, e.Username, e.Password}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return errors.Errorf("unsupported format %q", format)
	}
}

func readEntries(r io.Reader, format string) ([]vault.Entry, error) {
	switch format {
	case FormatJSON:
		var entries []vault.Entry
		if err := json.NewDecoder(r).Decode(&entries); err != nil {
			return nil, errors.Wrap(err, "cannot parse json")
		}
		return entries, nil
	case FormatCSV:
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		records, err := cr.ReadAll()
		if err != nil {
			return nil, errors.Wrap(err, "cannot parse csv")
		}
		var entries []vault.Entry
		for i, rec := range records {
			if i == 0 && isCSVHeader(rec) {
				continue
			}
			// rows with fewer than three fields are skipped
			if len(rec) < 3 {
				continue
			}
			entries = append(entries, vault.Entry{Name: rec[0], Username: rec[1], Password: rec[2]})
		}
		return entries, nil
	default:
		return nil, errors.Errorf("unsupported format %q", format)
	}
}

func isCSVHeader(rec []string) bool {
	if len(rec) < 3 {
		return false
	}
	for i, h := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(rec[i]), h) {
			return false
		}
	}
	return true
}

// formatFromPath picks a format from the file extension, defaulting to JSON.
func formatFromPath(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}
