package gazetteer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"tourli-ai/internal/textnorm"
)

// ErrMissingColumn is returned when a city file lacks a required header.
var ErrMissingColumn = errors.New("missing required column")

type columns struct {
	city, ascii, country, lat, lng, admin, capital, population, aliases int
}

func indexColumns(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	get := func(names ...string) int {
		for _, n := range names {
			if i, ok := pos[n]; ok {
				return i
			}
		}
		return -1
	}
	c := columns{
		city:       get("city", "name"),
		ascii:      get("city_ascii"),
		country:    get("country"),
		lat:        get("lat", "latitude"),
		lng:        get("lng", "lon", "longitude"),
		admin:      get("admin_name", "admin"),
		capital:    get("capital"),
		population: get("population"),
		aliases:    get("aliases"),
	}
	if c.city < 0 {
		return c, fmt.Errorf("%w: city", ErrMissingColumn)
	}
	return c, nil
}

// ReadCSV parses city records from r. The first row must be a header; the
// columns are located by name. Numeric fields that fail to parse are left
// at zero rather than rejecting the row, so very large files load quickly.
func ReadCSV(r io.Reader) ([]CityRecord, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty city file")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []CityRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		name := field(row, cols.city)
		ascii := field(row, cols.ascii)
		key := ascii
		if key == "" {
			key = name
		}
		normalized := textnorm.Normalize(key)
		if normalized == "" {
			continue
		}
		if name == "" {
			name = ascii
		}

		var aliases []string
		if a := field(row, cols.aliases); a != "" {
			aliases = strings.Split(a, ";")
		}
		if name != key {
			aliases = append(aliases, name)
		}

		records = append(records, CityRecord{
			Name:       name,
			Normalized: normalized,
			Country:    field(row, cols.country),
			Admin:      field(row, cols.admin),
			Capital:    field(row, cols.capital),
			Lat:        parseFloat(field(row, cols.lat)),
			Lon:        parseFloat(field(row, cols.lng)),
			Population: int64(parseFloat(field(row, cols.population))),
			Aliases:    normalizeNames(normalized, aliases),
		})
	}
	return records, nil
}

// ReadFile parses the CSV city file at path.
func ReadFile(path string) ([]CityRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open city file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Load reads both city files and builds a Gazetteer. Either file failing to
// load is an error.
func Load(regionalPath, globalPath string, opts Options) (*Gazetteer, error) {
	regional, err := ReadFile(regionalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load regional cities: %w", err)
	}
	if len(regional) == 0 {
		return nil, fmt.Errorf("regional city file %s has no records", regionalPath)
	}
	global, err := ReadFile(globalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load global cities: %w", err)
	}
	return New(regional, global, opts), nil
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
