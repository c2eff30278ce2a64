// Package drivers loads the static driver list used to populate the
// structured pick dropdowns.
package drivers

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jszwec/csvutil"

	"github.com/padraicbc/cupsurvey/models"
)

type csvRow struct {
	Group  string `csv:"group"`
	Driver string `csv:"driver"`
	Rank   int    `csv:"rank"`
}

// Load reads a driver list from a .json or .csv file.
func Load(path string) (models.DriverList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading driver list: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes {"group": [{"driver": "...", "rank": 5}, ...]}.
func ParseJSON(data []byte) (models.DriverList, error) {
	var list models.DriverList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decoding driver list: %w", err)
	}
	return normalize(list), nil
}

// ParseCSV decodes rows with a group,driver,rank header.
func ParseCSV(data []byte) (models.DriverList, error) {
	var rows []csvRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decoding driver list csv: %w", err)
	}
	list := models.DriverList{}
	for _, r := range rows {
		list[strings.TrimSpace(r.Group)] = append(list[strings.TrimSpace(r.Group)], models.Driver{Name: r.Driver, Rank: r.Rank})
	}
	return normalize(list), nil
}

// normalize trims names, drops blank entries and orders each group by rank.
func normalize(list models.DriverList) models.DriverList {
	out := make(models.DriverList, len(list))
	for group, ds := range list {
		kept := make([]models.Driver, 0, len(ds))
		for _, d := range ds {
			d.Name = strings.TrimSpace(d.Name)
			if d.Name == "" {
				continue
			}
			kept = append(kept, d)
		}
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].Rank < kept[j].Rank })
		out[group] = kept
	}
	return out
}
