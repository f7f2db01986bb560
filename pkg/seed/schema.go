// pkg/seed/schema.go
package seed

import "demo-generator/internal/models"

// File is the on-disk format of an insight seed file.
type File struct {
	Version     string                   `json:"version"`
	LastUpdated string                   `json:"lastUpdated"`
	Insights    []models.IndustryInsight `json:"insights"`
}

// Counts summarizes a file by industry.
func (f *File) Counts() map[string]int {
	counts := make(map[string]int)
	for _, in := range f.Insights {
		counts[in.Industry]++
	}
	return counts
}
