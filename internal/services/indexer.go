package services

import (
	"sort"

	"github.com/wheatondebate/briefdex/internal/models"
)

// BuildIndexes derives the three index views from the synchronized records.
// Input order is the canonical (date) order; it drives both the by-category
// listings and the physical page assembly.
func BuildIndexes(records []models.BriefRecord) models.Indexes {
	return models.Indexes{
		Categories:   buildCategorySections(records),
		Alphabetical: buildAlphabetical(records),
		Pages:        buildPages(records),
	}
}

// buildCategorySections groups records by category label. Labels iterate in
// lexicographic order; within a label, records keep canonical order and
// appear at most once no matter how many sheet columns contributed the
// label.
func buildCategorySections(records []models.BriefRecord) []models.CategorySection {
	byLabel := make(map[string][]models.IndexEntry)
	for _, rec := range records {
		seen := make(map[string]bool, len(rec.Categories))
		for _, label := range rec.Categories {
			if seen[label] {
				continue
			}
			seen[label] = true
			byLabel[label] = append(byLabel[label], models.IndexEntry{Anchor: rec.Anchor(), Title: rec.Title})
		}
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	sections := make([]models.CategorySection, 0, len(labels))
	for _, label := range labels {
		sections = append(sections, models.CategorySection{Label: label, Entries: byLabel[label]})
	}
	return sections
}

func buildAlphabetical(records []models.BriefRecord) []models.IndexEntry {
	sorted := make([]models.BriefRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Title < sorted[b].Title
	})

	entries := make([]models.IndexEntry, 0, len(sorted))
	for _, rec := range sorted {
		entries = append(entries, models.IndexEntry{Anchor: rec.Anchor(), Title: rec.Title})
	}
	return entries
}

func buildPages(records []models.BriefRecord) []models.PageEntry {
	pages := make([]models.PageEntry, 0, len(records))
	for _, rec := range records {
		pages = append(pages, models.PageEntry{Anchor: rec.Anchor(), Title: rec.Title, ID: rec.ID})
	}
	return pages
}
