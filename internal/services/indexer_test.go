package services

import (
	"testing"
	"time"

	"github.com/wheatondebate/briefdex/internal/models"
)

func briefOn(id, title string, orderIndex int, categories ...string) models.BriefRecord {
	return models.BriefRecord{
		ID:         id,
		Title:      title,
		Date:       time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Categories: categories,
		OrderIndex: orderIndex,
	}
}

func TestBuildIndexesEndToEndExample(t *testing.T) {
	// Synchronized (canonical) order: Neg Brief first by date.
	records := []models.BriefRecord{
		briefOn("XYZ789", "Neg Brief", 1, "Negative"),
		briefOn("ABC123", "Aff Brief", 0, "Affirmative"),
	}
	idx := BuildIndexes(records)

	if len(idx.Categories) != 2 {
		t.Fatalf("got %d category sections, want 2", len(idx.Categories))
	}
	if idx.Categories[0].Label != "Affirmative" || idx.Categories[1].Label != "Negative" {
		t.Errorf("labels = [%s %s], want lexicographic [Affirmative Negative]",
			idx.Categories[0].Label, idx.Categories[1].Label)
	}
	if idx.Categories[0].Entries[0].Anchor != "brief-0" {
		t.Errorf("Affirmative anchor = %s, want brief-0", idx.Categories[0].Entries[0].Anchor)
	}

	if idx.Alphabetical[0].Title != "Aff Brief" || idx.Alphabetical[1].Title != "Neg Brief" {
		t.Errorf("alphabetical = [%s %s], want [Aff Brief Neg Brief]",
			idx.Alphabetical[0].Title, idx.Alphabetical[1].Title)
	}

	if idx.Pages[0].ID != "XYZ789" || idx.Pages[1].ID != "ABC123" {
		t.Errorf("page order = [%s %s], want canonical [XYZ789 ABC123]", idx.Pages[0].ID, idx.Pages[1].ID)
	}
}

func TestBuildIndexesPartitionsByCategoryOnce(t *testing.T) {
	// Duplicate labels from multiple source columns collapse to one entry.
	records := []models.BriefRecord{
		briefOn("AAA", "Alpha", 0, "Topicality", "Topicality"),
		briefOn("BBB", "Beta", 1, "Topicality", "Kritik"),
	}
	idx := BuildIndexes(records)

	var topicality *models.CategorySection
	for i := range idx.Categories {
		if idx.Categories[i].Label == "Topicality" {
			topicality = &idx.Categories[i]
		}
	}
	if topicality == nil {
		t.Fatal("Topicality section missing")
	}
	if len(topicality.Entries) != 2 {
		t.Fatalf("Topicality has %d entries, want 2 (each record exactly once)", len(topicality.Entries))
	}
	// Within a category, entries keep canonical order.
	if topicality.Entries[0].Title != "Alpha" || topicality.Entries[1].Title != "Beta" {
		t.Errorf("entries = [%s %s], want canonical order", topicality.Entries[0].Title, topicality.Entries[1].Title)
	}
}

func TestBuildIndexesWithoutCategories(t *testing.T) {
	records := []models.BriefRecord{briefOn("AAA", "Alpha", 0)}
	idx := BuildIndexes(records)
	if len(idx.Categories) != 0 {
		t.Errorf("got %d sections for uncategorized record, want 0", len(idx.Categories))
	}
	if len(idx.Pages) != 1 || len(idx.Alphabetical) != 1 {
		t.Errorf("uncategorized record must still appear in pages and alphabetical index")
	}
}

func TestBuildIndexesEmpty(t *testing.T) {
	idx := BuildIndexes(nil)
	if len(idx.Categories) != 0 || len(idx.Alphabetical) != 0 || len(idx.Pages) != 0 {
		t.Errorf("empty input must yield empty indexes, got %+v", idx)
	}
}

func TestAnchorsArePairwiseDistinct(t *testing.T) {
	records := []models.BriefRecord{
		briefOn("AAA", "Alpha", 0),
		briefOn("BBB", "Beta", 1),
		briefOn("CCC", "Gamma", 2),
	}
	idx := BuildIndexes(records)
	seen := make(map[string]bool)
	for _, page := range idx.Pages {
		if seen[page.Anchor] {
			t.Fatalf("anchor %s appears twice", page.Anchor)
		}
		seen[page.Anchor] = true
	}
}
