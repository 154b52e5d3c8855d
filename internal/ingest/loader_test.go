package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleDataset = `{
	"generatedOn": "2025-06-01",
	"rankingNote": "QS World University Rankings 2025",
	"universities": [
		{
			"rank": 1,
			"name": "ETH Zurich",
			"cityCountry": "Zurich, Switzerland",
			"ranking": {"system": "QS", "value": 7},
			"programs": ["Physics"],
			"appDeadline": "2025-12-15",
			"acceptanceRate": {"value": 27, "estimated": true},
			"contact": "admissions@ethz.ch"
		},
		{
			"rank": 0,
			"name": "Dropped"
		}
	]
}`

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universities.json")
	if err := os.WriteFile(path, []byte(sampleDataset), 0o644); err != nil {
		t.Fatal(err)
	}

	cat := Load(context.Background(), path, nil, nil)

	if cat.Metadata.GeneratedOn != "2025-06-01" || cat.Metadata.RankingNote != "QS World University Rankings 2025" {
		t.Errorf("metadata not passed through: %+v", cat.Metadata)
	}
	if len(cat.Universities) != 1 || cat.Dropped != 1 {
		t.Fatalf("expected 1 university and 1 dropped, got %d and %d", len(cat.Universities), cat.Dropped)
	}
	u := cat.Universities[0]
	if u.AppDeadline.Formatted != "December 15, 2025" || u.AcceptanceRate.Display != "27% (est.)" {
		t.Errorf("unexpected derived fields: %+v", u)
	}
}

func TestLoad_FailuresResolveToEmpty(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"universities": [`), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, source := range []string{"", filepath.Join(dir, "missing.json"), bad, "https://example.invalid/data.json"} {
		cat := Load(context.Background(), source, nil, nil)
		if cat == nil {
			t.Fatalf("%q: expected catalog, got nil", source)
		}
		if cat.Universities == nil || len(cat.Universities) != 0 {
			t.Errorf("%q: expected empty collection, got %d", source, len(cat.Universities))
		}
		if cat.Metadata.GeneratedOn != "" || cat.Metadata.RankingNote != "" {
			t.Errorf("%q: expected empty metadata", source)
		}
	}
}

func TestLoad_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleDataset))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(FetchConfig{TimeoutSeconds: 5})
	fetcher.AllowPrivate = true

	cat := Load(context.Background(), srv.URL+"/universities.json", fetcher, nil)
	if len(cat.Universities) != 1 {
		t.Fatalf("expected 1 university, got %d", len(cat.Universities))
	}
}

func TestReadDataset_EmptyDocument(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cat := NewCatalog(ds)
	if len(cat.Universities) != 0 || cat.Dropped != 0 {
		t.Fatalf("expected empty catalog, got %+v", cat)
	}
}

func TestReadDataset_BadFieldsStayInTheirRecord(t *testing.T) {
	doc := `{
		"generatedOn": "2025-06-01",
		"rankingNote": "QS 2025",
		"universities": [
			{"rank": 1, "name": "ETH Zurich", "cityCountry": "Zurich, Switzerland",
			 "ranking": {"system": "QS", "value": 7}, "acceptanceRate": {"value": 27}},
			{"rank": 2, "name": "String Values", "cityCountry": "Toronto, Canada",
			 "ranking": {"system": "QS", "value": "12"}, "acceptanceRate": {"value": "43%", "estimated": "yes"}},
			{"rank": 3, "name": "Wrong Shapes", "cityCountry": "Paris, France",
			 "ranking": "QS 20", "acceptanceRate": {"value": [1]}, "programs": "Physics"},
			"not a record"
		]
	}`

	ds, err := ReadDataset(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("expected lenient decode, got %v", err)
	}
	cat := NewCatalog(ds)

	if cat.Metadata.GeneratedOn != "2025-06-01" || cat.Metadata.RankingNote != "QS 2025" {
		t.Errorf("metadata lost: %+v", cat.Metadata)
	}
	if len(cat.Universities) != 3 || cat.Dropped != 1 {
		t.Fatalf("expected 3 universities and 1 dropped, got %d and %d", len(cat.Universities), cat.Dropped)
	}

	tests := []struct {
		ranking  string
		rate     string
		programs int
	}{
		{"QS #7", "27%", 0},
		{"QS #12", "43%", 0},
		{" #N/A", "N/A", 0},
	}
	for i, tt := range tests {
		u := cat.Universities[i]
		if u.Ranking.Display != tt.ranking || u.AcceptanceRate.Display != tt.rate {
			t.Errorf("%s: expected %q / %q, got %q / %q", u.Name, tt.ranking, tt.rate, u.Ranking.Display, u.AcceptanceRate.Display)
		}
		if len(u.Programs) != tt.programs {
			t.Errorf("%s: expected %d programs, got %v", u.Name, tt.programs, u.Programs)
		}
	}
	if cat.Universities[2].CityCountry != "Paris, France" {
		t.Errorf("expected the rest of a record with bad fields to survive, got %+v", cat.Universities[2])
	}
}
