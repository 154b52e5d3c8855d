package ingest

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/david/uni-finder/internal/models"
)

// CitationStatus is the outcome of visiting one citation URL.
type CitationStatus struct {
	UniversityID uuid.UUID `json:"university_id"`
	University   string    `json:"university"`
	URL          string    `json:"url"`
	StatusCode   int       `json:"status_code"`
	OK           bool      `json:"ok"`
	Error        string    `json:"error,omitempty"`
}

// CheckCitations visits every distinct citation URL once, in record order.
// A URL cited by several universities is reported for the first one only.
func CheckCitations(ctx context.Context, fetcher Fetcher, records []models.University, logger *zap.Logger) []CitationStatus {
	if logger == nil {
		logger = zap.NewNop()
	}

	seen := make(map[string]struct{})
	results := []CitationStatus{}

	for _, u := range records {
		for _, link := range sanitizeStringSlice(u.Citations) {
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}

			if ctx.Err() != nil {
				return results
			}

			status := CitationStatus{UniversityID: u.ID, University: u.Name, URL: link}
			if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
				status.Error = "not an absolute http(s) URL"
				results = append(results, status)
				continue
			}

			doc, err := fetcher.Fetch(ctx, link)
			if err != nil {
				var se *StatusError
				if errors.As(err, &se) {
					status.StatusCode = se.Code
				}
				status.Error = err.Error()
				logger.Debug("citation unreachable", zap.String("url", link), zap.Error(err))
			} else {
				status.StatusCode = doc.StatusCode
				status.OK = doc.StatusCode >= 200 && doc.StatusCode < 400
				doc.Body.Close()
			}
			results = append(results, status)
		}
	}
	return results
}
