package export_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"review_demand/internal/adapters/export"
	"review_demand/internal/domain"
)

func sampleReport() domain.Report {
	res := domain.EmptyAnalysis()
	res.TotalReviewsAnalyzed = 5
	res.AvgRating = 2.6
	res.SentimentScore = 0.52
	res.TopComplaints = []domain.Ranked{{Term: "keine toiletten", Count: 2}}
	res.UnmetNeeds = []domain.Ranked{{Term: "toilets", Count: 4}}
	return domain.Report{
		Category: "Spielplätze",
		City:     "München",
		Analysis: res,
		ContentIdeas: []domain.ContentIdea{{
			Type: "Filter Feature", Title: `Add a "toilets" filter`, Description: "Parks & Gärten",
			Priority: domain.PriorityHigh, EstimatedImpact: "e", Implementation: "- i",
		}},
		Parameters: domain.ReportParameters{MaxPlaces: 30, MinReviews: 100},
	}
}

func TestEncode_LayoutAndUnicode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Encode(&buf, sampleReport()))
	out := buf.String()

	require.Contains(t, out, `"city": "München"`)
	require.Contains(t, out, "\n  \"analysis\": {")
	require.Contains(t, out, `"keine toiletten",`)
	require.Contains(t, out, `"description": "Parks & Gärten"`)
	require.NotContains(t, out, `\u00fc`)
	require.NotContains(t, out, `\u0026`)
	require.NoError(t, export.Validate(buf.Bytes()))
}

func TestValidate_RejectsBrokenDocuments(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Encode(&buf, sampleReport()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	delete(doc["analysis"].(map[string]any), "unmet_needs")
	b, _ := json.Marshal(doc)
	require.ErrorIs(t, export.Validate(b), export.ErrInvalidReport)

	doc["analysis"].(map[string]any)["unmet_needs"] = []any{map[string]any{"term": "x"}}
	b, _ = json.Marshal(doc)
	require.ErrorIs(t, export.Validate(b), export.ErrInvalidReport)

	require.Error(t, export.Validate([]byte("{")))
}

func TestValidate_EmptyAnalysis(t *testing.T) {
	rep := sampleReport()
	rep.Analysis = domain.EmptyAnalysis()
	rep.ContentIdeas = []domain.ContentIdea{}

	var buf bytes.Buffer
	require.NoError(t, export.Encode(&buf, rep))
	require.NoError(t, export.Validate(buf.Bytes()))
}

func TestWriteFile_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "report.json")
	require.NoError(t, export.WriteFile(path, sampleReport()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), "{\n  \"category\": \"Spielplätze\""))
}

func TestWriteFile_RejectsInvalidReport(t *testing.T) {
	rep := sampleReport()
	rep.City = ""
	path := filepath.Join(t.TempDir(), "report.json")

	require.ErrorIs(t, export.WriteFile(path, rep), export.ErrInvalidReport)
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}
