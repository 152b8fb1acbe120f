package handler

import (
	"encoding/json"

	"sanctionscan/internal/screening/models"
)

// MatchTriple is a match serialized as [queryName, matchedName, score].
type MatchTriple struct {
	QueryName   string
	MatchedName string
	Score       int
}

func (t MatchTriple) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{t.QueryName, t.MatchedName, t.Score})
}

func (t *MatchTriple) UnmarshalJSON(data []byte) error {
	var raw [3]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &t.QueryName); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &t.MatchedName); err != nil {
		return err
	}
	return json.Unmarshal(raw[2], &t.Score)
}

// ReportResponse is the HTTP response for GET /sanctions_check.
type ReportResponse struct {
	OFAC []MatchTriple `json:"OFAC Matches"`
	EU   []MatchTriple `json:"EU Matches"`
	UK   []MatchTriple `json:"UK Matches"`
	UN   []MatchTriple `json:"UN Matches"`
}

// FromReport converts a MatchReport to the response shape. Empty buckets
// serialize as [].
func FromReport(report *models.MatchReport) *ReportResponse {
	return &ReportResponse{
		OFAC: triples(report.OFAC),
		EU:   triples(report.EU),
		UK:   triples(report.UK),
		UN:   triples(report.UN),
	}
}

func triples(results []models.MatchResult) []MatchTriple {
	out := make([]MatchTriple, len(results))
	for i, r := range results {
		out[i] = MatchTriple{QueryName: r.QueryName, MatchedName: r.MatchedName, Score: r.Score}
	}
	return out
}
