package schema

import "strings"

// Relation is a best-effort suggestion that two sheets share a joinable
// column. Detection is a shared-name heuristic for host UI hints only; the
// engines never perform cross-sheet joins.
type Relation struct {
	FromSheet  string  `json:"from_sheet"`
	ToSheet    string  `json:"to_sheet"`
	Column     string  `json:"column"`
	Confidence float64 `json:"confidence"`
}

const relationSample = 200

// DetectRelations scans every pair of sheets for columns with the same key.
// A name match scores 0.5, a matching inferred type adds 0.3, and overlap
// of sampled values above half adds 0.2.
func DetectRelations(book *Book) []Relation {
	if book == nil || len(book.Order) < 2 {
		return nil
	}

	var relations []Relation
	for i := 0; i < len(book.Order); i++ {
		for j := i + 1; j < len(book.Order); j++ {
			left, right := book.Sheets[book.Order[i]], book.Sheets[book.Order[j]]
			if left == nil || right == nil {
				continue
			}
			for _, lc := range left.Columns {
				for _, rc := range right.Columns {
					if !strings.EqualFold(lc.Key, rc.Key) {
						continue
					}
					confidence := 0.5
					if lc.Type == rc.Type {
						confidence += 0.3
					}
					if valueOverlap(left.Rows, lc.Key, right.Rows, rc.Key) > 0.5 {
						confidence += 0.2
					}
					relations = append(relations, Relation{
						FromSheet:  book.Order[i],
						ToSheet:    book.Order[j],
						Column:     lc.Key,
						Confidence: Round2(confidence),
					})
				}
			}
		}
	}
	return relations
}

// valueOverlap measures the share of sampled left values present on the
// right, keyed by string form.
func valueOverlap(left []Row, leftKey string, right []Row, rightKey string) float64 {
	seen := make(map[string]struct{})
	for i, row := range right {
		if i == relationSample {
			break
		}
		if v := row.Get(rightKey); !Empty(v) {
			seen[Text(v)] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return 0
	}

	sampled, hits := 0, 0
	for i, row := range left {
		if i == relationSample {
			break
		}
		v := row.Get(leftKey)
		if Empty(v) {
			continue
		}
		sampled++
		if _, ok := seen[Text(v)]; ok {
			hits++
		}
	}
	if sampled == 0 {
		return 0
	}
	return float64(hits) / float64(sampled)
}
