package validate

import (
	"github.com/gridforge/tabular/internal/table/schema"
)

// Violation records one failed check against one cell.
type Violation struct {
	RowID    string   `json:"row_id"`
	RowIndex int      `json:"row_index"`
	Column   string   `json:"column"`
	Rule     RuleType `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// ColumnReport aggregates outcomes for every rule bound to one column.
type ColumnReport struct {
	Column      string  `json:"column"`
	Rules       int     `json:"rules"`
	Checks      int     `json:"checks"`
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
	ErrorRate   float64 `json:"error_rate"`
	WarningRate float64 `json:"warning_rate"`
	Score       float64 `json:"score"`
}

// Report is the outcome of a validation run.
type Report struct {
	TotalRows    int            `json:"total_rows"`
	ValidRows    int            `json:"valid_rows"`
	WarningRows  int            `json:"warning_rows"`
	InvalidRows  int            `json:"invalid_rows"`
	Score        float64        `json:"score"`
	Violations   []Violation    `json:"violations"`
	Columns      []ColumnReport `json:"columns"`
}

// Run checks every rule against every row and scores the result.
//
// A row is invalid when at least one error-severity rule fails for it;
// rows with only warning or info failures count as warning rows. The
// dataset score is 100 - errorRate*100 - warningRate*30 where the rates
// are the invalid and warning row fractions. Column scores use the same
// shape with failed-check fractions and a warning weight of 50. Both
// floor at zero.
func Run(rows []schema.Row, rules []Rule) (Report, error) {
	compiled, err := compile(rules, rows)
	if err != nil {
		return Report{}, err
	}

	report := Report{TotalRows: len(rows)}
	columnOrder := make([]string, 0)
	columnStats := make(map[string]*ColumnReport)
	for _, cr := range compiled {
		stats, ok := columnStats[cr.Column]
		if !ok {
			stats = &ColumnReport{Column: cr.Column}
			columnStats[cr.Column] = stats
			columnOrder = append(columnOrder, cr.Column)
		}
		stats.Rules++
	}

	for i, row := range rows {
		rowErrors, rowWarnings := 0, 0
		for r := range compiled {
			cr := &compiled[r]
			stats := columnStats[cr.Column]
			stats.Checks++

			ok, msg := cr.check(row.Get(cr.Column))
			if ok {
				continue
			}
			report.Violations = append(report.Violations, Violation{
				RowID:    row.ID,
				RowIndex: i,
				Column:   cr.Column,
				Rule:     cr.Type,
				Severity: cr.Severity,
				Message:  msg,
			})
			if cr.Severity == SeverityError {
				rowErrors++
				stats.Errors++
			} else {
				rowWarnings++
				stats.Warnings++
			}
		}
		switch {
		case rowErrors > 0:
			report.InvalidRows++
		case rowWarnings > 0:
			report.WarningRows++
		default:
			report.ValidRows++
		}
	}

	if report.TotalRows > 0 {
		errorRate := float64(report.InvalidRows) / float64(report.TotalRows)
		warningRate := float64(report.WarningRows) / float64(report.TotalRows)
		report.Score = schema.Round1(clampScore(100 - errorRate*100 - warningRate*30))
	} else {
		report.Score = 100
	}

	for _, key := range columnOrder {
		stats := columnStats[key]
		if stats.Checks > 0 {
			stats.ErrorRate = schema.Round1(float64(stats.Errors) / float64(stats.Checks) * 100)
			stats.WarningRate = schema.Round1(float64(stats.Warnings) / float64(stats.Checks) * 100)
			errorRate := float64(stats.Errors) / float64(stats.Checks)
			warningRate := float64(stats.Warnings) / float64(stats.Checks)
			stats.Score = schema.Round1(clampScore(100 - errorRate*100 - warningRate*50))
		} else {
			stats.Score = 100
		}
		report.Columns = append(report.Columns, *stats)
	}
	return report, nil
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	return s
}
