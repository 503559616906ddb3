package ml

import "github.com/gridforge/tabular/internal/table/schema"

// PerClass carries the classification metrics for one class.
type PerClass struct {
	Class     string  `json:"class"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// ClassMetrics is the full evaluation of a classifier on one split.
type ClassMetrics struct {
	Accuracy  float64          `json:"accuracy"`
	PerClass  []PerClass       `json:"per_class"`
	Confusion map[string]map[string]int `json:"confusion"`
}

func accuracy(actual, predicted []string) float64 {
	if len(actual) == 0 {
		return 0
	}
	correct := 0
	for i := range actual {
		if actual[i] == predicted[i] {
			correct++
		}
	}
	return schema.Round2(float64(correct) / float64(len(actual)))
}

// classMetrics builds the confusion matrix and derives per-class
// precision, recall, and F1. Any zero denominator yields 0, never NaN.
func classMetrics(classes []string, actual, predicted []string) ClassMetrics {
	confusion := make(map[string]map[string]int, len(classes))
	for _, c := range classes {
		confusion[c] = make(map[string]int, len(classes))
	}
	for i := range actual {
		if _, ok := confusion[actual[i]]; !ok {
			confusion[actual[i]] = make(map[string]int)
		}
		confusion[actual[i]][predicted[i]]++
	}

	metrics := ClassMetrics{
		Accuracy:  accuracy(actual, predicted),
		Confusion: confusion,
	}
	for _, class := range classes {
		tp := confusion[class][class]
		fp, fn := 0, 0
		for other := range confusion {
			if other == class {
				continue
			}
			fp += confusion[other][class]
			fn += confusion[class][other]
		}
		precision := safeRatio(tp, tp+fp)
		recall := safeRatio(tp, tp+fn)
		f1 := 0.0
		if precision+recall > 0 {
			f1 = schema.Round2(2 * precision * recall / (precision + recall))
		}
		metrics.PerClass = append(metrics.PerClass, PerClass{
			Class:     class,
			Precision: schema.Round2(precision),
			Recall:    schema.Round2(recall),
			F1:        f1,
		})
	}
	return metrics
}

func safeRatio(num, denom int) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}
