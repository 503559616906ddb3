package ml

import (
	"math"

	"github.com/gridforge/tabular/internal/table/schema"
)

// Classifier is a fitted Naive Bayes model over categorical features.
// Conditional probabilities are Laplace smoothed and scored in log
// space; class ties resolve to the earliest class seen during training.
type Classifier struct {
	Config  Config   `json:"config"`
	Classes []string `json:"classes"`

	TrainAccuracy float64      `json:"train_accuracy"`
	TestAccuracy  float64      `json:"test_accuracy"`
	Metrics       ClassMetrics `json:"metrics"`
	Predictions   []string     `json:"predictions"`

	classCounts  map[string]int
	featureCount map[string]map[int]map[string]int
	featureSeen  []map[string]struct{}
	trained      int
}

// TrainClassifier fits Naive Bayes on the train split and evaluates
// accuracy and per-class precision/recall/F1 on the test split.
func TrainClassifier(rows []schema.Row, cfg Config) (*Classifier, error) {
	train, test, err := prepare(rows, cfg)
	if err != nil {
		return nil, err
	}

	c := &Classifier{
		Config:       cfg,
		classCounts:  make(map[string]int),
		featureCount: make(map[string]map[int]map[string]int),
		featureSeen:  make([]map[string]struct{}, len(cfg.Features)),
	}
	for i := range c.featureSeen {
		c.featureSeen[i] = make(map[string]struct{})
	}

	for _, row := range train {
		class := schema.Text(row.Get(cfg.Target))
		if _, seen := c.classCounts[class]; !seen {
			c.Classes = append(c.Classes, class)
			c.featureCount[class] = make(map[int]map[string]int)
			for i := range cfg.Features {
				c.featureCount[class][i] = make(map[string]int)
			}
		}
		c.classCounts[class]++
		for i, f := range cfg.Features {
			v := schema.Text(row.Get(f))
			c.featureCount[class][i][v]++
			c.featureSeen[i][v] = struct{}{}
		}
	}
	c.trained = len(train)

	trainActual, trainPred := c.evaluate(train)
	c.TrainAccuracy = accuracy(trainActual, trainPred)

	testActual, testPred := c.evaluate(test)
	c.TestAccuracy = accuracy(testActual, testPred)
	c.Predictions = testPred
	c.Metrics = classMetrics(c.Classes, testActual, testPred)
	return c, nil
}

// Predict scores one row against every class and returns the best.
func (c *Classifier) Predict(row schema.Row) string {
	best := ""
	bestScore := math.Inf(-1)
	for _, class := range c.Classes {
		score := math.Log(float64(c.classCounts[class]) / float64(c.trained))
		classTotal := c.classCounts[class]
		for i, f := range c.Config.Features {
			v := schema.Text(row.Get(f))
			count := c.featureCount[class][i][v]
			distinct := len(c.featureSeen[i])
			p := float64(count+1) / float64(classTotal+distinct)
			score += math.Log(p)
		}
		// Strict comparison keeps the first class on ties.
		if score > bestScore {
			bestScore = score
			best = class
		}
	}
	return best
}

func (c *Classifier) evaluate(rows []schema.Row) (actual, predicted []string) {
	actual = make([]string, len(rows))
	predicted = make([]string, len(rows))
	for i, row := range rows {
		actual[i] = schema.Text(row.Get(c.Config.Target))
		predicted[i] = c.Predict(row)
	}
	return actual, predicted
}
