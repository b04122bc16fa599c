package model

// Classifier is a binary linear classifier over labels -1/+1.
type Classifier interface {
	// DecisionFunction returns the raw score w·x for each row of X.
	DecisionFunction(X [][]float64) []float64
	// Predict returns -1 or +1 for each row of X.
	Predict(X [][]float64) []float64
	// Weights returns the parameter vector, bias weight last.
	Weights() []float64
}
