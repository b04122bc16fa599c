package optim

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Projected stochastic (sub)gradient descent with a fixed learning rate.
// Project, when set, maps the updated weights back onto the feasible set.
type SGD struct {
	LearningRate float64
	Project      func(w []float64)
}

func NewSGD(lr float64) *SGD { return &SGD{LearningRate: lr} }

// NewProjectedSGD is NewSGD followed by a projection after every step.
func NewProjectedSGD(lr float64, project func(w []float64)) *SGD {
	return &SGD{LearningRate: lr, Project: project}
}

func (o *SGD) Step(weights, grads []float64) { // in-place update using pointer receiver
	floats.AddScaled(weights, -o.LearningRate, grads)
	if o.Project != nil {
		o.Project(weights)
	}
}

// RegretRate is the fixed step size M/(rho*sqrt(T)) from the online convex
// optimization regret bound, for a domain of diameter M whose points have
// norm at most rho, run for T steps.
func RegretRate(diameter, rho float64, steps int) float64 {
	return diameter / (rho * math.Sqrt(float64(steps)))
}
