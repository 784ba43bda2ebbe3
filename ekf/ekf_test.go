package ekf

import (
	"testing"

	"go.viam.com/test"

	"github.com/steeringfunctions/steeringfunctions/control"
	"github.com/steeringfunctions/steeringfunctions/state"
)

func TestPredictInjectsProcessNoise(t *testing.T) {
	d := NewDefault()
	d.SetParameters(MotionNoise{Alpha1: 0.1, Alpha2: 0.1, Alpha3: 0.1, Alpha4: 0.1}, MeasurementNoise{}, Controller{})

	prev := state.NewWithCovariance(state.State{})
	pred := d.Predict(prev, control.Control{Delta: 1, Kappa: 0.5}, 2.0)

	test.That(t, pred.Sigma.At(0, 0), test.ShouldEqual, 0.2)
	test.That(t, pred.Sigma.At(1, 1), test.ShouldEqual, 0.2)
}

func TestUpdateSnapsToNextPose(t *testing.T) {
	d := NewDefault()
	d.SetParameters(MotionNoise{Alpha1: 0.1}, MeasurementNoise{SigmaX: 1, SigmaY: 1, SigmaTheta: 1}, Controller{K1: 0.1, K2: 0.1, K3: 0.1})

	prev := state.NewWithCovariance(state.State{})
	pred := d.Predict(prev, control.Control{Delta: 1}, 1.0)
	next := state.State{X: 3, Y: 4, Theta: 0.5}
	updated := d.Update(pred, next)

	test.That(t, updated.State, test.ShouldResemble, next)
}

func TestPredictThenUpdateSequence(t *testing.T) {
	d := NewDefault()
	d.SetParameters(MotionNoise{Alpha1: 0.05, Alpha2: 0.05, Alpha3: 0.05, Alpha4: 0.05},
		MeasurementNoise{SigmaX: 0.5, SigmaY: 0.5, SigmaTheta: 0.5}, Controller{K1: 0.2, K2: 0.2, K3: 0.2})

	cur := state.NewWithCovariance(state.State{})
	controls := []control.Control{{Delta: 4, Kappa: 0}}
	for _, c := range controls {
		pred := d.Predict(cur, c, c.Delta)
		next := state.State{X: c.Delta}
		cur = d.Update(pred, next)
	}
	test.That(t, cur.State.X, test.ShouldEqual, 4.0)
}
