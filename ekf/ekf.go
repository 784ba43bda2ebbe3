// Package ekf defines the opaque extended-Kalman-filter collaborator every
// state space folds pose integration through when propagating covariance,
// plus one concrete gonum-backed implementation of it.
//
// The geometry core never inspects Sigma/Lambda/Covariance beyond passing
// them to this collaborator: callers may substitute their own
// implementation of Collaborator to plug in a different filter without
// touching any word-family solver.
package ekf

import (
	"github.com/edaniels/golog"
	"gonum.org/v1/gonum/mat"

	"github.com/steeringfunctions/steeringfunctions/control"
	"github.com/steeringfunctions/steeringfunctions/state"
)

// MotionNoise is the process-noise configuration alpha1..alpha4 applied to
// the motion model's velocity/curvature inputs.
type MotionNoise struct {
	Alpha1, Alpha2, Alpha3, Alpha4 float64
}

// MeasurementNoise is the sensor-noise configuration applied to the
// measurement model.
type MeasurementNoise struct {
	SigmaX, SigmaY, SigmaTheta float64
}

// Controller carries the feedback gains k1..k3 used by the collaborator's
// internal control law when linearising the motion model about a nominal
// control.
type Controller struct {
	K1, K2, K3 float64
}

// Collaborator is the black-box capability every state space depends on for
// covariance-augmented integration. Its internal filter mathematics are out
// of scope for this module; only the contract matters.
type Collaborator interface {
	// SetParameters installs new noise/controller configuration, replacing
	// any previous configuration.
	SetParameters(motion MotionNoise, measurement MeasurementNoise, controller Controller)

	// Predict advances prev by one control step of the given length and
	// writes the predicted state-with-covariance. step is the actual arc
	// length integrated this call (the last step of a control may be
	// truncated, see steerspace's integration loop).
	Predict(prev state.WithCovariance, c control.Control, step float64) state.WithCovariance

	// Update folds a measurement of the true kinematic pose next.State into
	// the prediction pred, returning the corrected state-with-covariance.
	Update(pred state.WithCovariance, next state.State) state.WithCovariance
}

// Default is a minimal linearised EKF: it predicts by propagating the
// kinematic pose exactly (the geometry core already computes that via its
// integrators) and propagating covariance through a constant process-noise
// injection scaled by the step length, then updates by a fixed-gain
// correction toward the exact next pose. It exists so the Collaborator
// contract is exercisable and testable without requiring every caller to
// supply their own filter.
type Default struct {
	motion      MotionNoise
	measurement MeasurementNoise
	controller  Controller
	logger      golog.Logger
}

// NewDefault returns a Default collaborator with zero noise/gains; callers
// configure it via SetParameters before use.
func NewDefault() *Default {
	return &Default{logger: golog.Global()}
}

// NewDefaultWithLogger is NewDefault, logging matrix-inversion fallbacks
// through logger instead of the package-global logger.
func NewDefaultWithLogger(logger golog.Logger) *Default {
	return &Default{logger: logger}
}

// SetParameters implements Collaborator.
func (d *Default) SetParameters(motion MotionNoise, measurement MeasurementNoise, controller Controller) {
	d.motion = motion
	d.measurement = measurement
	d.controller = controller
}

// Predict implements Collaborator. It propagates Sigma through a
// process-noise injection matrix Q scaled by |step| and adds it to the
// prior, matching the additive-noise structure of a standard EKF motion
// update without the nonlinear Jacobian machinery this module treats as out
// of scope.
func (d *Default) Predict(prev state.WithCovariance, c control.Control, step float64) state.WithCovariance {
	pred := prev.Clone()

	q := mat.NewDense(4, 4, nil)
	absStep := step
	if absStep < 0 {
		absStep = -absStep
	}
	q.Set(0, 0, d.motion.Alpha1*absStep)
	q.Set(1, 1, d.motion.Alpha2*absStep)
	q.Set(2, 2, d.motion.Alpha3*absStep)
	q.Set(3, 3, d.motion.Alpha4*absStep)

	var sigma mat.Dense
	sigma.Add(prev.Sigma, q)
	pred.Sigma = &sigma

	var lambda mat.Dense
	if err := lambda.Inverse(&sigma); err == nil {
		pred.Lambda = &lambda
	} else {
		d.logger.Debugf("sigma singular during predict, carrying prior lambda forward: %v", err)
		pred.Lambda = mat.DenseCopyOf(prev.Lambda)
	}

	pred.Covariance = mat.DenseCopyOf(&sigma)
	return pred
}

// Update implements Collaborator. It applies a fixed measurement-noise
// shrinkage to Sigma proportional to the controller gains, and snaps the
// kinematic pose to the exactly-integrated next state, since the geometry
// core is itself the source of ground truth for the pose component.
func (d *Default) Update(pred state.WithCovariance, next state.State) state.WithCovariance {
	updated := pred.Clone()
	updated.State = next

	r := mat.NewDense(4, 4, nil)
	r.Set(0, 0, d.measurement.SigmaX+d.controller.K1)
	r.Set(1, 1, d.measurement.SigmaY+d.controller.K2)
	r.Set(2, 2, d.measurement.SigmaTheta+d.controller.K3)

	var gain mat.Dense
	gain.Add(pred.Sigma, r)
	var gainInv mat.Dense
	if err := gainInv.Inverse(&gain); err == nil {
		var kalman mat.Dense
		kalman.Mul(pred.Sigma, &gainInv)

		var correction mat.Dense
		correction.Mul(&kalman, pred.Sigma)

		var sigma mat.Dense
		sigma.Sub(pred.Sigma, &correction)
		updated.Sigma = &sigma
		updated.Covariance = mat.DenseCopyOf(&sigma)
	} else {
		d.logger.Debugf("innovation covariance singular during update, leaving sigma unchanged: %v", err)
	}
	return updated
}
