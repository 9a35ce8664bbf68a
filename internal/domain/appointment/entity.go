package appointment

import (
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Confirm moves ap to CONFIRMED. It returns false when ap already was.
func Confirm(ap *models.Appointment) (bool, error) {
	changed, err := CanConfirm(State(ap.State))
	if err != nil || !changed {
		return false, err
	}

	ap.State = string(StateConfirmed)
	ap.Completed = false
	return true, nil
}

// Cancel moves ap to CANCELED. It returns false when ap already was.
func Cancel(ap *models.Appointment) (bool, error) {
	changed, err := CanCancel(State(ap.State))
	if err != nil || !changed {
		return false, err
	}

	ap.State = string(StateCanceled)
	ap.Completed = false
	return true, nil
}
