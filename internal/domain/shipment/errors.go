package shipment

import (
	"fmt"

	appErrors "company-data-manager/pkg/errors"
)

var (
	ErrShipmentNumberTaken = appErrors.Validation("shipment_number", "shipment number already exists")
	ErrArrivalDateMisused  = appErrors.Validation("actual_arrival", "actual arrival can only be set when the shipment is delivered")
	ErrArrivalBeforeDepart = appErrors.Validation("expected_arrival", "expected arrival must not be before departure")
	ErrClientRequired      = appErrors.Validation("client_id", "shipment client must be a client account")
)

func ErrInvalidTransition(from, to Status) error {
	return appErrors.Validation("status", fmt.Sprintf("cannot change shipment status from %s to %s", from, to))
}
