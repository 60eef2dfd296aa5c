package shipment

import (
	domainShipment "company-data-manager/internal/domain/shipment"
	appErrors "company-data-manager/pkg/errors"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var validTransitions = map[domainShipment.Status][]domainShipment.Status{
	domainShipment.StatusPending: {
		domainShipment.StatusInTransit,
		domainShipment.StatusCancelled,
	},
	domainShipment.StatusInTransit: {
		domainShipment.StatusCustoms,
		domainShipment.StatusCancelled,
	},
	domainShipment.StatusCustoms: {
		domainShipment.StatusDelivered,
		domainShipment.StatusCancelled,
	},
	domainShipment.StatusDelivered: {
		// Terminal state - no transitions
	},
	domainShipment.StatusCancelled: {
		// Terminal state - no transitions
	},
}

// ValidateStatusTransition checks if status transition is allowed
func ValidateStatusTransition(currentStatus, newStatus domainShipment.Status) error {
	for _, allowed := range validTransitions[currentStatus] {
		if newStatus == allowed {
			return nil
		}
	}
	return domainShipment.ErrInvalidTransition(currentStatus, newStatus)
}

// GetAllowedTransitions returns allowed next statuses
func GetAllowedTransitions(currentStatus domainShipment.Status) []domainShipment.Status {
	return validTransitions[currentStatus]
}

// ValidateArrival rejects an actual arrival date unless the shipment is being delivered.
func ValidateArrival(target domainShipment.Status, actualArrival *time.Time) error {
	if actualArrival != nil && target != domainShipment.StatusDelivered {
		return domainShipment.ErrArrivalDateMisused
	}
	return nil
}

// ValidateTimeRange validates departure and expected arrival dates
func ValidateTimeRange(departure, expectedArrival *time.Time) error {
	if departure == nil || expectedArrival == nil {
		return nil // Optional fields
	}
	if expectedArrival.Before(*departure) {
		return domainShipment.ErrArrivalBeforeDepart
	}
	return nil
}

func validateMoney(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return appErrors.Validation(field, field+" must not be negative")
	}
	return nil
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return nil, appErrors.Validation(field, field+" must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}
