package models

// All lists every table model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&RecordModel{},
		&LeaveRequestModel{},
		&ShipmentModel{},
		&CargoItemModel{},
		&TrackingUpdateModel{},
		&ShipmentDocumentModel{},
		&CargoRequestModel{},
		&MessageModel{},
	}
}
