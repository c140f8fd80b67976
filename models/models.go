package models

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Currency{},
		&Company{},
		&User{},
		&Staff{},
		&Space{},
		&Service{},
		&Product{},
		&ProductVariant{},
		&Appointment{},
		&Sale{},
		&SaleItem{},
		&ReminderTemplate{},
		&ReminderLog{},
	}
}
