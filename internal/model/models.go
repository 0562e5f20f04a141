package model

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&Privilege{}, &Role{}, &Department{}, &User{},
		&Category{}, &Asset{},
		&SaleRecord{}, &Order{}, &TransferRecord{}, &AssignmentRecord{},
	}
}
