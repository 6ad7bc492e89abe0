package models

// Order is the dispensing order returned for an accepted code.
type Order struct {
	ID    string      `json:"id"`
	Items []OrderItem `json:"items"`
}

// OrderItem is one dispensed item as shown on the success screen.
type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Dosage   string `json:"dosage,omitempty"`
}
