package entity

import "strings"

// DeliveryAddress is embedded into orders; street and city are mandatory,
// the rest is free-form.
type DeliveryAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

func (a DeliveryAddress) Complete() bool {
	return strings.TrimSpace(a.Street) != "" && strings.TrimSpace(a.City) != ""
}
