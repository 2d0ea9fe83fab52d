package models

// Address represents a delivery address in the address book.
type Address struct {
	ID                  string     `json:"id"`
	FullAddress         string     `json:"fullAddress"`
	TimeWindow          TimeWindow `json:"timeWindow"`
	ExactDeliveryTime   *string    `json:"exactDeliveryTime,omitempty"`
	Priority            Priority   `json:"priority"`
	SpecialInstructions *string    `json:"specialInstructions,omitempty"`
	CreatedAt           Timestamp  `json:"createdAt"`
	UpdatedAt           Timestamp  `json:"updatedAt"`
}

// AddressCreateRequest is the request body for creating an address.
type AddressCreateRequest struct {
	FullAddress         string      `json:"fullAddress" validate:"required,min=1,max=300"`
	TimeWindow          *TimeWindow `json:"timeWindow,omitempty"`
	ExactDeliveryTime   *string     `json:"exactDeliveryTime,omitempty" validate:"omitempty,time_hhmm"`
	Priority            *Priority   `json:"priority,omitempty"`
	SpecialInstructions *string     `json:"specialInstructions,omitempty" validate:"omitempty,max=500"`
}

// AddressUpdateRequest is the request body for updating an address.
type AddressUpdateRequest struct {
	FullAddress         *string     `json:"fullAddress,omitempty" validate:"omitempty,min=1,max=300"`
	TimeWindow          *TimeWindow `json:"timeWindow,omitempty"`
	ExactDeliveryTime   *string     `json:"exactDeliveryTime,omitempty" validate:"omitempty,time_hhmm"`
	Priority            *Priority   `json:"priority,omitempty"`
	SpecialInstructions *string     `json:"specialInstructions,omitempty" validate:"omitempty,max=500"`
}

// AddressImportRequest is the request body for bulk-importing addresses.
type AddressImportRequest struct {
	Items []AddressCreateRequest `json:"items" validate:"required,min=1,max=500"`
}

// AddressImportResponse reports the outcome of a bulk import.
type AddressImportResponse struct {
	Imported []Address    `json:"imported"`
	Rejected []FieldError `json:"rejected,omitempty"`
}

// PagedAddresses represents a paginated list of addresses.
type PagedAddresses struct {
	Items []Address         `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
