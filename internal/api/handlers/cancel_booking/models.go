package cancel_booking

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
	ExpectedVersion    *int64  `json:"expectedVersion,omitempty"`
}
