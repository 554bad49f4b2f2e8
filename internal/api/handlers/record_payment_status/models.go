package record_payment_status

// RecordPaymentStatusRequest HTTP request model
type RecordPaymentStatusRequest struct {
	PaymentStatus   string `json:"paymentStatus"`
	ExpectedVersion *int64 `json:"expectedVersion,omitempty"`
}
