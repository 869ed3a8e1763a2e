package handler

import "ridehail/internal/domain"

// ReceiptResponse is the HTTP response for a ride receipt.
type ReceiptResponse struct {
	ID             string  `json:"id"`
	RideID         string  `json:"ride_id"`
	PassengerName  string  `json:"passenger_name"`
	PassengerEmail string  `json:"passenger_email"`
	DriverName     string  `json:"driver_name,omitempty"`
	PaymentMethod  string  `json:"payment_method"`
	TotalPrice     float64 `json:"total_price"`
	Content        string  `json:"content"`
	CreatedAt      string  `json:"created_at"`
}

func receiptResponse(receipt *domain.Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:             receipt.ID,
		RideID:         receipt.RideID,
		PassengerName:  receipt.PassengerName,
		PassengerEmail: receipt.PassengerEmail,
		DriverName:     receipt.DriverName,
		PaymentMethod:  receipt.PaymentMethodLabel,
		TotalPrice:     receipt.TotalPrice,
		Content:        receipt.Content,
		CreatedAt:      receipt.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
