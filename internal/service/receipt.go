package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ridehail/internal/domain"
)

// ReceiptService renders plain-text receipts for completed rides.
type ReceiptService struct{}

// NewReceiptService creates a new ReceiptService.
func NewReceiptService() *ReceiptService {
	return &ReceiptService{}
}

// Build renders the receipt for a completed ride. The driver may be nil when
// the assignment record is gone; the receipt then omits the driver block.
func (s *ReceiptService) Build(ride *domain.Ride, passenger *domain.Passenger, driver *domain.Driver, totalPrice float64) *domain.Receipt {
	receipt := &domain.Receipt{
		ID:                 uuid.New().String(),
		RideID:             ride.ID,
		PassengerName:      passenger.Name,
		PassengerEmail:     passenger.Email,
		PaymentMethodLabel: ride.PaymentMethod.Label(),
		TotalPrice:         totalPrice,
		CreatedAt:          time.Now().UTC(),
	}
	if driver != nil {
		receipt.DriverName = driver.Name
		receipt.DriverEmail = driver.Email
	}
	receipt.Content = s.render(ride, receipt)
	return receipt
}

func (s *ReceiptService) render(ride *domain.Ride, r *domain.Receipt) string {
	var b strings.Builder

	b.WriteString("========== RIDE RECEIPT ==========\n")
	fmt.Fprintf(&b, "Receipt:     %s\n", r.ID)
	fmt.Fprintf(&b, "Ride:        %s\n", ride.ID)
	fmt.Fprintf(&b, "Date:        %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	b.WriteString("----------------------------------\n")
	fmt.Fprintf(&b, "Passenger:   %s\n", r.PassengerName)
	if r.DriverName != "" {
		fmt.Fprintf(&b, "Driver:      %s\n", r.DriverName)
	}
	fmt.Fprintf(&b, "Category:    %s\n", ride.Category)
	fmt.Fprintf(&b, "From:        %s\n", ride.Origin.Address)
	fmt.Fprintf(&b, "To:          %s\n", ride.Destination.Address)
	b.WriteString("----------------------------------\n")
	fmt.Fprintf(&b, "Payment:     %s\n", r.PaymentMethodLabel)
	fmt.Fprintf(&b, "Total:       %.2f\n", r.TotalPrice)
	b.WriteString("==================================\n")

	return b.String()
}
