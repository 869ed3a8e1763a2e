package domain

// Tariff holds the fare parameters for one vehicle category. The full set of
// tariffs is fixed when the pricing service is constructed.
type Tariff struct {
	Category        string
	BaseFare        float64
	PricePerKm      float64
	PricePerMinute  float64
	AverageSpeedKmH float64

	// Premium categories dispatch on driver rating before distance.
	Premium bool
}

// PricingQuote is a priced estimate for one category on one route. Quotes are
// derived data and never mutated after creation.
type PricingQuote struct {
	Category     string
	DistanceKm   float64
	EtaMinutes   int
	BaseFare     float64
	DistanceCost float64
	TimeCost     float64
	TotalPrice   float64
}
