package geo

import (
	"math"
	"strings"
)

// DefaultSpeedKmH is used when a travel time is requested without a valid
// category speed.
const DefaultSpeedKmH = 30.0

const (
	baseDistanceKm     = 2.0
	hashSpreadKm       = 23
	waitingTimeMinutes = 7
	minEtaMinutes      = 10
	maxEtaMinutes      = 120
)

// Estimator maps address strings to distance and travel-time proxies.
// It is a deterministic stand-in for a routing provider: the same inputs
// always produce the same outputs, so pricing stays repeatable. It performs
// no I/O and holds no state.
type Estimator struct{}

// NewEstimator creates a new Estimator.
func NewEstimator() *Estimator {
	return &Estimator{}
}

// DistanceKm derives a distance in kilometers from the two addresses,
// rounded to one decimal. Argument order matters: the hashes of origin and
// destination differ, so A→B and B→A can yield different distances.
func (e *Estimator) DistanceKm(origin, destination string) float64 {
	if origin == "" || destination == "" {
		return 0
	}

	originHash := addressHash(origin)
	destHash := addressHash(destination)

	distance := baseDistanceKm + float64(abs64(originHash-destHash)%hashSpreadKm)
	distance += float64(len(origin)+len(destination)) / 100.0

	return math.Round(distance*10) / 10
}

// TravelTimeMinutes estimates the minutes to cover distanceKm at speedKmH
// plus a fixed waiting allowance, clamped to [10, 120].
func (e *Estimator) TravelTimeMinutes(distanceKm, speedKmH float64) int {
	if distanceKm <= 0 {
		return 0
	}
	if speedKmH <= 0 {
		speedKmH = DefaultSpeedKmH
	}

	minutes := int(math.Round(distanceKm/speedKmH*60)) + waitingTimeMinutes

	if minutes < minEtaMinutes {
		return minEtaMinutes
	}
	if minutes > maxEtaMinutes {
		return maxEtaMinutes
	}
	return minutes
}

// addressHash is a 31-multiplier rolling hash over the lower-cased address.
// The wrap-around on int32 is intentional; only stability matters.
func addressHash(address string) int64 {
	var h int32
	for _, r := range strings.ToLower(address) {
		h = 31*h + int32(r)
	}
	return abs64(int64(h))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
