package mercurymes

import (
	"math"

	"github.com/marulatech/shipping-bridge/pkg/carrier"
)

// Fallback physical profile. MES rejects non-positive dimensions, weights
// and values, so anything missing or non-positive in the source data is
// replaced by these.
const (
	defaultLengthCm  = 30.0
	defaultWidthCm   = 20.0
	defaultHeightCm  = 15.0
	defaultWeightKg  = 0.5
	minDeclaredValue = 0.01
)

// physicalProfile is the aggregated shape of one shipment unit as MES wants
// it: one representative box plus a piece count.
type physicalProfile struct {
	Pieces        int
	LengthCm      int
	WidthCm       int
	HeightCm      int
	GrossWeightKg float64
	DeclaredValue float64
}

// buildProfile aggregates line items into a booking profile. Per item the
// dimensions are multiplied by quantity and summed, then averaged over the
// total piece count to yield one representative box. Weight is summed
// directly and the declared value is the sum of list price times quantity.
func buildProfile(items []carrier.LineItem, shippingWeightKg float64) physicalProfile {
	var totalLength, totalWidth, totalHeight int
	var totalPieces int
	var declaredValue float64

	for _, item := range items {
		length := int(math.Round(positiveOr(item.LengthCm, defaultLengthCm)))
		width := int(math.Round(positiveOr(item.WidthCm, defaultWidthCm)))
		height := int(math.Round(positiveOr(item.HeightCm, defaultHeightCm)))
		qty := int(math.Round(math.Max(1, item.Quantity)))

		totalLength += length * qty
		totalWidth += width * qty
		totalHeight += height * qty
		totalPieces += qty

		declaredValue += item.UnitPrice * item.Quantity
	}

	if totalPieces == 0 {
		totalPieces = 1
		totalLength = int(defaultLengthCm)
		totalWidth = int(defaultWidthCm)
		totalHeight = int(defaultHeightCm)
	}

	pieces := max(1, totalPieces)

	return physicalProfile{
		Pieces:        pieces,
		LengthCm:      max(1, int(math.Round(float64(totalLength)/float64(pieces)))),
		WidthCm:       max(1, int(math.Round(float64(totalWidth)/float64(pieces)))),
		HeightCm:      max(1, int(math.Round(float64(totalHeight)/float64(pieces)))),
		GrossWeightKg: estimateWeight(items, shippingWeightKg),
		DeclaredValue: math.Max(minDeclaredValue, declaredValue),
	}
}

// estimateWeight returns the configured shipping weight when set, otherwise
// the per-item weights summed, otherwise the default.
func estimateWeight(items []carrier.LineItem, shippingWeightKg float64) float64 {
	if shippingWeightKg > 0 {
		return shippingWeightKg
	}
	var total float64
	for _, item := range items {
		if item.WeightKg > 0 {
			total += item.WeightKg * item.Quantity
		}
	}
	if total <= 0 {
		return defaultWeightKg
	}
	return total
}

// countPieces returns the total ordered quantity, at least one.
func countPieces(items []carrier.LineItem) int {
	var total float64
	for _, item := range items {
		total += item.Quantity
	}
	return max(1, int(total))
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
