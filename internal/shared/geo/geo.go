package geo

import "math"

const earthRadiusKm = 6371

// HaversineKm returns the great-circle distance in kilometers between two
// latitude/longitude points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// UnitDirection returns the per-axis delta from point 1 to point 2 divided by
// the distance between them. When the two points effectively coincide it
// returns the zero vector; callers treat that as already arrived.
func UnitDirection(lat1, lng1, lat2, lng2 float64) (dLat, dLng float64) {
	d := HaversineKm(lat1, lng1, lat2, lng2)
	if d < 1e-9 {
		return 0, 0
	}
	return (lat2 - lat1) / d, (lng2 - lng1) / d
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
