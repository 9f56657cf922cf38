package model

import "time"

// Activity types accepted by the emission calculator and stored in
// activities.type.
const (
	ActivityTransport   = "transport"
	ActivityElectricity = "electricity"
	ActivityDiet        = "diet"
)

// Activity represents one logged activity in the `activities` table. An
// activity belongs to exactly one user and is immutable after creation:
// CarbonFootprint is computed once from the emission factors in force at
// logging time and is never recomputed, and CreatedAt is authoritative for
// all week/month windowing. The type-specific parameter columns are
// nullable; only the ones matching Type are populated.
type Activity struct {
	ID              uint64    // activities.id
	UserID          uint64    // activities.user_id
	Type            string    // activities.type (transport|electricity|diet)
	TravelMode      *string   // activities.travel_mode (transport only)
	DistanceKM      *float64  // activities.distance_km (transport only)
	UsageKWH        *float64  // activities.usage_kwh (electricity only)
	DietType        *string   // activities.diet_type (diet only)
	CarbonFootprint float64   // activities.carbon_footprint (kg CO2)
	CreatedAt       time.Time // activities.created_at
}
