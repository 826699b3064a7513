// Package rules holds the program-wide conversion constants and the status
// transition checks shared by the donation, collection and reward ledgers.
package rules

import "math"

const (
	// CO2PerLiter is the kg of CO2 considered saved per recycled liter.
	CO2PerLiter = 2.0
	// PointsPerLiter is the reward currency earned per collected liter.
	PointsPerLiter = 10
	// SoapYieldLiters is how many liters produce one soap unit.
	SoapYieldLiters = 5
	// SchoolRewardStep is the point interval between school reward tiers.
	SchoolRewardStep = 5000
	// CitizenRewardStepLiters is the liter interval between citizen tiers.
	CitizenRewardStepLiters = 15
)

// Donation statuses.
const (
	DonationPending   = "PENDING"
	DonationConfirmed = "CONFIRMED"
)

// Collection statuses.
const (
	CollectionPending   = "PENDING"
	CollectionScheduled = "SCHEDULED"
	CollectionCompleted = "COMPLETED"
)

// Reward request statuses.
const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestDenied   = "DENIED"
)

// CollectionPoints converts collected liters into points.
func CollectionPoints(liters float64) int {
	return int(math.Round(liters * PointsPerLiter))
}

// CO2Saved converts donated liters into kg of CO2 saved.
func CO2Saved(liters float64) float64 {
	return liters * CO2PerLiter
}

// CapacityGain is the storage-fill increment applied when a donation is
// confirmed. The divisor and multiplier cancel out, so this is round(liters);
// kept verbatim from the production formula pending a real capacity model.
func CapacityGain(liters float64) int {
	return int(math.Round(liters / 100 * 100))
}

// SoapProduced converts a confirmed-liters total into soap units.
func SoapProduced(totalLiters float64) int {
	return int(math.Floor(totalLiters / SoapYieldLiters))
}

// NextSchoolReward returns the next point threshold for a school and its
// progress toward it as a percentage clamped to 100.
func NextSchoolReward(points int) (next int, progress float64) {
	next = int(math.Ceil(float64(points)/SchoolRewardStep)) * SchoolRewardStep
	progress = float64(points%SchoolRewardStep) / SchoolRewardStep * 100
	return next, math.Min(progress, 100)
}

// NextCitizenReward returns the next liters threshold for a citizen and the
// progress toward it. A citizen who has not donated yet gets progress 0
// instead of a division by zero.
func NextCitizenReward(totalLiters float64) (next float64, progress float64) {
	next = math.Ceil(totalLiters/CitizenRewardStepLiters) * CitizenRewardStepLiters
	if next == 0 {
		return CitizenRewardStepLiters, 0
	}
	return next, math.Min(totalLiters/next*100, 100)
}

// CanConfirmDonation reports whether a donation may move to CONFIRMED.
func CanConfirmDonation(status string) bool {
	return status == DonationPending
}

// CanScheduleCollection reports whether a collection may be (re)scheduled.
// Scheduling an already-scheduled pickup is a deployment decision; a
// completed one can never be reopened.
func CanScheduleCollection(status string, allowReschedule bool) bool {
	switch status {
	case CollectionPending:
		return true
	case CollectionScheduled:
		return allowReschedule
	default:
		return false
	}
}

// CanCompleteCollection reports whether a collection may move to COMPLETED.
func CanCompleteCollection(status string) bool {
	return status == CollectionPending || status == CollectionScheduled
}

// CanResolveRequest reports whether a reward request may still be approved
// or denied.
func CanResolveRequest(status string) bool {
	return status == RequestPending
}
