package power

// SMC keys for Intel Macs.
const (
	acPowerKey       = "AC-W" // Not verified yet.
	batteryChargeKey = "BBIF"
)
