package power

// SMC keys for Apple Silicon.
const (
	acPowerKey       = "AC-W"
	batteryChargeKey = "BUIC"
)
