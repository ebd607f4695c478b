package chain

import "github.com/google/uuid"

// NewDeviceID generates a fresh 16-byte device_id from a random UUIDv4, for
// hosts that don't supply one explicitly. device_id is exactly 16 bytes —
// the same width as a UUID — so no truncation or padding is needed.
func NewDeviceID() [DeviceIDSize]byte {
	u := uuid.New()
	var id [DeviceIDSize]byte
	copy(id[:], u[:])
	return id
}
