package core

// reservedAt returns the reserved region containing addr, if any.
// Reserved regions are global and device-configured, expected to number
// in the single digits, so a linear scan is simpler and just as fast as
// a tree for this table.
func (d *Device) reservedAt(addr uint64) (ReservedRegion, bool) {
	for _, r := range d.reserved {
		if r.Low <= addr && addr <= r.High {
			return r, true
		}
	}
	return ReservedRegion{}, false
}
