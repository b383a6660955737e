package core

import "github.com/jimyag/viommu/internal/viommu/wire"

// faultLocked formats and posts a fault record. It must be
// called with d.mu held, since it reads device state (the trace-ID
// generator) and does not block: TryPush is the event queue's non-blocking
// pop, and a miss is logged and dropped, never retried.
func (d *Device) faultLocked(reason wire.FaultReason, violated wire.Permission, endpointID uint32, address uint64, addressValid bool) {
	d.metrics.FaultsByReason[reason]++

	flags := violated
	if addressValid {
		flags |= wire.FlagAddressValid
	}
	ev := wire.Event{Reason: reason, Flags: flags, Endpoint: endpointID, Address: address}

	traceID, _ := d.idgen.GenerateID()

	d.faults = append(d.faults, FaultRecord{
		TraceID:      traceID,
		Reason:       reason,
		Violated:     violated,
		Endpoint:     endpointID,
		Address:      address,
		AddressValid: addressValid,
	})
	if len(d.faults) > recentFaultCap {
		d.faults = d.faults[len(d.faults)-recentFaultCap:]
	}

	logEvt := d.logger.Warn().
		Uint64("trace_id", traceID).
		Str("reason", faultReasonName(reason)).
		Uint32("endpoint", endpointID).
		Uint64("address", address)

	if d.events == nil {
		logEvt.Msg("fault: no event sink configured, dropping")
		return
	}

	posted, err := d.events.TryPush(ev.Encode())
	switch {
	case err != nil:
		logEvt.Err(err).Msg("fault: event queue push failed")
	case !posted:
		logEvt.Msg("fault: event queue full, dropping fault")
	default:
		logEvt.Msg("fault reported")
	}
}

func faultReasonName(r wire.FaultReason) string {
	switch r {
	case wire.FaultUnknown:
		return "UNKNOWN"
	case wire.FaultDomain:
		return "DOMAIN"
	case wire.FaultMapping:
		return "MAPPING"
	default:
		return "UNSPECIFIED"
	}
}
