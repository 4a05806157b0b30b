// Package iot flags organisations that are likely IoT device vendors.
//
// Classification is a keyword heuristic: an organisation is an IoT
// manufacturer when its lower-cased name contains any entry of Keywords.
// The derived set is recomputed from the supplied mapping on every call and
// written next to the registry snapshot as iot_manufacturers.json (sorted
// array) and iot_manufacturers.mpk (binary dump).
//
// IsIoTMAC answers for a single address:
//
//	c := iot.NewClassifier(cache.WithBasename("iot_manufacturers"))
//	switch c.IsIoTMAC("D8:EC:5E:00:00:00", engine) {
//	case iot.IoT:
//	    // Belkin
//	case iot.Unknown:
//	    // malformed address
//	}
//
// The membership test checks whether the resolved organisation name is a
// substring of a classified name, the reverse of the direction used when
// building the set. The asymmetry is long-standing behaviour and is kept.
package iot
