package iot

// Keywords are matched against lower-cased organisation names. Order
// matters only for speed: the first hit ends the scan.
var Keywords = []string{
	"smart",
	"iot",
	"esp",
	"tuya",
	"nest",
	"broadlink",
	"sonoff",
	"hue",
	"wyze",
	"arlo",
	"ecobee",
	"eufy",
	"philips",
	"ikea",
	"fitbit",
	"xiaomi",
	"withings",
	"samsung",
	"lg",
	"sony",
	"media",
	"netgear",
	"tp-link",
	"ubiquiti",
	"honeywell",
	"ring",
	"bose",
	"logitech",
	"belkin",
	"alexa",
	"google home",
	"homekit",
	"lifx",
	"govee",
	"wyze cam",
	"lutron",
	"eero",
	"orbi",
	"linksys",
	"garmin",
	"whoop",
	"polar",
	"schlage",
	"august",
	"kwikset",
	"zigbee",
	"z-wave",
	"tado",
	"bosch",
	"sensor",
	"automation",
	"hub",
	"gateway",
	"tracker",
}
