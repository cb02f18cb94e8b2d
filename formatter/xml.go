package formatter

import (
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/railtracker/siri"
)

// BuildXML serializes a SIRI response to XML
func (rb *responseBuilder) BuildXML(res *siri.SiriResponse) []byte {
	var b strings.Builder
	b.WriteString("<Siri xmlns=\"http://www.siri.org.uk/siri\">")
	sd := res.Siri.ServiceDelivery
	b.WriteString("<ServiceDelivery>")
	writeElem(&b, "ResponseTimestamp", sd.ResponseTimestamp)
	writeElem(&b, "ProducerRef", sd.ProducerRef)
	for _, vm := range sd.VehicleMonitoringDelivery {
		writeVehicleMonitoringXML(&b, vm)
	}
	b.WriteString("</ServiceDelivery>")
	b.WriteString("</Siri>")
	return []byte(b.String())
}

func writeVehicleMonitoringXML(b *strings.Builder, vm siri.VehicleMonitoring) {
	b.WriteString("<VehicleMonitoringDelivery>")
	writeElem(b, "ResponseTimestamp", vm.ResponseTimestamp)
	writeElem(b, "ValidUntil", vm.ValidUntil)
	for _, va := range vm.VehicleActivity {
		b.WriteString("<VehicleActivity>")
		writeElem(b, "RecordedAtTime", va.RecordedAtTime)
		writeElem(b, "ValidUntilTime", va.ValidUntilTime)
		writeMVJXML(b, va.MonitoredVehicleJourney)
		b.WriteString("</VehicleActivity>")
	}
	b.WriteString("</VehicleMonitoringDelivery>")
}

func writeMVJXML(b *strings.Builder, mvj siri.MonitoredVehicleJourney) {
	b.WriteString("<MonitoredVehicleJourney>")
	writeElem(b, "LineRef", mvj.LineRef)
	writeElem(b, "VehicleMode", mvj.VehicleMode)
	writeElem(b, "DestinationRef", mvj.DestinationRef)
	writeElem(b, "DestinationName", mvj.DestinationName)
	b.WriteString("<Monitored>")
	b.WriteString(strconv.FormatBool(mvj.Monitored))
	b.WriteString("</Monitored>")
	// DataSource (SIRI-VM: required)
	writeElem(b, "DataSource", mvj.DataSource)
	if loc := mvj.VehicleLocation; loc != nil && (loc.Latitude != nil || loc.Longitude != nil) {
		b.WriteString("<VehicleLocation>")
		if loc.Longitude != nil {
			b.WriteString("<Longitude>")
			b.WriteString(strconv.FormatFloat(*loc.Longitude, 'f', 6, 64))
			b.WriteString("</Longitude>")
		}
		if loc.Latitude != nil {
			b.WriteString("<Latitude>")
			b.WriteString(strconv.FormatFloat(*loc.Latitude, 'f', 6, 64))
			b.WriteString("</Latitude>")
		}
		b.WriteString("</VehicleLocation>")
	}
	if mvj.Velocity != nil {
		b.WriteString("<Velocity>")
		b.WriteString(strconv.Itoa(*mvj.Velocity))
		b.WriteString("</Velocity>")
	}
	writeElem(b, "ProgressStatus", mvj.ProgressStatus)
	writeElem(b, "VehicleRef", mvj.VehicleRef)
	if mc := mvj.MonitoredCall; mc != nil {
		b.WriteString("<MonitoredCall>")
		b.WriteString("<StopPointRef>")
		b.WriteString(xmlEscape(mc.StopPointRef))
		b.WriteString("</StopPointRef>")
		writeElem(b, "StopPointName", mc.StopPointName)
		if mc.VehicleAtStop != nil {
			b.WriteString("<VehicleAtStop>")
			b.WriteString(strconv.FormatBool(*mc.VehicleAtStop))
			b.WriteString("</VehicleAtStop>")
		}
		writeElem(b, "ExpectedArrivalTime", mc.ExpectedArrivalTime)
		if ext := mc.Extensions; ext != nil {
			d := ext.Distances
			b.WriteString("<Extensions><Distances>")
			writeElem(b, "PresentableDistance", d.PresentableDistance)
			b.WriteString("<DistanceFromCall>")
			b.WriteString(strconv.FormatFloat(d.DistanceFromCall, 'f', 0, 64))
			b.WriteString("</DistanceFromCall>")
			b.WriteString("<StraightLineDistance>")
			b.WriteString(strconv.FormatFloat(d.StraightLineDistance, 'f', 0, 64))
			b.WriteString("</StraightLineDistance>")
			b.WriteString("<SecondsToArrival>")
			b.WriteString(strconv.FormatInt(d.SecondsToArrival, 10))
			b.WriteString("</SecondsToArrival>")
			b.WriteString("</Distances></Extensions>")
		}
		b.WriteString("</MonitoredCall>")
	}
	b.WriteString("</MonitoredVehicleJourney>")
}

// writeElem writes <name>value</name>, skipping empty values
func writeElem(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteString("<")
	b.WriteString(name)
	b.WriteString(">")
	b.WriteString(xmlEscape(value))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
}

func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
