package packet

// Device identifies the tracker or radio that sent a Mic-E report.
type Device struct {
	Manufacturer string
	Model        string
}

// UnknownDevice is returned when a Mic-E comment carries a device
// signature prefix but no known suffix.
var UnknownDevice = Device{}

// Known reports whether the manufacturer was recognised.
func (d Device) Known() bool {
	return d.Manufacturer != ""
}

// Report holds everything decoded from one AX.25 frame.
// Source, Destination and Path are always present; the rest only when
// the payload carried them.
type Report struct {
	Source      string
	Destination string
	Path        []string

	Lat         *float64
	Lon         *float64
	SymbolTable string
	Symbol      string
	Comment     *string
	Altitude    *int // Meters
	Device      *Device
}

// Position returns the decoded coordinates, if both are present.
func (r *Report) Position() (lat, lon float64, ok bool) {
	if r.Lat == nil || r.Lon == nil {
		return 0, 0, false
	}
	return *r.Lat, *r.Lon, true
}

// CommentText returns the comment or "" when there is none.
func (r *Report) CommentText() string {
	if r.Comment == nil {
		return ""
	}
	return *r.Comment
}

// Fields renders the report as the record mapping handed to output sinks.
// Keys for fields that were not decoded are left out.
func (r *Report) Fields() map[string]any {
	path := make([]string, len(r.Path))
	copy(path, r.Path)

	m := map[string]any{
		"source":      r.Source,
		"destination": r.Destination,
		"path":        path,
	}
	if r.Lat != nil {
		m["lat"] = *r.Lat
	}
	if r.Lon != nil {
		m["lon"] = *r.Lon
	}
	if r.Symbol != "" {
		m["symbol"] = r.Symbol
	}
	if r.Comment != nil {
		m["comment"] = *r.Comment
	}
	if r.Altitude != nil {
		m["altitude"] = *r.Altitude
	}
	if r.Device != nil && r.Device.Known() {
		m["device"] = map[string]string{
			"manufacturer": r.Device.Manufacturer,
			"device":       r.Device.Model,
		}
	}
	return m
}

// Location is what gets recorded in the location registry for a station.
type Location struct {
	Lat     float64
	Lon     float64
	Comment string
}
