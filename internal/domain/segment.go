package domain

// Segment is one travel+dwell unit within a trip's visualization: the path
// driven since the previous departure, ending at the labeled stop. Derived on
// every view, never persisted. Distance is an odometer delta in the same unit
// as stored mileage (kilometers in practice); nil when either reading is
// missing, which is not the same as zero.
type Segment struct {
	Label      string
	Path       []Coordinates
	Color      string
	TravelTime string
	StopTime   string
	Distance   *float64
	Stop       Stop
}

// SegmentPalette is cycled by segment index (index mod len). Colors repeat
// predictably past its length; accepted limitation.
var SegmentPalette = []string{
	"#E53935", // red
	"#1E88E5", // blue
	"#43A047", // green
	"#FB8C00", // orange
	"#8E24AA", // purple
	"#00ACC1", // cyan
	"#F4511E", // deep orange
	"#3949AB", // indigo
	"#7CB342", // light green
	"#D81B60", // pink
}

// Trailing live-position segment constants.
const (
	CurrentPositionLabel = "current position"
	CurrentPositionColor = "#9E9E9E"
)
