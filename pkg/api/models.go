package api

import "encoding/json"

// InstructionsRequest is the JSON body for POST /api/v1/instructions.
// Steps follow the OSRM route step format; fields the service does not use
// are ignored.
type InstructionsRequest struct {
	Locale string    `json:"locale"`
	Markup string    `json:"markup"` // "", "text" or "html"
	Legs   []LegJSON `json:"legs"`
}

// LegJSON is one route leg.
type LegJSON struct {
	Steps []StepJSON `json:"steps"`
}

// StepJSON is one OSRM route step.
type StepJSON struct {
	Maneuver      ManeuverJSON       `json:"maneuver"`
	Mode          string             `json:"mode"`
	Name          string             `json:"name"`
	Ref           string             `json:"ref"`
	Exits         string             `json:"exits"`
	Destinations  string             `json:"destinations"`
	RotaryName    string             `json:"rotary_name"`
	Intersections []IntersectionJSON `json:"intersections"`
	Geometry      json.RawMessage    `json:"geometry"`
}

// ManeuverJSON describes the maneuver at the start of a step. Location is
// [lng, lat].
type ManeuverJSON struct {
	Type         string    `json:"type"`
	Modifier     string    `json:"modifier"`
	BearingAfter *float64  `json:"bearing_after"`
	Exit         int       `json:"exit"`
	Location     []float64 `json:"location"`
}

// IntersectionJSON carries the lanes and road classes of an intersection.
type IntersectionJSON struct {
	Lanes   []LaneJSON `json:"lanes"`
	Classes []string   `json:"classes"`
}

// LaneJSON is one approach lane.
type LaneJSON struct {
	Indications []string `json:"indications"`
	Valid       bool     `json:"valid"`
}

// GeometryJSON is a GeoJSON LineString.
type GeometryJSON struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

// InstructionsResponse is the JSON response for POST /api/v1/instructions.
type InstructionsResponse struct {
	Locale string            `json:"locale"`
	Legs   []LegInstructions `json:"legs"`
}

// LegInstructions holds one instruction per input step, in order.
type LegInstructions struct {
	Steps []StepInstruction `json:"steps"`
}

// StepInstruction is the formatted text for a step. Skipped is set when the
// step has no describable maneuver.
type StepInstruction struct {
	Instruction string `json:"instruction"`
	Skipped     bool   `json:"skipped,omitempty"`
}

// ErrorResponse is returned on errors. Message is localized from the
// request's Accept-Language.
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

// LocalesResponse is the JSON response for GET /api/v1/locales.
type LocalesResponse struct {
	Default   string   `json:"default"`
	Available []string `json:"available"`
	Loaded    []string `json:"loaded"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Roads        int      `json:"roads"`
	Segments     int      `json:"segments"`
	Requests     uint64   `json:"requests"`
	Instructions uint64   `json:"instructions"`
	Skipped      uint64   `json:"skipped"`
	Enriched     uint64   `json:"enriched"`
	Loaded       []string `json:"loaded_locales"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
