package main

import "github.com/cs1060f25/nutri-project-sub001/internal/nutrition"

// locationStyle is the colour pair the web client uses for a house badge.
type locationStyle struct {
	Color      string `json:"color"`
	Background string `json:"background"`
}

var defaultLocationStyle = locationStyle{Color: "#37474F", Background: "#ECEFF1"}

// locationStyles is keyed by canonical house name. Read-only after init.
var locationStyles = map[string]locationStyle{
	"Adams House":       {Color: "#B71C1C", Background: "#FFEBEE"},
	"Annenberg Hall":    {Color: "#A51C30", Background: "#FCE4EC"},
	"Cabot House":       {Color: "#1B5E20", Background: "#E8F5E9"},
	"Currier House":     {Color: "#4A148C", Background: "#F3E5F5"},
	"Dunster House":     {Color: "#BF360C", Background: "#FBE9E7"},
	"Eliot House":       {Color: "#0D47A1", Background: "#E3F2FD"},
	"Kirkland House":    {Color: "#880E4F", Background: "#FCE4EC"},
	"Leverett House":    {Color: "#006064", Background: "#E0F7FA"},
	"Lowell House":      {Color: "#1A237E", Background: "#E8EAF6"},
	"Mather House":      {Color: "#E65100", Background: "#FFF3E0"},
	"Pforzheimer House": {Color: "#33691E", Background: "#F1F8E9"},
	"Quincy House":      {Color: "#F57F17", Background: "#FFFDE7"},
	"Winthrop House":    {Color: "#3E2723", Background: "#EFEBE9"},
}

// styleFor resolves name to its house badge. Names that are not a house or
// hall, like a cafe, get the default style.
func styleFor(name string) locationStyle {
	if !nutrition.IsKnownHouse(name) {
		return defaultLocationStyle
	}
	if s, ok := locationStyles[nutrition.CanonicalHouseName(name)]; ok {
		return s
	}
	return defaultLocationStyle
}
