// Copyright (c) 2025 the conread authors
// released under the ISC license

package conread

var colorToSGR = map[string]string{
	"black":   "30",
	"red":     "31",
	"green":   "32",
	"yellow":  "33",
	"blue":    "34",
	"magenta": "35",
	"cyan":    "36",
	"white":   "37",
	"grey":    "90",
	"gray":    "90",
}

func makeANSI(code string) string {
	return "\033[" + code + "m"
}

// styleText renders text with the requested color name and bold flag.
// Styling is advisory: when disabled, or when the color name is unknown and
// bold is not requested, the text is returned unchanged.
func styleText(text, color string, bold, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	var codes string
	if bold {
		codes = "1"
	}
	if sgr, ok := colorToSGR[color]; ok {
		if codes != "" {
			codes += ";"
		}
		codes += sgr
	}
	if codes == "" {
		return text
	}
	return makeANSI(codes) + text + makeANSI("0")
}
