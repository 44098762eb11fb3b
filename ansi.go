package scribble

import (
	"fmt"
	"html/template"
	"regexp"
	"strconv"
	"strings"
)

var ansiSequence = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape sequences from terminal output, leaving the
// plain character grid. Used when asserting on a styled front-end view and
// when embedding one into frame labels.
func StripANSI(text string) string {
	return ansiSequence.ReplaceAllString(text, "")
}

// ANSIToHTML converts a styled terminal view into HTML for the gallery's
// final-view panel. Only SGR sequences are honored; cursor movements and
// clears are dropped.
func ANSIToHTML(ansiText string) template.HTML {
	var result strings.Builder
	open := 0
	i := 0

	for i < len(ansiText) {
		char := ansiText[i]

		if char == '\r' {
			i++
			continue
		}
		if char == '\n' {
			result.WriteString("<br>")
			i++
			continue
		}

		if char == '\x1b' && i+1 < len(ansiText) && ansiText[i+1] == '[' {
			i += 2
			var seq strings.Builder
			terminator := byte(0)
			for i < len(ansiText) {
				c := ansiText[i]
				i++
				if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
					terminator = c
					break
				}
				seq.WriteByte(c)
			}

			if terminator != 'm' {
				continue // not an SGR sequence
			}
			if html, delta := sgrToHTML(seq.String(), open); html != "" {
				result.WriteString(html)
				open += delta
			}
			continue
		}

		switch char {
		case '&':
			result.WriteString("&amp;")
		case '<':
			result.WriteString("&lt;")
		case '>':
			result.WriteString("&gt;")
		default:
			result.WriteByte(char)
		}
		i++
	}

	for ; open > 0; open-- {
		result.WriteString("</span>")
	}

	return template.HTML(result.String())
}

// sgrToHTML maps an SGR parameter list to an HTML fragment and the change in
// open span depth. Unknown parameter lists are skipped entirely.
func sgrToHTML(params string, open int) (string, int) {
	if params == "" || params == "0" {
		if open > 0 {
			return strings.Repeat("</span>", open), -open
		}
		return "", 0
	}

	parts := strings.Split(params, ";")
	var styles []string
	for idx := 0; idx < len(parts); idx++ {
		switch parts[idx] {
		case "1":
			styles = append(styles, "font-weight: bold")
		case "3":
			styles = append(styles, "font-style: italic")
		case "38":
			// 38;5;N or 38;2;R;G;B extended foreground
			if idx+2 < len(parts) && parts[idx+1] == "5" {
				if n, err := strconv.Atoi(parts[idx+2]); err == nil {
					styles = append(styles, "color: "+xterm256ToHex(n))
				}
				idx += 2
			} else if idx+4 < len(parts) && parts[idx+1] == "2" {
				r, _ := strconv.Atoi(parts[idx+2])
				g, _ := strconv.Atoi(parts[idx+3])
				b, _ := strconv.Atoi(parts[idx+4])
				styles = append(styles, fmt.Sprintf("color: #%02x%02x%02x", r&0xff, g&0xff, b&0xff))
				idx += 4
			}
		}
	}

	if len(styles) == 0 {
		return "", 0
	}
	return `<span style="` + strings.Join(styles, "; ") + `;">`, 1
}

// xterm256ToHex resolves an xterm-256 palette index to a hex color.
func xterm256ToHex(n int) string {
	switch {
	case n < 0 || n > 255:
		return "#ffffff"
	case n < 16:
		base := []string{
			"#000000", "#800000", "#008000", "#808000", "#000080", "#800080", "#008080", "#c0c0c0",
			"#808080", "#ff0000", "#00ff00", "#ffff00", "#0000ff", "#ff00ff", "#00ffff", "#ffffff",
		}
		return base[n]
	case n < 232:
		// 6x6x6 color cube
		n -= 16
		steps := []int{0, 95, 135, 175, 215, 255}
		r := steps[n/36]
		g := steps[(n/6)%6]
		b := steps[n%6]
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	default:
		// grayscale ramp
		v := 8 + (n-232)*10
		return fmt.Sprintf("#%02x%02x%02x", v, v, v)
	}
}
