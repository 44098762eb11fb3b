package scribble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStripANSI removes escape sequences and keeps the character grid.
func TestStripANSI(t *testing.T) {
	assert.Equal(t, "hello", StripANSI("\x1b[1mhello\x1b[0m"))
	assert.Equal(t, "plain text", StripANSI("plain text"))
	assert.Equal(t, "colored", StripANSI("\x1b[38;5;214mcolored\x1b[0m"))
	assert.Equal(t, "", StripANSI("\x1b[2J\x1b[H"))
}

// TestANSIToHTML_Bold converts a bold run to a styled span.
func TestANSIToHTML_Bold(t *testing.T) {
	html := string(ANSIToHTML("\x1b[1mbold\x1b[0m plain"))
	assert.Contains(t, html, `<span style="font-weight: bold;">bold</span>`)
	assert.Contains(t, html, "plain")
}

// TestANSIToHTML_256Color resolves palette indices to hex colors.
func TestANSIToHTML_256Color(t *testing.T) {
	html := string(ANSIToHTML("\x1b[38;5;9mred\x1b[0m"))
	assert.Contains(t, html, "color: #ff0000")
	assert.Contains(t, html, ">red</span>")
}

// TestANSIToHTML_TrueColor passes RGB parameters straight through.
func TestANSIToHTML_TrueColor(t *testing.T) {
	html := string(ANSIToHTML("\x1b[38;2;255;200;80mamber\x1b[0m"))
	assert.Contains(t, html, "color: #ffc850")
}

// TestANSIToHTML_EscapesMarkup keeps literal angle brackets safe.
func TestANSIToHTML_EscapesMarkup(t *testing.T) {
	html := string(ANSIToHTML("<b> & </b>"))
	assert.Equal(t, "&lt;b&gt; &amp; &lt;/b&gt;", html)
}

// TestANSIToHTML_Newlines become <br> tags; carriage returns vanish.
func TestANSIToHTML_Newlines(t *testing.T) {
	html := string(ANSIToHTML("one\r\ntwo"))
	assert.Equal(t, "one<br>two", html)
}

// TestANSIToHTML_ClosesDanglingSpans balances spans left open at the end of
// the input.
func TestANSIToHTML_ClosesDanglingSpans(t *testing.T) {
	html := string(ANSIToHTML("\x1b[1mnever reset"))
	assert.Equal(t, strings.Count(html, "<span"), strings.Count(html, "</span>"))
}

// TestANSIToHTML_DropsNonSGR ignores cursor movement and clear sequences.
func TestANSIToHTML_DropsNonSGR(t *testing.T) {
	html := string(ANSIToHTML("\x1b[2Jclean\x1b[10;20H"))
	assert.Equal(t, "clean", html)
}

// TestXterm256ToHex spot-checks each region of the palette.
func TestXterm256ToHex(t *testing.T) {
	// Base 16
	assert.Equal(t, "#000000", xterm256ToHex(0))
	assert.Equal(t, "#ff0000", xterm256ToHex(9))
	assert.Equal(t, "#ffffff", xterm256ToHex(15))

	// Color cube corners
	assert.Equal(t, "#000000", xterm256ToHex(16))
	assert.Equal(t, "#ffffff", xterm256ToHex(231))
	assert.Equal(t, "#005f00", xterm256ToHex(22))

	// Grayscale ramp
	assert.Equal(t, "#080808", xterm256ToHex(232))
	assert.Equal(t, "#eeeeee", xterm256ToHex(255))

	// Out of range falls back to white
	assert.Equal(t, "#ffffff", xterm256ToHex(-1))
	assert.Equal(t, "#ffffff", xterm256ToHex(300))
}
