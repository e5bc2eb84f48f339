package timetable

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

// DefaultPalette is the fixed course palette, cycled once every color is taken.
var DefaultPalette = []string{
	"#27ae60", "#e67e22", "#16a085", "#8e44ad",
	"#c0392b", "#2980b9", "#f39c12", "#1abc9c",
	"#34495e", "#95a5a6", "#d35400", "#9b59b6",
	"#e74c3c", "#3498db", "#2ecc71", "#f1c40f",
}

// DarkenDelta is the channel offset used for the darker half of a cell gradient.
const DarkenDelta = -20

// Gradient is the two-tone fill of a course cell.
type Gradient struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ColorAssigner hands out palette colors to course names in order of first encounter.
// A single instance is shared by the grid and the charts so a name keeps one color.
type ColorAssigner struct {
	mu       sync.Mutex
	palette  []string
	assigned map[string]string
}

// NewColorAssigner builds an assigner over palette, or DefaultPalette when empty.
func NewColorAssigner(palette []string) *ColorAssigner {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	p := make([]string, len(palette))
	copy(p, palette)
	return &ColorAssigner{palette: p, assigned: make(map[string]string)}
}

// ColorFor returns the memoized color for name.
func (a *ColorAssigner) ColorFor(name string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.colorLocked(name)
}

func (a *ColorAssigner) colorLocked(name string) string {
	if color, ok := a.assigned[name]; ok {
		return color
	}
	color := a.palette[len(a.assigned)%len(a.palette)]
	a.assigned[name] = color
	return color
}

// Prime seeds assignments by walking courses in list order.
func (a *ColorAssigner) Prime(courses []models.Course) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, course := range courses {
		a.colorLocked(course.CourseName)
	}
}

// Reset forgets every assignment.
func (a *ColorAssigner) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.assigned = make(map[string]string)
}

// Assigned returns a copy of the current name to color table.
func (a *ColorAssigner) Assigned() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(map[string]string, len(a.assigned))
	for k, v := range a.assigned {
		out[k] = v
	}
	return out
}

// Gradient returns the cell gradient for name.
func (a *ColorAssigner) Gradient(name string) Gradient {
	color := a.ColorFor(name)
	return Gradient{From: color, To: AdjustColor(color, DarkenDelta)}
}

// AdjustColor adds delta to each RGB channel of a 6-digit hex color, clamping to [0, 255].
// Malformed input is returned unchanged.
func AdjustColor(color string, delta int) string {
	prefix := ""
	hex := color
	if strings.HasPrefix(hex, "#") {
		prefix, hex = "#", hex[1:]
	}
	if len(hex) != 6 {
		return color
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color
	}

	r := clampChannel(int(value>>16&0xff) + delta)
	g := clampChannel(int(value>>8&0xff) + delta)
	b := clampChannel(int(value&0xff) + delta)

	return fmt.Sprintf("%s%02x%02x%02x", prefix, r, g, b)
}

func clampChannel(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return v
	}
}
