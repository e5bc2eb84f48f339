package timetable

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/class-schedule-api/internal/models"
)

func TestAdjustColor(t *testing.T) {
	assert.Equal(t, "#139a4c", AdjustColor("#27ae60", -20))
	assert.Equal(t, "139a4c", AdjustColor("27ae60", -20))
	assert.Equal(t, "#000000", AdjustColor("#0a0b0c", -20))
	assert.Equal(t, "#ffffff", AdjustColor("#f0f0f0", 40))
	assert.Equal(t, "#27ae60", AdjustColor("#27ae60", 0))

	for _, bad := range []string{"", "#fff", "#gggggg", "red", "#27ae6000"} {
		assert.Equal(t, bad, AdjustColor(bad, -20), bad)
	}
}

func TestColorForIsMemoized(t *testing.T) {
	a := NewColorAssigner(nil)

	assert.Equal(t, DefaultPalette[0], a.ColorFor("Math"))
	assert.Equal(t, DefaultPalette[1], a.ColorFor("Physics"))
	assert.Equal(t, DefaultPalette[0], a.ColorFor("Math"))
	assert.Len(t, a.Assigned(), 2)
}

func TestColorForCyclesPalette(t *testing.T) {
	palette := []string{"#111111", "#222222", "#333333"}
	a := NewColorAssigner(palette)

	for k := 0; k < 3; k++ {
		for i := range palette {
			name := fmt.Sprintf("course-%d-%d", k, i)
			assert.Equal(t, palette[i], a.ColorFor(name), name)
		}
	}
}

func TestPrimeFollowsListOrder(t *testing.T) {
	courses := []models.Course{
		{CourseName: "Chemistry"},
		{CourseName: "Art"},
		{CourseName: "Chemistry"},
		{CourseName: "Biology"},
	}

	a := NewColorAssigner(nil)
	a.Prime(courses)

	assert.Equal(t, map[string]string{
		"Chemistry": DefaultPalette[0],
		"Art":       DefaultPalette[1],
		"Biology":   DefaultPalette[2],
	}, a.Assigned())

	a.Reset()
	assert.Empty(t, a.Assigned())
	assert.Equal(t, DefaultPalette[0], a.ColorFor("Biology"))
}

func TestGradient(t *testing.T) {
	a := NewColorAssigner(nil)
	assert.Equal(t, Gradient{From: "#27ae60", To: "#139a4c"}, a.Gradient("Math"))
}

func TestColorAssignerConcurrentUse(t *testing.T) {
	a := NewColorAssigner(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				a.ColorFor(fmt.Sprintf("n%d", j%20))
			}
		}()
	}
	wg.Wait()
	assert.Len(t, a.Assigned(), 20)
}
