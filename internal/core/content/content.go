package content

import (
	"math/rand"
	"sync"
	"time"
)

// Stretch is a desk stretch with ordered instructions.
type Stretch struct {
	Name         string
	Instructions []string
}

// Tip is a short posture variation tip.
type Tip struct {
	Title       string
	Description string
}

// DeskStretches returns the stretch guide.
func DeskStretches() []Stretch {
	return []Stretch{
		{
			Name: "Neck Stretch",
			Instructions: []string{
				"Sit up tall and gently tilt your head to one side.",
				"Hold for 15-20 seconds.",
				"Repeat on the other side.",
			},
		},
		{
			Name: "Shoulder Roll",
			Instructions: []string{
				"Sit or stand tall.",
				"Roll your shoulders upwards towards your ears, then back and down.",
				"Repeat 5-10 times in both directions.",
			},
		},
		{
			Name: "Upper Back Stretch",
			Instructions: []string{
				"Clasp your hands in front of you and round your back.",
				"Reach forward, feeling a stretch between your shoulder blades.",
				"Hold for 15-20 seconds.",
			},
		},
		{
			Name: "Wrist and Finger Stretch",
			Instructions: []string{
				"Extend one arm in front of you, palm up.",
				"Gently bend your wrist down with your other hand.",
				"Hold for 15-20 seconds, then repeat with palm down.",
			},
		},
	}
}

// PostureTips returns the posture variation tips.
func PostureTips() []Tip {
	return []Tip{
		{Title: "Change Positions", Description: "Alternate between sitting and standing if you have a standing desk."},
		{Title: "Sit Back", Description: "Ensure your back is fully against your chair to support your spine."},
		{Title: "Take a Walk", Description: "Even a short walk to the water cooler can help reset your posture."},
		{Title: "Adjust Your Screen", Description: "Position your monitor at eye level to avoid straining your neck."},
	}
}

// MotivationalQuotes returns the phrases used for pomodoro phase changes.
func MotivationalQuotes() []string {
	return []string{
		"The secret of getting ahead is getting started.",
		"Don't watch the clock; do what it does. Keep going.",
		"The only way to do great work is to love what you do.",
		"Success is not final, failure is not fatal: it is the courage to continue that counts.",
		"Believe you can and you're halfway there.",
		"A little progress each day adds up to big results.",
		"The future depends on what you do today.",
		"Well done is better than well said.",
		"You are capable of more than you know.",
		"The expert in anything was once a beginner.",
	}
}

// QuotePicker selects phrases with an injectable random source.
type QuotePicker struct {
	mu     sync.Mutex
	rng    *rand.Rand
	quotes []string
}

// NewQuotePicker uses rng for selection. A nil rng is seeded from the clock.
func NewQuotePicker(rng *rand.Rand, quotes []string) *QuotePicker {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &QuotePicker{rng: rng, quotes: quotes}
}

// Pick returns a random quote, or an empty string when none are configured.
func (picker *QuotePicker) Pick() string {
	if len(picker.quotes) == 0 {
		return ""
	}
	picker.mu.Lock()
	defer picker.mu.Unlock()
	return picker.quotes[picker.rng.Intn(len(picker.quotes))]
}
