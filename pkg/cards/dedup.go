package cards

// DedupTimelines drops Timeline cards whose key already appeared earlier in
// cards. Comment and Summary cards pass through untouched. It returns the
// kept cards and the number of suppressed duplicates.
func DedupTimelines(cards []Card) ([]Card, int) {
	seen := make(map[string]bool)
	kept := make([]Card, 0, len(cards))
	suppressed := 0

	for _, card := range cards {
		if card.Kind == KindTimeline {
			key := card.Key()
			if seen[key] {
				suppressed++
				continue
			}
			seen[key] = true
		}
		kept = append(kept, card)
	}

	return kept, suppressed
}

// Tracker remembers which cards a renderer has already shown while the
// buffer behind them keeps growing. It turns repeated full re-parses into an
// append-only sequence of completed cards.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	emitted    int // sections already handed out
	seen       map[string]bool
	suppressed int
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]bool)}
}

// Observe takes the sections of the current buffer and returns the cards
// that became complete since the last call. Closed sections are complete;
// the trailing section is complete only when final is true. Timeline cards
// whose key was already emitted are suppressed.
func (t *Tracker) Observe(sections []RawSection, final bool) []Card {
	var fresh []Card
	for i := t.emitted; i < len(sections); i++ {
		section := sections[i]
		if !section.Closed && !final {
			break
		}
		t.emitted = i + 1

		card := ParseSection(section)
		if card.Kind == KindTimeline {
			key := card.Key()
			if t.seen[key] {
				t.suppressed++
				continue
			}
			t.seen[key] = true
		}
		fresh = append(fresh, card)
	}
	return fresh
}

// Seen reports whether a Timeline card with this key was already emitted.
func (t *Tracker) Seen(key string) bool {
	return t.seen[key]
}

// Emitted returns the number of sections consumed so far.
func (t *Tracker) Emitted() int {
	return t.emitted
}

// Suppressed returns the number of duplicate Timeline cards withheld.
func (t *Tracker) Suppressed() int {
	return t.suppressed
}

// Reset forgets all emitted cards.
func (t *Tracker) Reset() {
	t.emitted = 0
	t.suppressed = 0
	t.seen = make(map[string]bool)
}
