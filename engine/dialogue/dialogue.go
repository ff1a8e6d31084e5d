// Package dialogue implements NPC conversations: ordered lines with
// optional requirements, effects and reply options.
package dialogue

import (
	"errors"

	"github.com/nathoo/emberkeep/engine/rules"
	"github.com/nathoo/emberkeep/engine/state"
	"github.com/nathoo/emberkeep/types"
)

// Line is a dialogue line ready to show.
type Line struct {
	Index   int
	Speaker string
	Text    string
	Effects []types.Effect
	Options []types.DialogueOption
}

// Runner tracks the one conversation in progress.
type Runner struct {
	defs  *state.Defs
	facts rules.Facts

	npc    string
	index  int
	active bool
}

// NewRunner creates an idle runner.
func NewRunner(defs *state.Defs, f rules.Facts) *Runner {
	return &Runner{defs: defs, facts: f}
}

// Active reports whether a conversation is open.
func (r *Runner) Active() bool { return r.active }

// NPC returns the NPC being talked to, or "".
func (r *Runner) NPC() string {
	if !r.active {
		return ""
	}
	return r.npc
}

// Current returns the line being shown.
func (r *Runner) Current() (Line, bool) {
	if !r.active {
		return Line{}, false
	}
	return r.line(r.index), true
}

// Start opens a conversation at the NPC's first available line. Returns
// false if the NPC is unknown or has nothing to say.
func (r *Runner) Start(npcID string) (Line, bool) {
	if _, ok := r.defs.NPCs[npcID]; !ok {
		return Line{}, false
	}
	r.npc = npcID
	return r.jump(0)
}

// Next advances to the next available line, ending the conversation when
// none remain.
func (r *Runner) Next() (Line, bool) {
	if !r.active {
		return Line{}, false
	}
	return r.jump(r.index + 1)
}

// ErrNoOption is returned by Choose when the current line has no reply
// option with the given number.
var ErrNoOption = errors.New("no such option")

// Choose picks a reply option (zero-based) on the current line and jumps
// to the line it points at. An out-of-range choice leaves the runner on
// the current line and returns ErrNoOption; an option pointing past the
// last line ends the conversation.
func (r *Runner) Choose(option int) (Line, bool, error) {
	if !r.active {
		return Line{}, false, nil
	}
	cur := r.line(r.index)
	if option < 0 || option >= len(cur.Options) {
		return cur, true, ErrNoOption
	}
	line, ok := r.jump(cur.Options[option].Next)
	return line, ok, nil
}

// End closes the conversation.
func (r *Runner) End() {
	r.active = false
	r.npc = ""
	r.index = 0
}

// jump moves to the first available line at or after from.
func (r *Runner) jump(from int) (Line, bool) {
	npc := r.defs.NPCs[r.npc]
	if from < 0 {
		r.End()
		return Line{}, false
	}
	for i := from; i < len(npc.Lines); i++ {
		if rules.EvalAllConditions(npc.Lines[i].Requires, r.facts) {
			r.index = i
			r.active = true
			return r.line(i), true
		}
	}
	r.End()
	return Line{}, false
}

func (r *Runner) line(i int) Line {
	npc := r.defs.NPCs[r.npc]
	l := npc.Lines[i]
	return Line{
		Index:   i,
		Speaker: r.defs.NPCName(r.npc),
		Text:    l.Text,
		Effects: l.Effects,
		Options: l.Options,
	}
}
