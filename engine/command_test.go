package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/emberkeep/types"
)

// started returns an engine that has left the menu and run one tick of
// proximity, so the elder is in talking range.
func started(t *testing.T) *Engine {
	t.Helper()
	e, _ := newTestEngine(t, testDefs())
	play(e, types.Input{Kind: types.InputStart}, 0)
	require.Equal(t, types.ModePlaying, e.Mode())
	return e
}

func lastInput(t *testing.T, e *Engine) types.Input {
	t.Helper()
	require.NotEmpty(t, e.inputs)
	return e.inputs[len(e.inputs)-1]
}

func TestCommand_MenuOnlyStarts(t *testing.T) {
	e, _ := newTestEngine(t, testDefs())

	r := e.Command("look")
	assert.Equal(t, []string{"Type 'start' to begin."}, r.Output)
	assert.Zero(t, e.Pending())

	e.Command("play")
	e.Tick(0)
	assert.Equal(t, types.ModePlaying, e.Mode())
}

func TestCommand_QuitAndEmpty(t *testing.T) {
	e, _ := newTestEngine(t, testDefs())

	assert.True(t, e.Command("exit").Quit)
	assert.Equal(t, []string{"What do you want to do?"}, e.Command("   ").Output)
}

func TestCommand_Movement(t *testing.T) {
	e := started(t)

	e.Command("n 3")
	in := lastInput(t, e)
	assert.Equal(t, types.InputMove, in.Kind)
	assert.Equal(t, types.Vec2{Y: 1}, in.Dir)
	assert.Equal(t, 3.0, in.Dist)

	e.Command("go west")
	assert.Equal(t, 1.0, lastInput(t, e).Dist)

	r := e.Command("go sideways")
	assert.Contains(t, r.Output[0], "Go where?")
}

func TestCommand_Wait(t *testing.T) {
	e := started(t)

	assert.Equal(t, 5.0, e.Command("wait 5").Wait)
	assert.Equal(t, 1.0, e.Command("rest").Wait)
}

func TestCommand_TalkResolvesNearbyNPC(t *testing.T) {
	e := started(t)

	e.Command("talk to the elder")
	assert.Equal(t, "elder", lastInput(t, e).Target)
	e.Tick(0)

	assert.True(t, e.Dialogue.Active())
	assert.True(t, e.Quests.Active("cull"))

	e.Command("bye")
	e.Tick(0)
	assert.False(t, e.Dialogue.Active())
}

func TestCommand_TalkUnknownNPC(t *testing.T) {
	e := started(t)

	r := e.Command("talk stranger")
	assert.Equal(t, []string{`You don't see "stranger" here.`}, r.Output)
	assert.Zero(t, e.Pending())
}

func TestCommand_Choose(t *testing.T) {
	e := started(t)

	assert.Equal(t, []string{"Choose which option?"}, e.Command("choose").Output)

	e.Command("2")
	in := lastInput(t, e)
	assert.Equal(t, types.InputChoose, in.Kind)
	assert.Equal(t, 1, in.Option)
}

func TestCommand_ItemsResolveAgainstBag(t *testing.T) {
	e := started(t)

	e.Command("drink potion")
	assert.Equal(t, types.Input{Kind: types.InputItem, Item: "potion"}, lastInput(t, e))

	r := e.Command("use elixir")
	assert.Equal(t, []string{`You don't have "elixir".`}, r.Output)

	r = e.Command("take off helmet")
	assert.Equal(t, []string{`You aren't wearing "helmet".`}, r.Output)
}

func TestCommand_CombatRestrictsVerbs(t *testing.T) {
	e := started(t)
	e.Command("attack")
	e.Tick(0)
	require.Equal(t, types.ModeCombat, e.Mode())

	r := e.Command("quests")
	assert.Contains(t, r.Output[0], "middle of a fight")

	e.Command("go north")
	assert.Equal(t, types.InputFlee, lastInput(t, e).Kind)

	r = e.Command("look")
	assert.Contains(t, r.Output[0], "Fighting Goblin: 5/5 HP")
}

func TestCommand_PausedOnlyResumes(t *testing.T) {
	e := started(t)
	e.Command("pause")
	e.Tick(0)
	require.Equal(t, types.ModePaused, e.Mode())

	r := e.Command("n")
	assert.Contains(t, r.Output[0], "paused")

	e.Command("resume")
	e.Tick(0)
	assert.Equal(t, types.ModePlaying, e.Mode())
}

func TestCommand_Listings(t *testing.T) {
	e := started(t)

	look := e.Command("look").Output
	assert.Contains(t, look, "Elder is here.")

	assert.Equal(t, []string{"You have no quests."}, e.Command("journal").Output)
	assert.Equal(t, []string{"Bag (1/20):", "  Potion"}, e.Command("i").Output)

	stats := e.Command("stats").Output
	require.NotEmpty(t, stats)
	assert.Equal(t, "Hero, level 1", stats[0])
}

func TestCompass(t *testing.T) {
	origin := types.Vec2{}
	assert.Equal(t, "north", compass(origin, types.Vec2{Y: 5}))
	assert.Equal(t, "east", compass(origin, types.Vec2{X: 2}))
	assert.Equal(t, "southwest", compass(origin, types.Vec2{X: -1, Y: -1}))
	assert.Equal(t, "west", compass(origin, types.Vec2{X: -3}))
}
