package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nathoo/emberkeep/types"
)

func TestRecorder_TracksState(t *testing.T) {
	r := NewRecorder()

	r.ShowPanel(types.PanelCombat)
	r.Message("Combat started!")
	r.UpdateStat(types.StatHealth, 90, 100)
	r.HidePanel(types.PanelCombat)

	assert.False(t, r.Visible(types.PanelCombat))
	assert.Equal(t, "Combat started!", r.LastMessage())
	assert.Equal(t, StatValue{Current: 90, Max: 100}, r.Stats[types.StatHealth])
	assert.Equal(t, []string{
		"show combat",
		"msg Combat started!",
		"stat health 90/100",
		"hide combat",
	}, r.Log)

	r.Reset()
	assert.Empty(t, r.Messages)
	assert.Equal(t, "", r.LastMessage())
	assert.Equal(t, 90, r.Stats[types.StatHealth].Current, "reset keeps stat snapshot")
}

func TestMulti_FansOut(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi{a, b, Nop{}}

	m.ShowPanel(types.PanelHUD)
	m.Message("hello")
	m.UpdateStat(types.StatGold, 5, 0)
	m.HidePanel(types.PanelMainMenu)

	for _, r := range []*Recorder{a, b} {
		assert.True(t, r.Visible(types.PanelHUD))
		assert.Equal(t, "hello", r.LastMessage())
		assert.Equal(t, 5, r.Stats[types.StatGold].Current)
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, "gameover", PanelName(types.PanelGameOver))
	assert.Equal(t, "unknown", PanelName(types.Panel(99)))
	assert.Equal(t, "enemy", StatName(types.StatEnemyHealth))
	assert.Equal(t, "unknown", StatName(types.Stat(99)))
}
