// Package inventory manages the player's bag and equipment slots.
// Gameplay failures (full bag, level too low, unknown item) are reported
// to the player as messages and leave state unchanged.
package inventory

import (
	"fmt"
	"sort"

	"github.com/nathoo/emberkeep/engine/actor"
	"github.com/nathoo/emberkeep/engine/events"
	"github.com/nathoo/emberkeep/engine/notify"
	"github.com/nathoo/emberkeep/engine/state"
	"github.com/nathoo/emberkeep/types"
)

// DefaultSlots is the bag size used when the player definition has none.
const DefaultSlots = 20

// Inventory is the player's bag plus equipped items by slot.
type Inventory struct {
	defs   *state.Defs
	player *actor.Player
	bus    *events.Bus
	ui     notify.Notifier

	slots    int
	bag      []string
	equipped map[string]string
	open     bool
}

// New creates an empty inventory for p.
func New(defs *state.Defs, p *actor.Player, bus *events.Bus, ui notify.Notifier) *Inventory {
	slots := defs.Player.InventorySlots
	if slots <= 0 {
		slots = DefaultSlots
	}
	if ui == nil {
		ui = notify.Nop{}
	}
	if bus == nil {
		bus = events.NewBus()
	}
	return &Inventory{
		defs:     defs,
		player:   p,
		bus:      bus,
		ui:       ui,
		slots:    slots,
		equipped: map[string]string{},
	}
}

// Slots returns the bag capacity.
func (inv *Inventory) Slots() int { return inv.slots }

// Len returns the number of items in the bag.
func (inv *Inventory) Len() int { return len(inv.bag) }

// Free returns the number of empty bag slots.
func (inv *Inventory) Free() int { return inv.slots - len(inv.bag) }

// Items returns a copy of the bag contents in pickup order.
func (inv *Inventory) Items() []string {
	return append([]string(nil), inv.bag...)
}

// Has reports whether the bag holds at least one of id.
func (inv *Inventory) Has(id string) bool {
	return inv.Count(id) > 0
}

// Count returns how many of id are in the bag.
func (inv *Inventory) Count(id string) int {
	n := 0
	for _, it := range inv.bag {
		if it == id {
			n++
		}
	}
	return n
}

// Equipped returns the item in slot, or "".
func (inv *Inventory) Equipped(slot string) string {
	return inv.equipped[slot]
}

// EquippedSlots returns the occupied slots in sorted order.
func (inv *Inventory) EquippedSlots() []string {
	out := make([]string, 0, len(inv.equipped))
	for s := range inv.equipped {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Add puts one item in the bag. It fails when the bag is full.
func (inv *Inventory) Add(id string) bool {
	if len(inv.bag) >= inv.slots {
		inv.ui.Message("Inventory full.")
		return false
	}
	inv.bag = append(inv.bag, id)
	return true
}

// Remove takes one item out of the bag.
func (inv *Inventory) Remove(id string) bool {
	for i, it := range inv.bag {
		if it == id {
			inv.bag = append(inv.bag[:i], inv.bag[i+1:]...)
			return true
		}
	}
	return false
}

// Use applies an item from the bag: consumables are consumed, equipment
// is equipped.
func (inv *Inventory) Use(id string) bool {
	if !inv.Has(id) {
		inv.ui.Message("You don't have that.")
		return false
	}
	def, ok := inv.defs.Item(id)
	if !ok {
		return false
	}
	switch def.Kind {
	case types.ItemConsumable:
		return inv.UseConsumable(id)
	case types.ItemEquipment:
		return inv.Equip(id)
	default:
		inv.ui.Message(fmt.Sprintf("You can't use the %s.", inv.defs.ItemName(id)))
		return false
	}
}

// UseConsumable consumes one consumable, restoring health and/or mana.
func (inv *Inventory) UseConsumable(id string) bool {
	def, ok := inv.defs.Item(id)
	if !ok || def.Kind != types.ItemConsumable || !inv.Has(id) {
		return false
	}

	healed := inv.player.Heal(def.Heal)
	restored := inv.player.RestoreMana(def.Mana)
	inv.Remove(id)

	switch {
	case def.Heal > 0 && def.Mana > 0:
		inv.ui.Message(fmt.Sprintf("You use the %s. +%d health, +%d mana.", def.Name, healed, restored))
	case def.Mana > 0:
		inv.ui.Message(fmt.Sprintf("You use the %s. +%d mana.", def.Name, restored))
	default:
		inv.ui.Message(fmt.Sprintf("You use the %s. +%d health.", def.Name, healed))
	}
	inv.pushStats()
	inv.bus.Publish(types.Event{Type: events.ItemUsed, Data: map[string]any{"item": id}})
	return true
}

// FirstConsumable returns the first consumable in the bag, or "".
func (inv *Inventory) FirstConsumable() string {
	for _, id := range inv.bag {
		if def, ok := inv.defs.Item(id); ok && def.Kind == types.ItemConsumable {
			return id
		}
	}
	return ""
}

// Equip moves an equipment item from the bag into its slot. Anything
// already in the slot goes back into the bag.
func (inv *Inventory) Equip(id string) bool {
	def, ok := inv.defs.Item(id)
	if !ok || def.Kind != types.ItemEquipment || def.Slot == "" {
		inv.ui.Message("You can't equip that.")
		return false
	}
	if !inv.Has(id) {
		inv.ui.Message("You don't have that.")
		return false
	}
	if inv.player.Level < def.RequiredLevel {
		inv.ui.Message(fmt.Sprintf("You need level %d to equip the %s.", def.RequiredLevel, def.Name))
		return false
	}

	inv.Remove(id)
	if prev := inv.equipped[def.Slot]; prev != "" {
		inv.bag = append(inv.bag, prev)
	}
	inv.equipped[def.Slot] = id
	inv.recompute()

	inv.ui.Message(fmt.Sprintf("You equip the %s.", def.Name))
	inv.bus.Publish(types.Event{Type: events.ItemEquipped, Data: map[string]any{"item": id, "slot": def.Slot}})
	return true
}

// Unequip moves the item in slot back into the bag. It refuses when the
// slot is empty or the bag is full.
func (inv *Inventory) Unequip(slot string) bool {
	id := inv.equipped[slot]
	if id == "" {
		inv.ui.Message("Nothing equipped there.")
		return false
	}
	if !inv.Add(id) {
		return false
	}
	delete(inv.equipped, slot)
	inv.recompute()
	inv.ui.Message(fmt.Sprintf("You unequip the %s.", inv.defs.ItemName(id)))
	return true
}

// IsOpen reports whether the inventory panel is shown.
func (inv *Inventory) IsOpen() bool { return inv.open }

// Toggle opens or closes the inventory panel. Returns the new state.
func (inv *Inventory) Toggle() bool {
	inv.open = !inv.open
	if inv.open {
		inv.ui.ShowPanel(types.PanelInventory)
	} else {
		inv.ui.HidePanel(types.PanelInventory)
	}
	return inv.open
}

// Close hides the panel if it is open.
func (inv *Inventory) Close() {
	if inv.open {
		inv.Toggle()
	}
}

// Bonus sums the stat bonuses of every equipped item.
func (inv *Inventory) Bonus() types.Stats {
	var b types.Stats
	for _, id := range inv.equipped {
		def, ok := inv.defs.Item(id)
		if !ok {
			continue
		}
		b.MaxHealth += def.Bonus.MaxHealth
		b.MaxMana += def.Bonus.MaxMana
		b.Attack += def.Bonus.Attack
		b.Defense += def.Bonus.Defense
		b.Magic += def.Bonus.Magic
	}
	return b
}

func (inv *Inventory) recompute() {
	inv.player.SetBonus(inv.Bonus())
	inv.pushStats()
}

func (inv *Inventory) pushStats() {
	p := inv.player
	inv.ui.UpdateStat(types.StatHealth, p.Health, p.MaxHealth())
	inv.ui.UpdateStat(types.StatMana, p.Mana, p.MaxMana())
}
