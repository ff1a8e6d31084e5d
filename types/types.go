// Package types defines the shared data structures for the emberkeep engine.
// This package contains only type definitions: no logic, no methods.
package types

// Vec2 is a point or direction on the ground plane.
type Vec2 struct {
	X float64
	Y float64
}

// Stats is a block of combat statistics. It is used both for an actor's
// base values and for additive equipment bonuses.
type Stats struct {
	MaxHealth int
	MaxMana   int
	Attack    int
	Defense   int
	Magic     int
}

// Mode is the global game mode.
type Mode int

const (
	ModeMenu Mode = iota
	ModePlaying
	ModeCombat
	ModePaused
)

// Panel identifies a presentation-layer panel.
type Panel int

const (
	PanelMainMenu Panel = iota
	PanelHUD
	PanelCombat
	PanelInventory
	PanelPause
	PanelGameOver
	PanelDialogue
)

// Stat identifies a numeric display value pushed to the presentation layer.
type Stat int

const (
	StatHealth Stat = iota
	StatMana
	StatExperience
	StatGold
	StatLevel
	StatEnemyHealth
)

// InputKind enumerates the discrete input events the engine consumes.
type InputKind int

const (
	InputNone InputKind = iota
	InputAttack
	InputSkill
	InputItem
	InputFlee
	InputInteract
	InputMove
	InputInventory
	InputEquip
	InputUnequip
	InputChoose
	InputStart
	InputPause
	InputResume
	InputLeave
)

// Input is one discrete action event from the input layer.
type Input struct {
	Kind   InputKind
	Item   string  // item ID for InputItem / InputEquip
	Slot   string  // equipment slot for InputUnequip
	Target string  // NPC ID for InputInteract; empty means the nearest
	Option int     // option index for InputChoose
	Dir    Vec2    // direction for InputMove
	Dist   float64 // distance for InputMove; 0 means one tick of movement
}

// ActionKind enumerates player combat actions.
type ActionKind int

const (
	ActionAttack ActionKind = iota
	ActionSkill
	ActionItem
	ActionFlee
)

// Action is a player combat action submitted during the player's turn.
type Action struct {
	Kind ActionKind
	Item string // consumable item ID for ActionItem
}

// Collision is a trigger overlap reported by the host engine (or computed
// by the engine's own proximity pass).
type Collision struct {
	A     string // entity ID, e.g. "player" or "player_attack"
	B     string // entity ID of the other party
	Enter bool   // true on enter, false on exit
}

// Effect is a single atomic state mutation instruction.
type Effect struct {
	Type   string
	Params map[string]any
}

// Event is emitted after state changes.
type Event struct {
	Type string
	Data map[string]any
}

// Condition is a predicate that must be true for a dialogue line to show.
type Condition struct {
	Type   string         // "has_item", "quest_active", "level_at_least", etc.
	Params map[string]any // condition-specific parameters
	Inner  *Condition     // for Not(): the negated inner condition
}

// CombatRules holds tunable combat constants, in seconds and probabilities.
type CombatRules struct {
	StartDelay   float64
	TurnDelay    float64
	VictoryDelay float64
	RespawnDelay float64
	SkillName    string
	SkillCost    int
	FleeChance   float64
	CritChance   float64
}

// GameDef holds game metadata and rules from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
	Combat  CombatRules
}

// PlayerDef is the player's starting configuration.
type PlayerDef struct {
	Name           string
	Stats          Stats
	Start          Vec2
	MoveSpeed      float64
	AttackReach    float64
	InventorySlots int
	Items          []string
}

// EnemyDef is the definition of a single placed enemy.
type EnemyDef struct {
	ID             string
	Name           string
	Kind           string // quest target tag, e.g. "Goblin"
	Stats          Stats
	Experience     int
	Gold           int
	Position       Vec2
	DetectionRange float64
	AttackRange    float64
	MoveSpeed      float64
	AttackCooldown float64
	WanderRadius   float64
}

// ItemKind classifies items.
type ItemKind string

const (
	ItemConsumable ItemKind = "consumable"
	ItemEquipment  ItemKind = "equipment"
	ItemQuest      ItemKind = "quest"
	ItemMaterial   ItemKind = "material"
)

// ItemDef is the definition of an item.
type ItemDef struct {
	ID            string
	Name          string
	Description   string
	Kind          ItemKind
	Value         int
	Heal          int    // consumables
	Mana          int    // consumables
	Slot          string // equipment: weapon, armor, helmet, gloves, boots
	Bonus         Stats  // equipment
	RequiredLevel int    // equipment
}

// QuestType classifies quests.
type QuestType string

const (
	QuestKill    QuestType = "kill"
	QuestCollect QuestType = "collect"
	QuestTalk    QuestType = "talk"
	QuestExplore QuestType = "explore"
)

// QuestDef is the definition of a quest.
type QuestDef struct {
	ID          string
	Title       string
	Description string
	Type        QuestType
	Target      string // enemy kind, item ID, NPC ID or area ID
	Required    int
	Experience  int
	Gold        int
	Items       []string
}

// DialogueOption is a selectable reply that jumps to another line.
type DialogueOption struct {
	Text string
	Next int
}

// DialogueLine is one line an NPC says.
type DialogueLine struct {
	Text     string
	Requires []Condition
	Effects  []Effect
	Options  []DialogueOption
}

// NPCDef is the definition of a non-hostile character.
type NPCDef struct {
	ID       string
	Name     string
	Position Vec2
	Range    float64
	Prompt   string
	Lines    []DialogueLine
}

// MatchCriteria selects the events a rule reacts to.
type MatchCriteria struct {
	Event  string         // event type, e.g. "enemy_defeated"
	Fields map[string]any // event data fields that must be equal
}

// RuleDef is a content-defined reaction to an event.
type RuleDef struct {
	ID          string
	When        MatchCriteria
	Conditions  []Condition
	Effects     []Effect
	Priority    int
	SourceOrder int
}

// AreaDef is a named region; entering it drives explore quests.
type AreaDef struct {
	ID       string
	Name     string
	Position Vec2
	Radius   float64
}
