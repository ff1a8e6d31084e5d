package combat

// Phase is the turn state of an active session.
type Phase int

const (
	PlayerTurn Phase = iota
	EnemyTurn
	CombatEnd
)

func (p Phase) String() string {
	switch p {
	case PlayerTurn:
		return "player_turn"
	case EnemyTurn:
		return "enemy_turn"
	case CombatEnd:
		return "combat_end"
	default:
		return "unknown"
	}
}

// Outcome is how a session ended.
type Outcome int

const (
	None Outcome = iota
	Victory
	Defeat
	Fled
)

func (o Outcome) String() string {
	switch o {
	case None:
		return "none"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Fled:
		return "fled"
	default:
		return "unknown"
	}
}
