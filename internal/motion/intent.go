package motion

// Intent is one immutable input snapshot per tick, produced by an external
// collaborator (key mapping, replay, script). This system never polls input
// devices itself.
type Intent struct {
	Axis            int // -1, 0 or 1
	JumpHeld        bool
	JumpJustPressed bool
	DuckHeld        bool
}
