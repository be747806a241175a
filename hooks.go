package minios

// Hooks is the driver's callback port into a front end (spec.md §5): every
// user-visible event the simulator produces flows through one of these
// four methods. A front end implements Hooks to render a console, a GUI,
// or a test harness; NopHooks is the zero-effort default.
type Hooks interface {
	// LogMessage reports a diagnostic or informational event not tied to
	// any one process (a load, a truncation warning, a scheduling note).
	LogMessage(text string)

	// ProcessOutput reports text a running process printed.
	ProcessOutput(pid int, text string)

	// RequestInput is called when a process executes "assign x input"
	// and the driver is now paused waiting for ProvideInput.
	RequestInput(pid int, varName string)

	// StateUpdate is called at the end of every Step (including one that
	// returns early while paused on input) with a fresh Snapshot, for
	// front ends that render full state rather than reacting to
	// individual events. A Step on a completed simulation does not call it.
	StateUpdate(snap Snapshot)
}

// NopHooks is a Hooks implementation that does nothing; it is the default
// used when a Config does not supply one.
type NopHooks struct{}

func (NopHooks) LogMessage(string)         {}
func (NopHooks) ProcessOutput(int, string) {}
func (NopHooks) RequestInput(int, string)  {}
func (NopHooks) StateUpdate(Snapshot)      {}
