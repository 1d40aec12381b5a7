package ui

// Screen is the active dashboard tab.
type Screen int

const (
	ScreenProcesses Screen = iota
	ScreenCPU
	ScreenNetwork

	screenCount = 3
)

var screenNames = [screenCount]string{"Processes", "Cpu", "Network"}

// Screens lists every screen in tab order.
func Screens() []Screen {
	return []Screen{ScreenProcesses, ScreenCPU, ScreenNetwork}
}

func (s Screen) String() string {
	if s < 0 || s >= screenCount {
		return "Screen(?)"
	}
	return screenNames[s]
}

// Next is the screen a tab press leads to.
func (s Screen) Next() Screen {
	return (s + 1) % screenCount
}

// Navigable reports whether the screen accepts selection movement and kill.
func (s Screen) Navigable() bool {
	return s == ScreenProcesses
}
