// Package view turns app state into the tree the page renders. Building a
// tree has no side effects; the page throws its old DOM away on every new
// tree.
package view

type Screen int

const (
	ScreenMenu Screen = iota
	ScreenPlaying
	ScreenOptions
	ScreenResult
	ScreenEmpty
	ScreenLogin
	ScreenAdmin
	ScreenAddQuiz
	ScreenPicker
	ScreenList
)

var screenNames = map[Screen]string{
	ScreenMenu:    "menu",
	ScreenPlaying: "playing",
	ScreenOptions: "options",
	ScreenResult:  "result",
	ScreenEmpty:   "empty",
	ScreenLogin:   "login",
	ScreenAdmin:   "admin",
	ScreenAddQuiz: "add_quiz",
	ScreenPicker:  "picker",
	ScreenList:    "list",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return "unknown"
}

// Actions the page can send back.
const (
	ActionPlay   = "play"
	ActionAdmin  = "admin"
	ActionQuit   = "quit"
	ActionMenu   = "menu"
	ActionAnswer = "answer"
	ActionLogin  = "login"
	ActionBack   = "back"
	ActionAdd    = "add"
	ActionList   = "list"
	ActionBrowse = "browse"
	ActionSave   = "save"
	ActionOpen   = "open"
	ActionPick   = "pick"
	ActionUp     = "up"
	ActionCancel = "cancel"
)

// Input ids.
const (
	FieldPassword = "password"
	FieldCorrect  = "correct"
)

// DecoyField is the input id of the n-th decoy, counting from 1.
func DecoyField(n int) string {
	return "decoy" + string(rune('0'+n))
}

// Action is one button press. Fields carries every input on the screen at
// the time of the press.
type Action struct {
	Name   string            `json:"action"`
	Value  string            `json:"value,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

type NoticeKind string

const (
	NoticeError NoticeKind = "error"
	NoticeInfo  NoticeKind = "info"
)

// Notice is an inline message shown on the current screen.
type Notice struct {
	Kind NoticeKind
	Text string
}

type FormState struct {
	File    string
	Correct string
	Decoys  []string
}

type PickerState struct {
	Path   string
	Parent string
	Dirs   []string
	Files  []string
}

// State is everything the renderer needs. The dispatcher fills it from the
// controllers before every build.
type State struct {
	Screen  Screen
	Notice  Notice
	Score   int
	Options []string
	Form    FormState
	Picker  PickerState
	Titles  []string
}
