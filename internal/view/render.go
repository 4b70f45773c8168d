package view

import (
	"fmt"
	"path/filepath"
)

const AppTitle = "Guess the Movie?"

type Node struct {
	Kind   string `json:"kind"`
	ID     string `json:"id,omitempty"`
	Text   string `json:"text,omitempty"`
	Action string `json:"action,omitempty"`
	Value  string `json:"value,omitempty"`
	Secret bool   `json:"secret,omitempty"`
	Style  string `json:"style,omitempty"`
}

// Node kinds.
const (
	KindHeading = "heading"
	KindText    = "text"
	KindNotice  = "notice"
	KindButton  = "button"
	KindInput   = "input"
	KindVideo   = "video"
	KindItem    = "item"
)

type Tree struct {
	Screen string `json:"screen"`
	Title  string `json:"title"`
	Nodes  []Node `json:"nodes"`
}

// Build returns the full tree for s.
func Build(s State) Tree {
	var nodes []Node
	switch s.Screen {
	case ScreenMenu:
		nodes = buildMenu()
	case ScreenPlaying:
		nodes = buildPlaying()
	case ScreenOptions:
		nodes = buildOptions(s)
	case ScreenResult:
		nodes = buildResult(s)
	case ScreenEmpty:
		nodes = buildEmpty()
	case ScreenLogin:
		nodes = buildLogin()
	case ScreenAdmin:
		nodes = buildAdmin()
	case ScreenAddQuiz:
		nodes = buildAddQuiz(s)
	case ScreenPicker:
		nodes = buildPicker(s)
	case ScreenList:
		nodes = buildList(s)
	default:
		nodes = buildMenu()
	}
	if s.Notice.Text != "" {
		notice := Node{Kind: KindNotice, Text: s.Notice.Text, Style: string(s.Notice.Kind)}
		nodes = append([]Node{notice}, nodes...)
	}
	return Tree{Screen: s.Screen.String(), Title: AppTitle, Nodes: nodes}
}

func heading(text string) Node { return Node{Kind: KindHeading, Text: text} }

func text(t string) Node { return Node{Kind: KindText, Text: t} }

func button(label, action, value string) Node {
	return Node{Kind: KindButton, Text: label, Action: action, Value: value}
}

func input(id, label, value string) Node {
	return Node{Kind: KindInput, ID: id, Text: label, Value: value}
}

func buildMenu() []Node {
	return []Node{
		heading(AppTitle),
		button("Play", ActionPlay, ""),
		button("Admin panel", ActionAdmin, ""),
		button("Quit", ActionQuit, ""),
	}
}

func buildPlaying() []Node {
	return []Node{
		{Kind: KindVideo, ID: "frame"},
		button("Back to menu", ActionMenu, ""),
	}
}

func buildOptions(s State) []Node {
	nodes := []Node{text("Pick the right movie:")}
	for _, opt := range s.Options {
		nodes = append(nodes, button(opt, ActionAnswer, opt))
	}
	return nodes
}

func buildResult(s State) []Node {
	return []Node{
		heading("You lost!"),
		text(fmt.Sprintf("Your score: %d", s.Score)),
		button("Menu", ActionMenu, ""),
	}
}

func buildEmpty() []Node {
	return []Node{
		text("No quiz data yet"),
		button("Menu", ActionMenu, ""),
	}
}

func buildLogin() []Node {
	return []Node{
		text("Enter the admin password:"),
		{Kind: KindInput, ID: FieldPassword, Secret: true},
		button("Log in", ActionLogin, ""),
		button("Back", ActionBack, ""),
	}
}

func buildAdmin() []Node {
	return []Node{
		heading("Admin panel"),
		button("Add movie", ActionAdd, ""),
		button("Show all movies", ActionList, ""),
		button("Back", ActionBack, ""),
	}
}

func buildAddQuiz(s State) []Node {
	selected := "No file selected"
	if s.Form.File != "" {
		selected = "File: " + filepath.Base(s.Form.File)
	}
	nodes := []Node{
		text("Choose a video file:"),
		button("Browse", ActionBrowse, ""),
		text(selected),
		input(FieldCorrect, "Correct answer", s.Form.Correct),
	}
	for i := 1; i <= 4; i++ {
		value := ""
		if i-1 < len(s.Form.Decoys) {
			value = s.Form.Decoys[i-1]
		}
		nodes = append(nodes, input(DecoyField(i), fmt.Sprintf("Decoy %d", i), value))
	}
	return append(nodes,
		button("Save", ActionSave, ""),
		button("Back", ActionBack, ""),
	)
}

func buildPicker(s State) []Node {
	nodes := []Node{heading("/" + s.Picker.Path)}
	if s.Picker.Path != "" {
		nodes = append(nodes, button("Up", ActionUp, s.Picker.Parent))
	}
	for _, dir := range s.Picker.Dirs {
		nodes = append(nodes, button(dir+"/", ActionOpen, dir))
	}
	for _, f := range s.Picker.Files {
		nodes = append(nodes, button(f, ActionPick, f))
	}
	if len(s.Picker.Dirs) == 0 && len(s.Picker.Files) == 0 {
		nodes = append(nodes, text("No video files here"))
	}
	return append(nodes, button("Cancel", ActionCancel, ""))
}

func buildList(s State) []Node {
	nodes := []Node{text("All movies:")}
	for _, title := range s.Titles {
		nodes = append(nodes, Node{Kind: KindItem, Text: title})
	}
	return append(nodes, button("Back", ActionBack, ""))
}
