// Package game hosts the single event loop that drives every screen.
package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"reflect"
	"time"

	"movie-quiz/config"
	"movie-quiz/internal/admin"
	"movie-quiz/internal/auth"
	"movie-quiz/internal/files"
	"movie-quiz/internal/playback"
	"movie-quiz/internal/quiz"
	"movie-quiz/internal/view"
)

// Presenter is the visible surface: whole screens plus playback frames.
type Presenter interface {
	Present(tree view.Tree)
	playback.Surface
}

// Deps are the collaborators New wires into an App.
type Deps struct {
	Config    *config.Config
	Repo      *quiz.Repository
	Importer  admin.Importer
	Decoder   playback.Decoder
	Presenter Presenter
	// Scheduler defaults to the App itself, which runs callbacks on the loop.
	Scheduler playback.Scheduler
	Rand      *rand.Rand
	Quit      func()
}

// App owns the current screen and funnels every callback (button presses
// and playback ticks) through one goroutine.
type App struct {
	cfg     *config.Config
	quiz    *quiz.Service
	admin   *admin.Service
	gate    *auth.Service
	loop    *playback.Loop
	present Presenter
	quit    func()

	events chan func()
	done   chan struct{}

	screen view.Screen
	notice view.Notice
	picker view.PickerState
	last   *view.Tree
}

func New(d Deps) *App {
	a := &App{
		cfg:     d.Config,
		gate:    auth.NewService(d.Config.Admin.Password),
		admin:   admin.NewService(d.Repo, d.Importer),
		present: d.Presenter,
		quit:    d.Quit,
		events:  make(chan func(), 64),
		done:    make(chan struct{}),
		screen:  view.ScreenMenu,
	}
	sched := d.Scheduler
	if sched == nil {
		sched = a
	}
	a.loop = playback.NewLoop(d.Decoder, sched, d.Presenter, d.Config.Playback.TickInterval)
	a.quiz = quiz.NewService(d.Repo, a.loop, d.Rand)
	return a
}

// Run processes callbacks until ctx is done. It must be the only goroutine
// touching the controllers.
func (a *App) Run(ctx context.Context) error {
	defer close(a.done)
	a.render()
	for {
		select {
		case <-ctx.Done():
			a.loop.Stop()
			return ctx.Err()
		case fn := <-a.events:
			a.apply(fn)
		}
	}
}

// Dispatch queues a button press from any goroutine.
func (a *App) Dispatch(act view.Action) {
	a.post(func() { a.handle(act) })
}

// After implements playback.Scheduler by posting fn back onto the loop.
func (a *App) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { a.post(fn) })
	return func() { t.Stop() }
}

func (a *App) post(fn func()) {
	select {
	case a.events <- fn:
	case <-a.done:
	}
}

func (a *App) apply(fn func()) {
	fn()
	a.render()
}

func (a *App) handle(act view.Action) {
	a.notice = view.Notice{}
	switch a.screen {
	case view.ScreenMenu:
		a.handleMenu(act)
	case view.ScreenPlaying:
		a.handlePlaying(act)
	case view.ScreenOptions:
		a.handleOptions(act)
	case view.ScreenResult, view.ScreenEmpty:
		a.handleGameOver(act)
	case view.ScreenLogin:
		a.handleLogin(act)
	case view.ScreenAdmin:
		a.handleAdmin(act)
	case view.ScreenAddQuiz:
		a.handleAddQuiz(act)
	case view.ScreenPicker:
		a.handlePicker(act)
	case view.ScreenList:
		a.handleList(act)
	}
}

func (a *App) ignore(act view.Action) {
	log.Printf("Ignoring action %q on %s screen", act.Name, a.screen)
}

func (a *App) handleMenu(act view.Action) {
	switch act.Name {
	case view.ActionPlay:
		if err := a.quiz.StartGame(); err != nil {
			a.screen = view.ScreenEmpty
			return
		}
		a.screen = view.ScreenPlaying
	case view.ActionAdmin:
		a.screen = view.ScreenLogin
	case view.ActionQuit:
		a.quiz.Abort()
		if a.quit != nil {
			a.quit()
		}
	default:
		a.ignore(act)
	}
}

func (a *App) handlePlaying(act view.Action) {
	if act.Name != view.ActionMenu {
		a.ignore(act)
		return
	}
	a.quiz.Abort()
	a.screen = view.ScreenMenu
}

func (a *App) handleOptions(act view.Action) {
	if act.Name != view.ActionAnswer {
		a.ignore(act)
		return
	}
	correct, err := a.quiz.CheckAnswer(act.Value)
	if err != nil {
		if errors.Is(err, quiz.ErrEmptyStore) {
			a.screen = view.ScreenEmpty
			return
		}
		log.Printf("Error checking answer: %v", err)
		return
	}
	if correct {
		a.screen = view.ScreenPlaying
		return
	}
	a.screen = view.ScreenResult
}

func (a *App) handleGameOver(act view.Action) {
	if act.Name != view.ActionMenu {
		a.ignore(act)
		return
	}
	a.quiz.Abort()
	a.screen = view.ScreenMenu
}

func (a *App) handleLogin(act view.Action) {
	switch act.Name {
	case view.ActionLogin:
		if err := a.gate.Login(act.Fields[view.FieldPassword]); err != nil {
			a.notice = view.Notice{Kind: view.NoticeError, Text: "Wrong password"}
			return
		}
		a.screen = view.ScreenAdmin
	case view.ActionBack:
		a.screen = view.ScreenMenu
	default:
		a.ignore(act)
	}
}

func (a *App) handleAdmin(act view.Action) {
	switch act.Name {
	case view.ActionAdd:
		a.admin.BeginAdd()
		a.screen = view.ScreenAddQuiz
	case view.ActionList:
		a.screen = view.ScreenList
	case view.ActionBack:
		a.screen = view.ScreenMenu
	default:
		a.ignore(act)
	}
}

func (a *App) handleAddQuiz(act view.Action) {
	switch act.Name {
	case view.ActionBrowse:
		a.captureForm(act.Fields)
		if err := a.openPicker(""); err != nil {
			a.notice = view.Notice{Kind: view.NoticeError, Text: "Cannot open the file picker"}
			return
		}
		a.screen = view.ScreenPicker
	case view.ActionSave:
		a.captureForm(act.Fields)
		rec, err := a.admin.Save()
		switch {
		case errors.Is(err, quiz.ErrNoFileSelected):
			a.notice = view.Notice{Kind: view.NoticeError, Text: "No file selected"}
		case errors.Is(err, admin.ErrIncompleteForm):
			a.notice = view.Notice{Kind: view.NoticeError, Text: "Fill in all fields"}
		case err != nil:
			a.notice = view.Notice{Kind: view.NoticeError, Text: fmt.Sprintf("Could not save: %v", err)}
		default:
			log.Printf("Movie %q added", rec.Correct)
			a.notice = view.Notice{Kind: view.NoticeInfo, Text: "Movie added"}
			a.screen = view.ScreenAdmin
		}
	case view.ActionBack:
		a.screen = view.ScreenAdmin
	default:
		a.ignore(act)
	}
}

func (a *App) handlePicker(act view.Action) {
	switch act.Name {
	case view.ActionOpen:
		if err := a.openPicker(files.Join(a.picker.Path, act.Value)); err != nil {
			a.notice = view.Notice{Kind: view.NoticeError, Text: "Cannot open folder"}
		}
	case view.ActionUp:
		if err := a.openPicker(a.picker.Parent); err != nil {
			a.notice = view.Notice{Kind: view.NoticeError, Text: "Cannot open folder"}
		}
	case view.ActionPick:
		src, err := files.Resolve(a.cfg.Store.ImportRoot, files.Join(a.picker.Path, act.Value))
		if err == nil {
			err = files.CheckVideo(src, a.cfg.Store.VideoExtensions)
		}
		if err == nil {
			_, err = a.admin.SelectFile(src)
		}
		if err != nil {
			log.Printf("Error importing %q: %v", act.Value, err)
			a.notice = view.Notice{Kind: view.NoticeError, Text: fmt.Sprintf("Could not import %s", act.Value)}
			return
		}
		a.notice = view.Notice{Kind: view.NoticeInfo, Text: "File: " + filepath.Base(src)}
		a.screen = view.ScreenAddQuiz
	case view.ActionCancel:
		if _, err := a.admin.SelectFile(""); err != nil {
			a.notice = view.Notice{Kind: view.NoticeError, Text: "No file selected"}
		}
		a.screen = view.ScreenAddQuiz
	default:
		a.ignore(act)
	}
}

func (a *App) handleList(act view.Action) {
	if act.Name != view.ActionBack {
		a.ignore(act)
		return
	}
	a.screen = view.ScreenAdmin
}

func (a *App) captureForm(fields map[string]string) {
	decoys := make([]string, admin.DecoyCount)
	for i := range decoys {
		decoys[i] = fields[view.DecoyField(i+1)]
	}
	a.admin.SetFields(fields[view.FieldCorrect], decoys)
}

func (a *App) openPicker(rel string) error {
	listing, err := files.List(a.cfg.Store.ImportRoot, rel, a.cfg.Store.VideoExtensions)
	if err != nil {
		log.Printf("Error listing %q: %v", rel, err)
		return err
	}
	a.picker = view.PickerState{
		Path:   listing.Path,
		Parent: listing.Parent,
		Dirs:   listing.Dirs,
		Files:  listing.Files,
	}
	return nil
}

// sync follows transitions the quiz makes on its own, i.e. playback ending.
func (a *App) sync() {
	if a.screen == view.ScreenPlaying && a.quiz.Phase() == quiz.PhaseOptions {
		a.screen = view.ScreenOptions
	}
}

func (a *App) state() view.State {
	form := a.admin.Form()
	s := view.State{
		Screen:  a.screen,
		Notice:  a.notice,
		Score:   a.quiz.Score(),
		Options: a.quiz.Options(),
		Form: view.FormState{
			File:    form.File,
			Correct: form.Correct,
			Decoys:  append([]string(nil), form.Decoys[:]...),
		},
		Picker: a.picker,
	}
	if a.screen == view.ScreenList {
		s.Titles = a.admin.Titles()
	}
	return s
}

// render presents the current screen unless it is identical to the last
// one sent.
func (a *App) render() {
	a.sync()
	tree := view.Build(a.state())
	if a.last != nil && reflect.DeepEqual(*a.last, tree) {
		return
	}
	a.last = &tree
	a.present.Present(tree)
}

// Screen reports the current screen. Only call it from the loop or tests.
func (a *App) Screen() view.Screen { return a.screen }
