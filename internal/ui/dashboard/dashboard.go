package dashboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"deskwell/internal/core/content"
	"deskwell/internal/core/model"
	"deskwell/internal/core/pomodoro"
	"deskwell/internal/core/posture"
	"deskwell/internal/core/scheduler"
	"deskwell/internal/ui/preferences"
)

const analysisTimeout = 2 * time.Minute

// Controller is the subset of the scheduler the dashboard drives.
type Controller interface {
	SetEnabled(key model.ReminderKey, enabled bool)
	SetFrequency(key model.ReminderKey, minutes int) error
	ResetAll()
	StartPomodoro()
	StopPomodoro()
	ResetPomodoro()
}

type reminderCard struct {
	key       model.ReminderKey
	enabled   *widget.Check
	frequency *widget.Select
	progress  *widget.ProgressBar
	remaining *widget.Label
}

// Dashboard is the main window. All methods must run on the fyne goroutine.
type Dashboard struct {
	window     fyne.Window
	controller Controller
	session    *posture.Session
	logger     *slog.Logger

	cards   []*reminderCard
	syncing bool

	phaseLabel    *widget.Label
	clock         *canvas.Text
	pomodoroBar   *widget.ProgressBar
	startButton   *widget.Button
	stopButton    *widget.Button
	resetButton   *widget.Button
	photo         *canvas.Image
	postureStatus *widget.Label
	analysis      *widget.Label
	stretches     *widget.Label
	analyzeButton *widget.Button
	retakeButton  *widget.Button

	tips     []content.Tip
	tipIndex int
	tipTitle *widget.Label
	tipBody  *widget.Label
}

// New builds the dashboard window. It stays hidden until Show.
func New(app fyne.App, controller Controller, session *posture.Session, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	dashboard := &Dashboard{
		window:     app.NewWindow("DeskWell"),
		controller: controller,
		session:    session,
		logger:     logger.With("component", "dashboard"),
		tips:       content.PostureTips(),
	}
	if app.Icon() != nil {
		dashboard.window.SetIcon(app.Icon())
	}

	tabs := container.NewAppTabs(
		container.NewTabItem("Reminders", dashboard.buildReminders()),
		container.NewTabItem("Posture", dashboard.buildPosture()),
		container.NewTabItem("Stretches & Tips", dashboard.buildGuides()),
	)
	dashboard.window.SetContent(tabs)
	dashboard.window.Resize(fyne.NewSize(560, 640))
	dashboard.window.SetCloseIntercept(dashboard.window.Hide)

	if session != nil {
		session.OnChange(func(view posture.View) {
			fyne.Do(func() { dashboard.renderPosture(view) })
		})
		dashboard.renderPosture(session.View())
	}
	return dashboard
}

// Show displays the dashboard.
func (dashboard *Dashboard) Show() {
	dashboard.window.Show()
	dashboard.window.RequestFocus()
}

// Update renders a scheduler snapshot.
func (dashboard *Dashboard) Update(snapshot scheduler.Snapshot) {
	dashboard.syncing = true
	defer func() { dashboard.syncing = false }()

	for _, card := range dashboard.cards {
		for _, current := range snapshot.Reminders {
			if current.Key != card.key {
				continue
			}
			card.enabled.SetChecked(current.Enabled)
			card.frequency.SetSelected(preferences.FrequencyLabel(current.Frequency))
			if current.Enabled {
				card.frequency.Enable()
			} else {
				card.frequency.Disable()
			}
			card.progress.SetValue(current.Progress)
			card.remaining.SetText(RemainingText(current.Enabled, current.Remaining(snapshot.At)))
		}
	}

	timer := snapshot.Pomodoro
	dashboard.phaseLabel.SetText(PhaseText(timer.Phase))
	dashboard.clock.Text = timer.Clock()
	dashboard.clock.Refresh()
	dashboard.pomodoroBar.SetValue(timer.Progress())
	if timer.Running() {
		dashboard.startButton.Disable()
		dashboard.stopButton.Enable()
	} else {
		dashboard.startButton.Enable()
		dashboard.stopButton.Disable()
	}
}

func (dashboard *Dashboard) buildReminders() fyne.CanvasObject {
	list := container.NewVBox()
	for _, definition := range model.DefaultReminders() {
		card := &reminderCard{
			key:       definition.Key,
			enabled:   widget.NewCheck("Enabled", nil),
			frequency: widget.NewSelect(preferences.FrequencyOptions(definition), nil),
			progress:  widget.NewProgressBar(),
			remaining: widget.NewLabel(""),
		}
		card.progress.Max = 100
		card.progress.TextFormatter = func() string { return "" }
		card.enabled.SetChecked(definition.DefaultEnabled)
		card.frequency.SetSelected(preferences.FrequencyLabel(definition.DefaultFrequency))
		if !definition.DefaultEnabled {
			card.frequency.Disable()
		}

		key := definition.Key
		card.enabled.OnChanged = func(enabled bool) {
			if dashboard.syncing {
				return
			}
			dashboard.controller.SetEnabled(key, enabled)
		}
		card.frequency.OnChanged = func(label string) {
			if dashboard.syncing {
				return
			}
			minutes, ok := preferences.ParseFrequencyLabel(label)
			if !ok {
				return
			}
			if err := dashboard.controller.SetFrequency(key, minutes); err != nil {
				dashboard.logger.Warn("frequency rejected", "reminder", key, "error", err)
			}
		}
		dashboard.cards = append(dashboard.cards, card)

		description := widget.NewLabel(definition.Description)
		description.Wrapping = fyne.TextWrapWord
		list.Add(widget.NewCard(definition.Title, "", container.NewVBox(
			description,
			container.NewGridWithColumns(2, card.enabled, card.frequency),
			card.progress,
			card.remaining,
		)))
	}

	resetAll := widget.NewButton("Reset all timers", func() {
		dashboard.controller.ResetAll()
	})
	return container.NewVScroll(container.NewVBox(dashboard.buildPomodoro(), list, resetAll))
}

func (dashboard *Dashboard) buildPomodoro() fyne.CanvasObject {
	dashboard.phaseLabel = widget.NewLabel(PhaseText(pomodoro.PhaseIdle))
	dashboard.clock = canvas.NewText("25:00", theme.Color(theme.ColorNamePrimary))
	dashboard.clock.TextSize = 36
	dashboard.clock.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	dashboard.clock.Alignment = fyne.TextAlignCenter
	dashboard.pomodoroBar = widget.NewProgressBar()
	dashboard.pomodoroBar.Max = 100
	dashboard.pomodoroBar.TextFormatter = func() string { return "" }

	dashboard.startButton = widget.NewButton("Start", dashboard.controller.StartPomodoro)
	dashboard.stopButton = widget.NewButton("Stop", dashboard.controller.StopPomodoro)
	dashboard.stopButton.Disable()
	dashboard.resetButton = widget.NewButton("Reset", dashboard.controller.ResetPomodoro)

	return widget.NewCard("Pomodoro Timer", "25 minutes of focus, 5 minutes of rest", container.NewVBox(
		dashboard.phaseLabel,
		dashboard.clock,
		dashboard.pomodoroBar,
		container.NewGridWithColumns(3, dashboard.startButton, dashboard.stopButton, dashboard.resetButton),
	))
}

func (dashboard *Dashboard) buildPosture() fyne.CanvasObject {
	dashboard.photo = canvas.NewImageFromResource(nil)
	dashboard.photo.FillMode = canvas.ImageFillContain
	dashboard.photo.SetMinSize(fyne.NewSize(320, 240))

	dashboard.postureStatus = widget.NewLabel("")
	dashboard.postureStatus.Wrapping = fyne.TextWrapWord
	dashboard.analysis = widget.NewLabel("")
	dashboard.analysis.Wrapping = fyne.TextWrapWord
	dashboard.stretches = widget.NewLabel("")
	dashboard.stretches.Wrapping = fyne.TextWrapWord

	choose := widget.NewButton("Choose photo", dashboard.choosePhoto)
	dashboard.analyzeButton = widget.NewButton("Analyze posture", dashboard.analyze)
	dashboard.retakeButton = widget.NewButton("Retake", func() {
		if dashboard.session != nil {
			dashboard.session.Reset()
		}
	})

	return container.NewVScroll(container.NewVBox(
		widget.NewLabelWithStyle("AI Posture Check", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		dashboard.photo,
		container.NewGridWithColumns(3, choose, dashboard.analyzeButton, dashboard.retakeButton),
		dashboard.postureStatus,
		widget.NewCard("Posture analysis", "", dashboard.analysis),
		widget.NewCard("Recommended stretches", "", dashboard.stretches),
	))
}

func (dashboard *Dashboard) buildGuides() fyne.CanvasObject {
	accordion := widget.NewAccordion()
	for _, stretch := range content.DeskStretches() {
		steps := widget.NewLabel(StepsText(stretch))
		steps.Wrapping = fyne.TextWrapWord
		accordion.Append(widget.NewAccordionItem(stretch.Name, steps))
	}

	dashboard.tipTitle = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	dashboard.tipBody = widget.NewLabel("")
	dashboard.tipBody.Wrapping = fyne.TextWrapWord
	previous := widget.NewButton("Previous", func() { dashboard.showTip(-1) })
	next := widget.NewButton("Next", func() { dashboard.showTip(1) })
	dashboard.showTip(0)

	return container.NewVScroll(container.NewVBox(
		widget.NewCard("Desk Stretches", "Simple stretches you can do at your desk", accordion),
		widget.NewCard("Posture Variation Tips", "", container.NewVBox(
			dashboard.tipTitle,
			dashboard.tipBody,
			container.NewGridWithColumns(2, previous, next),
		)),
	))
}

func (dashboard *Dashboard) showTip(delta int) {
	if len(dashboard.tips) == 0 {
		return
	}
	dashboard.tipIndex = CycleIndex(dashboard.tipIndex, delta, len(dashboard.tips))
	tip := dashboard.tips[dashboard.tipIndex]
	dashboard.tipTitle.SetText(tip.Title)
	dashboard.tipBody.SetText(tip.Description)
}

func (dashboard *Dashboard) choosePhoto() {
	if dashboard.session == nil {
		return
	}
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dashboard.session.PhotoError(err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			dashboard.session.PhotoError(err)
			return
		}
		_ = dashboard.session.Capture(data, PhotoMIMEType(reader.URI()))
	}, dashboard.window)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".webp"}))
	open.Show()
}

func (dashboard *Dashboard) analyze() {
	if dashboard.session == nil {
		return
	}
	session := dashboard.session
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), analysisTimeout)
		defer cancel()
		// Failures are already rendered through OnChange.
		_ = session.Analyze(ctx)
	}()
}

func (dashboard *Dashboard) renderPosture(view posture.View) {
	dashboard.postureStatus.SetText(PostureStatusText(view))
	dashboard.analysis.SetText(view.Result.PostureAnalysis)
	dashboard.stretches.SetText(view.Result.StretchRecommendations)

	if len(view.Photo) > 0 {
		dashboard.photo.Resource = fyne.NewStaticResource("photo", view.Photo)
	} else {
		dashboard.photo.Resource = nil
	}
	dashboard.photo.Refresh()

	if view.PhotoDataURI != "" && view.Status != posture.StatusAnalyzing {
		dashboard.analyzeButton.Enable()
	} else {
		dashboard.analyzeButton.Disable()
	}
	if view.Status == posture.StatusEmpty {
		dashboard.retakeButton.Disable()
	} else {
		dashboard.retakeButton.Enable()
	}
}

// PhaseText labels the pomodoro phase.
func PhaseText(phase pomodoro.Phase) string {
	switch phase {
	case pomodoro.PhaseWork:
		return "Focus"
	case pomodoro.PhaseBreak:
		return "Break"
	default:
		return "Ready"
	}
}

// RemainingText describes when a reminder fires next.
func RemainingText(enabled bool, remaining time.Duration) string {
	if !enabled {
		return "Off"
	}
	minutes := int(math.Ceil(remaining.Minutes()))
	if minutes <= 1 {
		return "Next in less than a minute"
	}
	return fmt.Sprintf("Next in %d minutes", minutes)
}

// PostureStatusText is the line shown above the analysis results.
func PostureStatusText(view posture.View) string {
	switch view.Status {
	case posture.StatusEmpty:
		return "Choose a photo of yourself at your desk."
	case posture.StatusCaptured:
		return "Photo ready. Analyze it when you are."
	case posture.StatusAnalyzing:
		return "Analyzing your posture..."
	case posture.StatusDone:
		return "Analysis complete."
	case posture.StatusFailed:
		return view.Error
	default:
		return ""
	}
}

// StepsText numbers the stretch instructions.
func StepsText(stretch content.Stretch) string {
	lines := make([]string, 0, len(stretch.Instructions))
	for index, step := range stretch.Instructions {
		lines = append(lines, fmt.Sprintf("%d. %s", index+1, step))
	}
	return strings.Join(lines, "\n")
}

// CycleIndex moves current by delta and wraps around n.
func CycleIndex(current, delta, n int) int {
	if n <= 0 {
		return 0
	}
	return ((current+delta)%n + n) % n
}

// PhotoMIMEType picks the image MIME type from the URI.
func PhotoMIMEType(uri fyne.URI) string {
	if uri == nil {
		return "image/jpeg"
	}
	if mimeType := uri.MimeType(); strings.HasPrefix(mimeType, "image/") {
		return mimeType
	}
	switch strings.ToLower(uri.Extension()) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
