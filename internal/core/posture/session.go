package posture

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"deskwell/internal/ai"
	"deskwell/internal/media"
)

// Status is the posture panel state.
type Status string

const (
	StatusEmpty     Status = "empty"
	StatusCaptured  Status = "captured"
	StatusAnalyzing Status = "analyzing"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
)

const (
	MessagePhotoUnavailable = "Could not read the photo. Please check the file and try again."
	MessageAnalysisFailed   = "An error occurred during analysis. Please try again."
)

// ErrNoPhoto indicates Analyze was called before a photo was captured.
var ErrNoPhoto = errors.New("no photo captured")

// Analyzer runs the remote posture analysis.
type Analyzer interface {
	AnalyzePosture(ctx context.Context, photoDataURI string) (ai.PostureResult, error)
}

// View is what the posture panel renders.
type View struct {
	Status       Status
	PhotoDataURI string
	Photo        []byte
	Result       ai.PostureResult
	Error        string
	RequestID    string
}

// Session tracks one photo and its analysis. A reset or a newer request
// bumps the generation; results from older generations are dropped.
type Session struct {
	mu         sync.Mutex
	analyzer   Analyzer
	logger     *slog.Logger
	generation uint64
	view       View
	onChange   func(View)
}

// NewSession creates an empty session.
func NewSession(analyzer Analyzer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		analyzer: analyzer,
		logger:   logger.With("component", "posture"),
		view:     View{Status: StatusEmpty},
	}
}

// OnChange registers a listener called after every state change.
func (session *Session) OnChange(listener func(View)) {
	session.mu.Lock()
	session.onChange = listener
	session.mu.Unlock()
}

// View returns the current state.
func (session *Session) View() View {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view
}

// Capture stores a photo. Invalid images are reported inline.
func (session *Session) Capture(data []byte, mimeType string) error {
	photoDataURI := media.EncodeDataURI(mimeType, data)
	if _, err := media.ParseDataURI(photoDataURI); err != nil {
		session.PhotoError(err)
		return err
	}

	session.update(func(view *View) {
		session.generation++
		*view = View{Status: StatusCaptured, PhotoDataURI: photoDataURI, Photo: data}
	})
	return nil
}

// PhotoError reports a failure to obtain a photo.
func (session *Session) PhotoError(err error) {
	session.logger.Warn("photo unavailable", "error", err)
	session.update(func(view *View) {
		session.generation++
		*view = View{Status: StatusFailed, Error: MessagePhotoUnavailable}
	})
}

// Analyze runs the analysis for the captured photo and blocks until the
// remote call returns. The result is committed only if no reset or newer
// request happened meanwhile.
func (session *Session) Analyze(ctx context.Context) error {
	session.mu.Lock()
	if session.view.PhotoDataURI == "" {
		session.mu.Unlock()
		return ErrNoPhoto
	}
	session.generation++
	generation := session.generation
	requestID := uuid.NewString()
	photoDataURI := session.view.PhotoDataURI
	session.view.Status = StatusAnalyzing
	session.view.Error = ""
	session.view.Result = ai.PostureResult{}
	session.view.RequestID = requestID
	view, listener := session.view, session.onChange
	session.mu.Unlock()
	notify(listener, view)

	session.logger.Info("posture analysis requested", "request_id", requestID)
	result, err := session.analyzer.AnalyzePosture(ctx, photoDataURI)

	session.mu.Lock()
	if generation != session.generation {
		session.mu.Unlock()
		session.logger.Info("stale posture result dropped", "request_id", requestID)
		return nil
	}
	if err != nil {
		session.view.Status = StatusFailed
		session.view.Error = MessageAnalysisFailed
	} else {
		session.view.Status = StatusDone
		session.view.Result = result
	}
	view, listener = session.view, session.onChange
	session.mu.Unlock()
	notify(listener, view)

	if err != nil {
		session.logger.Warn("posture analysis failed", "request_id", requestID, "error", err)
	}
	return err
}

// Reset clears the photo and any in-flight result.
func (session *Session) Reset() {
	session.update(func(view *View) {
		session.generation++
		*view = View{Status: StatusEmpty}
	})
}

func (session *Session) update(mutate func(view *View)) {
	session.mu.Lock()
	mutate(&session.view)
	view, listener := session.view, session.onChange
	session.mu.Unlock()
	notify(listener, view)
}

func notify(listener func(View), view View) {
	if listener != nil {
		listener(view)
	}
}
