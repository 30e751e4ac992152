// Package dashboard keeps the dashboard views consistent with the backend.
//
// Every user action goes through the Controller, which holds a single action
// lock. An action returns a *Pending network call; the caller runs it off the UI
// loop and hands the resulting Completion back to Controller.Complete, which
// updates the views and may return a follow-up refresh. The Controller is not
// safe for concurrent use: all calls except Pending.Run belong on one goroutine.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"signal-desk/internal/domain"
	"signal-desk/internal/locale"

	"github.com/rs/zerolog"
)

// Gateway is the backend the controller drives.
type Gateway interface {
	GetSignal(ctx context.Context) (domain.SignalResult, error)
	SubmitResult(ctx context.Context, sub domain.Submission) (domain.Ack, error)
	DashboardData(ctx context.Context) (domain.DashboardSnapshot, error)
	UndoTrade(ctx context.Context, tradeID string) (domain.Ack, error)
	NewSession(ctx context.Context) (domain.Ack, error)
	SaveBulkPattern(ctx context.Context, pattern []domain.Outcome) (domain.Ack, error)
	OCRScreenshot(ctx context.Context, filename string, image io.Reader) ([]string, error)
	DownloadExport(ctx context.Context, w io.Writer) (int64, error)
}

// Observer is notified of finished actions and raised alerts.
type Observer interface {
	ActionFinished(kind ActionKind, held time.Duration, err error)
	AlertsRaised(sig domain.SignalReady)
}

// MultiObserver fans notifications out to several observers.
type MultiObserver []Observer

func (m MultiObserver) ActionFinished(kind ActionKind, held time.Duration, err error) {
	for _, o := range m {
		o.ActionFinished(kind, held, err)
	}
}

func (m MultiObserver) AlertsRaised(sig domain.SignalReady) {
	for _, o := range m {
		o.AlertsRaised(sig)
	}
}

type NoticeLevel int

const (
	NoticeInfo NoticeLevel = iota
	NoticeError
)

// Notice is a message for the operator, the terminal counterpart of alert().
type Notice struct {
	Level NoticeLevel
	Text  string
}

// ProgressPanel holds the accuracy and learning indicators of the last snapshot.
type ProgressPanel struct {
	Loaded          bool
	Accuracy        float64
	Collected       int
	LearningPercent int
	Target          int
}

type ConfirmKind int

const (
	ConfirmUndo ConfirmKind = iota + 1
	ConfirmNewSession
)

// Confirmation is a staged destructive action awaiting Confirm or Cancel.
type Confirmation struct {
	Kind    ConfirmKind
	TradeID string
	Prompt  string
}

// Pending is a network call that has acquired the lock but not yet run.
type Pending struct {
	Kind ActionKind
	run  func(ctx context.Context) Completion
}

// Run performs the network call. It touches no controller state and may run on
// any goroutine.
func (p *Pending) Run(ctx context.Context) Completion {
	c := p.run(ctx)
	c.Kind = p.Kind
	return c
}

// Completion is the settled result of a Pending call.
type Completion struct {
	Kind ActionKind
	Err  error

	signal   domain.SignalResult
	snapshot domain.DashboardSnapshot
	ack      domain.Ack
	letters  []string
	path     string
}

type Options struct {
	Text         locale.Table
	Features     Features
	PatternSlots int
	ExportDir    string
	UploadDir    string // confines screenshot uploads when set
	Logger       *zerolog.Logger
	Observer     Observer
	Now          func() time.Time
}

// Controller owns the action lock and every view of one dashboard.
type Controller struct {
	gw       Gateway
	text     locale.Table
	features Features

	lock     ActionLock
	signal   *SignalView
	alerts   *AlertPresenter
	history  *HistoryView
	gauge    *VolatilityGauge
	importer *PatternImporter

	choice   string
	controls bool
	confirm  *Confirmation
	notice   *Notice
	progress ProgressPanel

	exportDir string
	uploadDir string
	logger    zerolog.Logger
	observer  Observer
	now       func() time.Time
}

func NewController(gw Gateway, opts Options) *Controller {
	if opts.Text.WaitLabel == "" {
		opts.Text = locale.English
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "dashboard").Logger()
	}

	c := &Controller{
		gw:        gw,
		text:      opts.Text,
		features:  opts.Features,
		signal:    NewSignalView(opts.Text, opts.Features),
		alerts:    NewAlertPresenter(opts.Text, opts.Features),
		history:   NewHistoryView(opts.Text),
		gauge:     NewVolatilityGauge(opts.Features),
		exportDir: opts.ExportDir,
		uploadDir: opts.UploadDir,
		logger:    logger,
		observer:  opts.Observer,
		now:       opts.Now,
	}
	c.lock.now = opts.Now
	if opts.Features.Importer {
		c.importer = NewPatternImporter(opts.PatternSlots)
	}
	return c
}

func (c *Controller) Text() locale.Table { return c.text }
func (c *Controller) Features() Features { return c.features }
func (c *Controller) Signal() *SignalView { return c.signal }
func (c *Controller) Alerts() *AlertPresenter { return c.alerts }
func (c *Controller) History() *HistoryView { return c.history }
func (c *Controller) Volatility() *VolatilityGauge { return c.gauge }
func (c *Controller) Importer() *PatternImporter { return c.importer }
func (c *Controller) Progress() ProgressPanel { return c.progress }
func (c *Controller) Busy() (ActionKind, bool) { return c.lock.Held() }
func (c *Controller) ControlsEnabled() bool { return c.controls }
func (c *Controller) CommittedChoice() string { return c.choice }

// Notice returns the last operator message, if any.
func (c *Controller) Notice() (Notice, bool) {
	if c.notice == nil {
		return Notice{}, false
	}
	return *c.notice, true
}

func (c *Controller) DismissNotice() { c.notice = nil }

// Confirmation returns the staged destructive action, if any.
func (c *Controller) Confirmation() (Confirmation, bool) {
	if c.confirm == nil {
		return Confirmation{}, false
	}
	return *c.confirm, true
}

// RequestSignal asks the backend for a new prediction.
func (c *Controller) RequestSignal() (*Pending, error) {
	if err := c.lock.Acquire(ActionSignal); err != nil {
		return nil, err
	}
	c.signal.SetAnalyzing(true)
	c.alerts.HideBanners()
	return &Pending{Kind: ActionSignal, run: func(ctx context.Context) Completion {
		res, err := c.gw.GetSignal(ctx)
		return Completion{signal: res, Err: err}
	}}, nil
}

// SubmitResult records the actual outcome against the committed prediction.
// Result controls are disabled before the request is issued.
func (c *Controller) SubmitResult(actual domain.Outcome) (*Pending, error) {
	if _, held := c.lock.Held(); held {
		return nil, ErrBusy
	}
	if !actual.IsValid() {
		return nil, fmt.Errorf("submit result: invalid outcome %q", actual)
	}
	if !c.controls {
		return nil, ErrControlsDisabled
	}
	if c.choice == "" {
		return nil, ErrNoPrediction
	}
	if err := c.lock.Acquire(ActionSubmit); err != nil {
		return nil, err
	}
	c.controls = false

	sub := domain.Submission{Result: actual, UserChoice: c.choice, BetAmount: domain.DefaultBetAmount}
	return &Pending{Kind: ActionSubmit, run: func(ctx context.Context) Completion {
		ack, err := c.gw.SubmitResult(ctx, sub)
		return Completion{ack: ack, Err: err}
	}}, nil
}

// Refresh re-derives every view from a fresh snapshot.
func (c *Controller) Refresh() (*Pending, error) {
	if err := c.lock.Acquire(ActionRefresh); err != nil {
		return nil, err
	}
	return c.refreshPending(), nil
}

// AskUndo stages deletion of one trade.
func (c *Controller) AskUndo(tradeID string) error {
	if _, held := c.lock.Held(); held {
		return ErrBusy
	}
	if strings.TrimSpace(tradeID) == "" {
		return errors.New("undo: empty trade id")
	}
	c.confirm = &Confirmation{Kind: ConfirmUndo, TradeID: tradeID, Prompt: c.text.ConfirmUndo}
	return nil
}

// AskNewSession stages archival of the current session.
func (c *Controller) AskNewSession() error {
	if _, held := c.lock.Held(); held {
		return ErrBusy
	}
	c.confirm = &Confirmation{Kind: ConfirmNewSession, Prompt: c.text.ConfirmNewSession}
	return nil
}

func (c *Controller) Cancel() { c.confirm = nil }

// Confirm issues the staged destructive request.
func (c *Controller) Confirm() (*Pending, error) {
	if c.confirm == nil {
		return nil, ErrNothingToConfirm
	}
	staged := *c.confirm
	switch staged.Kind {
	case ConfirmUndo:
		if err := c.lock.Acquire(ActionUndo); err != nil {
			return nil, err
		}
		c.confirm = nil
		return &Pending{Kind: ActionUndo, run: func(ctx context.Context) Completion {
			ack, err := c.gw.UndoTrade(ctx, staged.TradeID)
			return Completion{ack: ack, Err: err}
		}}, nil
	case ConfirmNewSession:
		if err := c.lock.Acquire(ActionNewSession); err != nil {
			return nil, err
		}
		c.confirm = nil
		return &Pending{Kind: ActionNewSession, run: func(ctx context.Context) Completion {
			ack, err := c.gw.NewSession(ctx)
			return Completion{ack: ack, Err: err}
		}}, nil
	}
	c.confirm = nil
	return nil, ErrNothingToConfirm
}

// SubmitPattern validates the importer slots and saves them as one batch.
// Validation failures never reach the network or the lock.
func (c *Controller) SubmitPattern() (*Pending, error) {
	if c.importer == nil {
		return nil, ErrFeatureDisabled
	}
	if _, held := c.lock.Held(); held {
		return nil, ErrBusy
	}
	pattern, err := c.importer.Pattern()
	if err != nil {
		c.setError(err)
		return nil, err
	}
	if err := c.lock.Acquire(ActionImport); err != nil {
		return nil, err
	}
	return &Pending{Kind: ActionImport, run: func(ctx context.Context) Completion {
		ack, err := c.gw.SaveBulkPattern(ctx, pattern)
		return Completion{ack: ack, Err: err}
	}}, nil
}

// UploadScreenshot sends an image to OCR and fills the importer slots with the result.
func (c *Controller) UploadScreenshot(path string) (*Pending, error) {
	if c.importer == nil {
		return nil, ErrFeatureDisabled
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrNoFile
	}
	name, err := c.uploadName(path)
	if err != nil {
		return nil, err
	}
	if err := c.lock.Acquire(ActionOCR); err != nil {
		return nil, err
	}
	c.importer.beginUpload(path)
	return &Pending{Kind: ActionOCR, run: func(ctx context.Context) Completion {
		f, err := c.openUpload(name)
		if err != nil {
			return Completion{Err: fmt.Errorf("open screenshot: %w", err)}
		}
		defer f.Close()
		letters, err := c.gw.OCRScreenshot(ctx, path, f)
		return Completion{letters: letters, Err: err}
	}}, nil
}

// uploadName maps path to a name local to the upload directory.
func (c *Controller) uploadName(path string) (string, error) {
	if c.uploadDir == "" {
		return path, nil
	}
	name := path
	if filepath.IsAbs(path) {
		root, err := filepath.Abs(c.uploadDir)
		if err != nil {
			return "", fmt.Errorf("resolve upload dir: %w", err)
		}
		if name, err = filepath.Rel(root, path); err != nil {
			return "", ErrOutsideUploadDir
		}
	}
	if !filepath.IsLocal(name) {
		return "", ErrOutsideUploadDir
	}
	return filepath.Clean(name), nil
}

// openUpload opens through an os.Root so symlinks cannot leave the upload directory.
func (c *Controller) openUpload(name string) (*os.File, error) {
	if c.uploadDir == "" {
		return os.Open(name)
	}
	return os.OpenInRoot(c.uploadDir, name)
}

// Export downloads the backend's CSV export into the export directory.
func (c *Controller) Export() (*Pending, error) {
	if err := c.lock.Acquire(ActionExport); err != nil {
		return nil, err
	}
	path := filepath.Join(c.exportDir, "cvc-"+c.now().Format("20060102-150405")+".csv")
	return &Pending{Kind: ActionExport, run: func(ctx context.Context) Completion {
		f, err := os.Create(path)
		if err != nil {
			return Completion{Err: fmt.Errorf("create export file: %w", err)}
		}
		_, err = c.gw.DownloadExport(ctx, f)
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
			return Completion{Err: err}
		}
		return Completion{path: path}
	}}, nil
}

// Complete applies a settled call to the views. It returns the chained refresh
// when the action mutated backend state, or nil once the lock is released.
func (c *Controller) Complete(done Completion) *Pending {
	if held, ok := c.lock.Held(); !ok || held != done.Kind {
		c.logger.Warn().Str("action", done.Kind.String()).Str("holder", held.String()).Msg("dropping stale completion")
		return nil
	}

	switch done.Kind {
	case ActionSignal:
		c.completeSignal(done)
	case ActionSubmit:
		if done.Err != nil {
			c.controls = true
			c.setError(done.Err)
			break
		}
		return c.chainRefresh(done)
	case ActionRefresh:
		if done.Err != nil {
			c.setError(done.Err)
			break
		}
		c.applySnapshot(done.snapshot)
	case ActionUndo:
		if done.Err != nil {
			c.setError(done.Err)
			break
		}
		return c.chainRefresh(done)
	case ActionNewSession:
		if done.Err != nil {
			c.setError(done.Err)
			break
		}
		c.setInfo(done.ack.Message)
		return c.chainRefresh(done)
	case ActionImport:
		if done.Err != nil {
			c.setError(done.Err)
			break
		}
		c.setInfo(done.ack.Message)
		c.importer.Clear()
		return c.chainRefresh(done)
	case ActionOCR:
		c.completeOCR(done)
	case ActionExport:
		if done.Err != nil {
			if errors.Is(done.Err, domain.ErrTransport) {
				c.notice = &Notice{Level: NoticeError, Text: c.text.ExportFailed}
			} else {
				c.setError(done.Err)
			}
			break
		}
		c.setInfo(fmt.Sprintf(c.text.ExportSaved, done.path))
	}

	c.finish(done.Kind, c.lock.Release(), done.Err)
	return nil
}

// Execute runs a pending chain to completion on the calling goroutine and
// returns the first error in it.
func (c *Controller) Execute(ctx context.Context, p *Pending) error {
	var first error
	for p != nil {
		done := p.Run(ctx)
		if first == nil {
			first = done.Err
		}
		p = c.Complete(done)
	}
	return first
}

func (c *Controller) completeSignal(done Completion) {
	c.signal.SetAnalyzing(false)
	if done.Err != nil {
		c.setError(done.Err)
		return
	}
	switch res := done.signal.(type) {
	case domain.SignalReady:
		c.signal.Show(res)
		c.alerts.Apply(res)
		c.gauge.Apply(res.Volatility)
		c.controls = true
		c.choice = string(res.Prediction)
		if res.HasAlert() && c.observer != nil {
			c.observer.AlertsRaised(res)
		}
	case domain.SignalWaiting:
		c.setInfo(res.Message)
		c.signal.ShowCollecting()
		c.controls = true
		c.choice = domain.WaitingChoice
	}
}

func (c *Controller) completeOCR(done Completion) {
	c.importer.endUpload()
	switch {
	case done.Err != nil:
		c.setError(done.Err)
	case len(done.letters) == 0:
		c.setInfo(c.text.NoOCRResults)
	default:
		c.importer.Fill(done.letters)
	}
}

func (c *Controller) applySnapshot(s domain.DashboardSnapshot) {
	c.progress = ProgressPanel{
		Loaded:          true,
		Accuracy:        s.Accuracy,
		Collected:       s.TotalCollected,
		LearningPercent: clampPercent(s.LearningPercent),
		Target:          s.TargetTrades,
	}
	c.history.Render(s.Trades)
	collecting := s.Collecting()
	c.signal.Reset(collecting)
	c.alerts.HideBanners()
	c.gauge.Apply(s.Volatility)
	c.controls = collecting
	if collecting {
		c.choice = domain.WaitingChoice
	} else {
		c.choice = ""
	}
}

func (c *Controller) chainRefresh(done Completion) *Pending {
	c.finish(done.Kind, c.lock.Handoff(ActionRefresh), nil)
	return c.refreshPending()
}

func (c *Controller) refreshPending() *Pending {
	return &Pending{Kind: ActionRefresh, run: func(ctx context.Context) Completion {
		snap, err := c.gw.DashboardData(ctx)
		return Completion{snapshot: snap, Err: err}
	}}
}

func (c *Controller) finish(kind ActionKind, held time.Duration, err error) {
	ev := c.logger.Info()
	if err != nil {
		ev = c.logger.Warn().Err(err)
	}
	ev.Str("action", kind.String()).Dur("elapsed", held).Str("result", ErrorClass(err)).Msg("action finished")
	if c.observer != nil {
		c.observer.ActionFinished(kind, held, err)
	}
}

func (c *Controller) setInfo(msg string) {
	if msg == "" {
		return
	}
	c.notice = &Notice{Level: NoticeInfo, Text: msg}
}

func (c *Controller) setError(err error) {
	c.notice = &Notice{Level: NoticeError, Text: c.errorText(err)}
}

func (c *Controller) errorText(err error) string {
	var rej *domain.RejectedError
	var slot *InvalidSlotError
	switch {
	case errors.Is(err, domain.ErrTransport):
		return c.text.ConnectionError
	case errors.As(err, &rej):
		if rej.Message == "" {
			return c.text.ErrorPrefix + rej.Op
		}
		return rej.Message
	case errors.As(err, &slot):
		return fmt.Sprintf(c.text.InvalidSlot, slot.Index+1, slot.Value)
	case errors.Is(err, ErrPatternTooShort):
		return fmt.Sprintf(c.text.PatternTooShort, MinPatternLength)
	}
	return c.text.ErrorPrefix + err.Error()
}
