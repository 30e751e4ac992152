package dashboard

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"signal-desk/internal/domain"
	"signal-desk/internal/locale"
)

type stubGateway struct {
	mu    sync.Mutex
	calls map[string]int

	signal    domain.SignalResult
	signalErr error

	snapshot    domain.DashboardSnapshot
	snapshotErr error

	submitErr   error
	submissions []domain.Submission

	undoErr   error
	undone    []string
	newAck    domain.Ack
	newErr    error
	pattern   []domain.Outcome
	importAck domain.Ack
	importErr error

	letters  []string
	ocrErr   error
	ocrBytes []byte

	export    string
	exportErr error
}

func newStubGateway() *stubGateway {
	return &stubGateway{calls: map[string]int{}}
}

func (s *stubGateway) hit(op string) {
	s.mu.Lock()
	s.calls[op]++
	s.mu.Unlock()
}

func (s *stubGateway) count(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *stubGateway) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.calls {
		n += v
	}
	return n
}

func (s *stubGateway) GetSignal(context.Context) (domain.SignalResult, error) {
	s.hit("signal")
	return s.signal, s.signalErr
}

func (s *stubGateway) SubmitResult(_ context.Context, sub domain.Submission) (domain.Ack, error) {
	s.hit("submit")
	s.submissions = append(s.submissions, sub)
	return domain.Ack{}, s.submitErr
}

func (s *stubGateway) DashboardData(context.Context) (domain.DashboardSnapshot, error) {
	s.hit("dashboard")
	return s.snapshot, s.snapshotErr
}

func (s *stubGateway) UndoTrade(_ context.Context, id string) (domain.Ack, error) {
	s.hit("undo")
	if s.undoErr != nil {
		return domain.Ack{}, s.undoErr
	}
	s.undone = append(s.undone, id)
	return domain.Ack{Message: "deleted"}, nil
}

func (s *stubGateway) NewSession(context.Context) (domain.Ack, error) {
	s.hit("new-session")
	return s.newAck, s.newErr
}

func (s *stubGateway) SaveBulkPattern(_ context.Context, p []domain.Outcome) (domain.Ack, error) {
	s.hit("bulk")
	s.pattern = p
	return s.importAck, s.importErr
}

func (s *stubGateway) OCRScreenshot(_ context.Context, _ string, r io.Reader) ([]string, error) {
	s.hit("ocr")
	s.ocrBytes, _ = io.ReadAll(r)
	return s.letters, s.ocrErr
}

func (s *stubGateway) DownloadExport(_ context.Context, w io.Writer) (int64, error) {
	s.hit("export")
	if s.exportErr != nil {
		return 0, s.exportErr
	}
	n, err := io.WriteString(w, s.export)
	return int64(n), err
}

type recordingObserver struct {
	finished []ActionKind
	errs     []error
	alerts   []domain.SignalReady
}

func (r *recordingObserver) ActionFinished(kind ActionKind, _ time.Duration, err error) {
	r.finished = append(r.finished, kind)
	r.errs = append(r.errs, err)
}

func (r *recordingObserver) AlertsRaised(sig domain.SignalReady) {
	r.alerts = append(r.alerts, sig)
}

var errDial = &domain.TransportError{Op: "test", Err: errors.New("connection refused")}

func newTestController(gw Gateway, obs Observer) *Controller {
	return NewController(gw, Options{
		Text:     locale.English,
		Features: AllFeatures(),
		Observer: obs,
	})
}

func intPtr(v int) *int { return &v }

func outcomePtr(o domain.Outcome) *domain.Outcome { return &o }
