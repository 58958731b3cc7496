package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"password-study/internal/domain"
	"password-study/internal/eventlog"
	"password-study/internal/policy"
	"password-study/internal/repository"
	"password-study/internal/scheme"
	"password-study/internal/sequence"
)

// IncorrectPassword is the error indicator shown after a wrong submission.
const IncorrectPassword = "Incorrect Password"

// EnterRequest asks for the view of a domain in a mode. PwError carries an
// indicator from a previous failed submission, if any.
type EnterRequest struct {
	UserID  int64
	Domain  string
	Mode    domain.Mode
	PwError string
}

type SubmitRequest struct {
	UserID   int64
	Domain   string
	Mode     domain.Mode
	Password string
}

// View is the data a presentation layer renders for one state.
type View struct {
	Mode         domain.Mode
	UserID       int64
	Scheme       domain.SchemeID
	Domain       string
	Complete     bool
	Template     string
	Title        string
	Password     string
	PwError      string
	AttemptsLeft *int
	// Skipped is set when the requested domain was force-advanced; Domain and
	// Complete then describe where the subject goes next.
	Skipped bool
}

// Transition is the outcome of a submission.
type Transition struct {
	Correct  bool
	Domain   string
	Complete bool
	PwError  string
}

// FlowService drives subjects through the domains, one request at a time.
// It keeps no state between calls.
type FlowService interface {
	Enter(ctx context.Context, req EnterRequest) (*View, error)
	Submit(ctx context.Context, req SubmitRequest) (*Transition, error)
	Check(ctx context.Context, userID int64, domainName, raw string) (bool, error)
	Complete(userID int64, mode domain.Mode) *View
}

type FlowConfig struct {
	Schemes   *scheme.Registry
	Domains   *sequence.Sequence
	Policy    policy.Policy
	Passwords repository.PasswordRepository
	Events    eventlog.Logger
	Now       func() time.Time
	Logger    *logrus.Logger
}

type flowService struct {
	cfg FlowConfig
}

func NewFlowService(cfg FlowConfig) FlowService {
	if cfg.Events == nil {
		cfg.Events = eventlog.Nop{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Policy.Max <= 0 {
		cfg.Policy = policy.Default()
	}
	return &flowService{cfg: cfg}
}

func (s *flowService) Enter(ctx context.Context, req EnterRequest) (*View, error) {
	if err := s.validate(req.Mode, req.Domain); err != nil {
		return nil, err
	}

	rec, err := s.cfg.Passwords.GetPwInfo(ctx, req.UserID, req.Domain)
	if err != nil {
		return nil, recordErr(err, req.UserID, req.Domain)
	}
	if _, err := s.cfg.Schemes.Get(rec.Scheme); err != nil {
		return nil, err
	}

	view := &View{
		Mode:    req.Mode,
		UserID:  req.UserID,
		Scheme:  rec.Scheme,
		Domain:  req.Domain,
		PwError: req.PwError,
	}

	if req.Mode == domain.ModePractice {
		view.Template = "practice-" + string(rec.Scheme)
		view.Title = fmt.Sprintf("Learn your %s password", req.Domain)
		view.Password = rec.Credential
		return view, nil
	}

	if s.cfg.Policy.Exhausted(rec.AttemptNum) {
		return s.forceAdvance(ctx, rec, view)
	}

	left := s.cfg.Policy.AttemptsRemaining(rec.AttemptNum)
	view.Template = "login-" + string(rec.Scheme)
	view.Title = fmt.Sprintf("Enter your %s password", req.Domain)
	view.AttemptsLeft = &left

	s.emit(rec, domain.EventStart, rec.AttemptNum)
	return view, nil
}

// forceAdvance moves a subject past a domain whose attempts are used up. No
// event is logged for the skip itself.
func (s *flowService) forceAdvance(ctx context.Context, rec *domain.PasswordRecord, view *View) (*View, error) {
	if err := s.cfg.Passwords.ResetAttempts(ctx, rec.UserID, rec.Domain); err != nil {
		return nil, recordErr(err, rec.UserID, rec.Domain)
	}

	next, ok, err := s.cfg.Domains.Next(rec.Domain)
	if err != nil {
		return nil, err
	}
	s.cfg.Logger.WithFields(logrus.Fields{
		"user":   rec.UserID,
		"domain": rec.Domain,
	}).Debug("attempts exhausted, advancing")

	if !ok {
		done := s.Complete(rec.UserID, view.Mode)
		done.Scheme = rec.Scheme
		done.Skipped = true
		return done, nil
	}
	view.Domain = next
	view.Skipped = true
	view.PwError = ""
	return view, nil
}

func (s *flowService) Submit(ctx context.Context, req SubmitRequest) (*Transition, error) {
	if err := s.validate(req.Mode, req.Domain); err != nil {
		return nil, err
	}

	rec, err := s.cfg.Passwords.GetPwInfo(ctx, req.UserID, req.Domain)
	if err != nil {
		return nil, recordErr(err, req.UserID, req.Domain)
	}
	// resolve the scheme before an attempt is counted
	sch, err := s.cfg.Schemes.Get(rec.Scheme)
	if err != nil {
		return nil, err
	}

	if req.Mode == domain.ModeLogin {
		// the returned record already counts this attempt
		rec, err = s.cfg.Passwords.AttemptPassword(ctx, req.UserID, req.Domain)
		if err != nil {
			return nil, recordErr(err, req.UserID, req.Domain)
		}
	}

	correct := sch.Verify(req.Password, rec.Credential)

	if req.Mode == domain.ModeLogin {
		event := domain.EventFailure
		if correct {
			event = domain.EventSuccess
		}
		s.emit(rec, event, rec.AttemptNum)
	}

	if !correct {
		return &Transition{Domain: req.Domain, PwError: IncorrectPassword}, nil
	}

	next, ok, err := s.cfg.Domains.Next(req.Domain)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Transition{Correct: true, Complete: true}, nil
	}
	return &Transition{Correct: true, Domain: next}, nil
}

// Check verifies a practice entry without moving the subject or counting it.
func (s *flowService) Check(ctx context.Context, userID int64, domainName, raw string) (bool, error) {
	if !s.cfg.Domains.Contains(domainName) {
		return false, fmt.Errorf("%w: %q", sequence.ErrUnknownDomain, domainName)
	}
	rec, err := s.cfg.Passwords.GetPwInfo(ctx, userID, domainName)
	if err != nil {
		return false, recordErr(err, userID, domainName)
	}
	return s.cfg.Schemes.Verify(rec.Scheme, raw, rec.Credential)
}

func (s *flowService) Complete(userID int64, mode domain.Mode) *View {
	title := "Password practice complete!"
	if mode == domain.ModeLogin {
		title = "Login Process Complete"
	}
	return &View{
		Mode:     mode,
		UserID:   userID,
		Complete: true,
		Template: string(mode) + "-complete",
		Title:    title,
	}
}

func (s *flowService) validate(mode domain.Mode, domainName string) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if !s.cfg.Domains.Contains(domainName) {
		return fmt.Errorf("%w: %q", sequence.ErrUnknownDomain, domainName)
	}
	return nil
}

func (s *flowService) emit(rec *domain.PasswordRecord, event domain.Event, attempt int) {
	s.cfg.Events.Log(domain.AttemptOutcome{
		Time:    s.cfg.Now(),
		Domain:  rec.Domain,
		UserID:  rec.UserID,
		Scheme:  rec.Scheme,
		Mode:    domain.ModeLogin,
		Event:   event,
		Attempt: attempt,
	})
}
