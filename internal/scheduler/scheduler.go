package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"BazaarWatch/internal/catalog"
	"BazaarWatch/internal/collector"
	"BazaarWatch/internal/config"
	"BazaarWatch/internal/model"
	"BazaarWatch/internal/notifier"
)

// ErrSessionReplaced is returned by a load that finished after a reload
// started a new session.
var ErrSessionReplaced = errors.New("session replaced by reload")

// Options tune the viewer behaviour.
type Options struct {
	Mode            string // config.ModeSearch or config.ModeFixed
	FixedProduct    string
	MaxSuggestions  int
	OrderDepth      int
	ReadyClearAfter time.Duration
}

// Scheduler owns the session catalog and routes front-end input to the
// matcher and renderer. A session is one catalog loaded at most once; a
// reload starts a new session.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Formatter *notifier.Formatter
	Frontend  notifier.Frontend
	Options   Options
	Ctx       context.Context

	mu         sync.RWMutex
	catalog    *catalog.Catalog
	sessionID  string
	clearTimer *time.Timer
	now        func() time.Time
}

// NewScheduler creates a new Scheduler with an uninitialized catalog.
func NewScheduler(ctx context.Context, col *collector.Collector, f *notifier.Formatter, fe notifier.Frontend, opts Options) *Scheduler {
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = catalog.MaxSuggestions
	}
	if opts.OrderDepth <= 0 {
		opts.OrderDepth = 3
	}
	return &Scheduler{
		Cron:      cron.New(),
		Collector: col,
		Formatter: f,
		Frontend:  fe,
		Options:   opts,
		Ctx:       ctx,
		catalog:   catalog.New(),
		now:       time.Now,
	}
}

// RegisterReload schedules a full reload on a standard 5-field cron spec.
// An empty spec registers nothing.
func (s *Scheduler) RegisterReload(spec string) error {
	if spec == "" {
		return nil
	}
	if _, err := s.Cron.AddFunc(spec, s.reload); err != nil {
		return fmt.Errorf("register reload task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and any pending status clear.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.mu.Lock()
	if s.clearTimer != nil {
		s.clearTimer.Stop()
	}
	s.mu.Unlock()
	log.Info().Msg("scheduler stopped")
}

// Catalog returns the catalog of the current session.
func (s *Scheduler) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// SessionID identifies the current session in logs.
func (s *Scheduler) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// LoadNow runs the one-shot load of the current session's catalog and
// reports progress on the front end.
func (s *Scheduler) LoadNow() error {
	s.mu.Lock()
	cat := s.catalog
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	sid := s.sessionID
	s.mu.Unlock()

	logger := log.With().Str("session", sid).Logger()
	logger.Info().Str("source", s.Collector.Fetcher.Name()).Msg("loading item list")
	s.showStatus(model.Status{Text: notifier.MsgLoading, Level: model.StatusInfo})

	err := s.Collector.Load(s.Ctx, cat)
	if s.Catalog() != cat {
		// A reload replaced this session while the fetch was pending.
		logger.Info().Err(err).Msg("discarding load of a replaced session")
		if err == nil {
			err = ErrSessionReplaced
		}
		return err
	}
	if err != nil {
		logger.Error().Err(err).Msg("initialization error")
		s.showStatus(model.Status{Text: s.Formatter.FormatLoadError(err), Level: model.StatusError})
		return err
	}

	logger.Info().Int("products", cat.Len()).Msg("item list ready")
	s.showStatus(model.Status{
		Text:       "✅ " + notifier.MsgReady,
		Level:      model.StatusReady,
		ClearAfter: s.Options.ReadyClearAfter,
	})
	return nil
}

// Reset discards the current catalog and starts a new, uninitialized session.
func (s *Scheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = catalog.New()
	s.sessionID = uuid.NewString()
}

func (s *Scheduler) reload() {
	log.Info().Msg("reloading item list")
	s.Reset()
	var err error
	if s.Options.Mode == config.ModeFixed {
		err = s.RunFixed()
	} else {
		err = s.LoadNow()
	}
	if err != nil {
		log.Warn().Err(err).Msg("reload failed")
	}
}

// RunFixed loads the catalog and shows the configured product together with
// the leading entries of its order book.
func (s *Scheduler) RunFixed() error {
	if err := s.LoadNow(); err != nil {
		return err
	}
	view, err := s.renderProduct(s.Options.FixedProduct, true)
	s.show(view)
	if err != nil {
		return fmt.Errorf("fixed product: %w", err)
	}
	return nil
}

// Suggest runs the matcher on raw input.
func (s *Scheduler) Suggest(text string) model.View {
	suggestions := s.Catalog().Suggest(text, s.Options.MaxSuggestions)
	if len(suggestions) == 0 {
		view := model.View{HideSuggestions: true}
		if catalog.Normalize(text) != "" {
			view.Text = "🔎 No matching items."
		}
		return view
	}
	return model.View{
		Text:        fmt.Sprintf("🔎 %d match(es):", len(suggestions)),
		Suggestions: suggestions,
	}
}

// Render runs the renderer on raw input.
func (s *Scheduler) Render(text string) model.View {
	view, _ := s.renderProduct(text, false)
	return view
}

func (s *Scheduler) renderProduct(text string, withOrders bool) (model.View, error) {
	id, p, err := s.Catalog().Lookup(text)
	if err != nil {
		var ve *catalog.ValidationError
		return model.View{
			Text:            s.Formatter.FormatLookupError(err),
			Invalid:         errors.As(err, &ve),
			HideSuggestions: true,
		}, err
	}
	body := s.Formatter.FormatProduct(id, p)
	if withOrders {
		body += "\n" + s.Formatter.FormatOrderBook(p, s.Options.OrderDepth)
	}
	return model.View{Text: body, HideSuggestions: true}, nil
}

// HandleCommand processes one line of user input and returns a reply. The
// fixed variant only answers /start, /help and /status.
func (s *Scheduler) HandleCommand(command string) model.View {
	switch command {
	case "/start", "/help":
		if s.Options.Mode == config.ModeFixed {
			return model.View{Text: fixedHelpText, HideSuggestions: true}
		}
		return model.View{Text: helpText, HideSuggestions: true}
	case "/status":
		return model.View{Text: s.Formatter.FormatCatalogStatus(s.Catalog(), s.now()), HideSuggestions: true}
	}
	if s.Options.Mode == config.ModeFixed {
		return model.View{Text: fixedHelpText, HideSuggestions: true}
	}

	if arg, ok := commandArg(command, "/suggest"); ok {
		return s.Suggest(arg)
	}
	if arg, ok := commandArg(command, "/item"); ok {
		return s.Render(arg)
	}
	if strings.HasPrefix(command, "?") {
		return s.Suggest(strings.TrimPrefix(command, "?"))
	}
	return s.Render(command)
}

// commandArg reports whether command is exactly name or name followed by a
// space, and returns the remainder.
func commandArg(command, name string) (string, bool) {
	if command == name {
		return "", true
	}
	if rest, ok := strings.CutPrefix(command, name+" "); ok {
		return rest, true
	}
	return "", false
}

const helpText = `<b>BazaarWatch</b>

Send an item name (e.g. <code>enchanted carrot</code>) to see its prices.
/suggest &lt;text&gt; or ?&lt;text&gt; lists matching items
/status shows whether the item list is loaded`

const fixedHelpText = `<b>BazaarWatch</b>

This instance shows a single product and is refreshed on schedule.
/status shows whether the item list is loaded`

func (s *Scheduler) showStatus(status model.Status) {
	s.mu.Lock()
	if s.clearTimer != nil {
		s.clearTimer.Stop()
		s.clearTimer = nil
	}
	s.mu.Unlock()

	if err := s.Frontend.ShowStatus(s.Ctx, status); err != nil {
		log.Error().Err(err).Msg("show status")
		return
	}
	if status.ClearAfter <= 0 {
		return
	}

	s.mu.Lock()
	s.clearTimer = time.AfterFunc(status.ClearAfter, func() {
		if err := s.Frontend.ClearStatus(s.Ctx); err != nil {
			log.Warn().Err(err).Msg("clear status")
		}
	})
	s.mu.Unlock()
}

func (s *Scheduler) show(view model.View) {
	if err := s.Frontend.Show(s.Ctx, view); err != nil {
		log.Error().Err(err).Msg("show view")
	}
}
