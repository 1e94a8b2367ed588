package internal

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPollInterval is the continuous-mode interval between capture cycles
const DefaultPollInterval = 800 * time.Millisecond

const previewLen = 60

// Mode selects whether cycles run on a timer or only on request
type Mode int

const (
	ModeManual Mode = iota
	ModeContinuous
)

func (m Mode) String() string {
	if m == ModeContinuous {
		return "continuous"
	}
	return "manual"
}

// ParseMode parses "manual" or "continuous"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "manual":
		return ModeManual, nil
	case "continuous":
		return ModeContinuous, nil
	default:
		return ModeManual, errors.New("mode must be manual or continuous")
	}
}

// Outcome is the result of a capture cycle that reached the guard
type Outcome string

const (
	OutcomeSaved     Outcome = "saved"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeBlocked   Outcome = "blocked"
)

// CaptureEvent reports the outcome of one capture cycle
type CaptureEvent struct {
	ID        string    `json:"id"`
	Outcome   Outcome   `json:"outcome"`
	Service   string    `json:"service,omitempty"`
	Preview   string    `json:"preview,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	Timestamp string    `json:"ts,omitempty"`
	At        time.Time `json:"at"`
}

// CaptureStats counts what the coordinator has seen since it was created
type CaptureStats struct {
	Detected  int `json:"detected"`
	Saved     int `json:"saved"`
	Duplicate int `json:"duplicate"`
	Unknown   int `json:"unknown"`
	Matched   int `json:"matched"`
	Blocked   int `json:"blocked"`
}

// MessageSaver is the part of the store the coordinator writes through
type MessageSaver interface {
	Save(sessionID int64, role Role, service, content string, meta MessageMeta, tsHint string) (bool, error)
}

// CoordinatorOptions configures a CaptureCoordinator
type CoordinatorOptions struct {
	Classifier  *ServiceClassifier
	Guard       *SensitiveGuard
	Interval    time.Duration
	Mode        Mode
	Hint        string
	EventBuffer int
}

// CaptureCoordinator drives capture cycles: read the channel, skip unchanged
// text and outbound prompts, correlate, strip, guard, then persist.
type CaptureCoordinator struct {
	store      MessageSaver
	channel    TextChannel
	classifier *ServiceClassifier
	guard      *SensitiveGuard
	events     chan CaptureEvent

	// cycleMu serializes cycles from the timer and from manual triggers
	cycleMu sync.Mutex

	mu              sync.Mutex
	lastFingerprint string
	sessionID       int64
	mode            Mode
	interval        time.Duration
	hint            string
	stats           CaptureStats

	loopMu sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewCaptureCoordinator creates a coordinator writing to store and reading from channel
func NewCaptureCoordinator(store MessageSaver, channel TextChannel, opts CoordinatorOptions) *CaptureCoordinator {
	if opts.Classifier == nil {
		opts.Classifier = NewDefaultClassifier()
	}
	if opts.Guard == nil {
		opts.Guard = NewSensitiveGuard()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.EventBuffer <= 0 {
		opts.EventBuffer = 64
	}
	return &CaptureCoordinator{
		store:      store,
		channel:    channel,
		classifier: opts.Classifier,
		guard:      opts.Guard,
		events:     make(chan CaptureEvent, opts.EventBuffer),
		mode:       opts.Mode,
		interval:   opts.Interval,
		hint:       opts.Hint,
	}
}

// Events delivers saved, duplicate and blocked outcomes
func (c *CaptureCoordinator) Events() <-chan CaptureEvent {
	return c.events
}

// StartSession switches to sessionID and reseeds the fingerprint from the
// current channel text so content already present is not captured.
func (c *CaptureCoordinator) StartSession(sessionID int64) {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	c.mu.Lock()
	c.sessionID = sessionID
	hint := c.hint
	c.mu.Unlock()

	text, err := c.channel.Read()
	if err != nil {
		LogDebug("Could not seed fingerprint: %v", err)
		return
	}

	c.mu.Lock()
	c.lastFingerprint = fingerprint(hint, text)
	c.mu.Unlock()
}

// SetSession switches the target session without reseeding the fingerprint
func (c *CaptureCoordinator) SetSession(sessionID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = sessionID
}

// SessionID returns the session captures are written to
func (c *CaptureCoordinator) SessionID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// SetMode switches between manual and continuous capture at runtime
func (c *CaptureCoordinator) SetMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
}

// Mode returns the current capture mode
func (c *CaptureCoordinator) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetInterval changes the continuous-mode interval; it applies from the next tick
func (c *CaptureCoordinator) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interval = d
}

// Interval returns the continuous-mode interval
func (c *CaptureCoordinator) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// SetHint sets the service name used when continuous cycles cannot classify text
func (c *CaptureCoordinator) SetHint(hint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hint = hint
}

// Hint returns the service name used for unclassifiable text
func (c *CaptureCoordinator) Hint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hint
}

// Stats returns a snapshot of the capture counters
func (c *CaptureCoordinator) Stats() CaptureStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// CaptureOnce runs exactly one cycle now, regardless of mode. It returns nil
// when the cycle ended without an outcome (unchanged text, outbound prompt,
// empty or unreadable channel).
func (c *CaptureCoordinator) CaptureOnce(hint string) (*CaptureEvent, error) {
	return c.runCycle(hint)
}

// Start launches the background loop. Ticks only run cycles while the mode
// is continuous, so the mode can be flipped without restarting.
func (c *CaptureCoordinator) Start() error {
	c.loopMu.Lock()
	defer c.loopMu.Unlock()

	if c.stopCh != nil {
		return errors.New("capture loop already running")
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	c.stopCh, c.doneCh = stop, done

	safeGo("capture-loop", func() {
		defer close(done)
		c.loop(stop)
	})
	LogDebug("Capture loop started (%s, every %s)", c.Mode(), c.Interval())
	return nil
}

// Stop ends the background loop and waits for an in-flight cycle to finish
func (c *CaptureCoordinator) Stop() {
	c.loopMu.Lock()
	stop, done := c.stopCh, c.doneCh
	c.stopCh, c.doneCh = nil, nil
	c.loopMu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
	LogDebug("Capture loop stopped")
}

func (c *CaptureCoordinator) loop(stop <-chan struct{}) {
	interval := c.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		// A stop requested while waiting wins over a tick that fired at the same time
		select {
		case <-stop:
			return
		default:
		}

		c.mu.Lock()
		mode, hint := c.mode, c.hint
		c.mu.Unlock()

		if mode == ModeContinuous {
			if _, err := c.runCycle(hint); err != nil {
				LogError("Capture cycle failed: %v", err)
			}
		}

		if next := c.Interval(); next != interval {
			interval = next
			ticker.Reset(interval)
		}
	}
}

func (c *CaptureCoordinator) runCycle(hint string) (*CaptureEvent, error) {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	text, err := c.channel.Read()
	if err != nil {
		LogDebug("Channel read failed, skipping cycle: %v", err)
		return nil, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	fp := fingerprint(hint, text)
	c.mu.Lock()
	if fp == c.lastFingerprint {
		c.mu.Unlock()
		return nil, nil
	}
	c.lastFingerprint = fp
	c.stats.Detected++
	sessionID := c.sessionID
	c.mu.Unlock()

	return c.process(sessionID, text, hint)
}

func (c *CaptureCoordinator) process(sessionID int64, text, hint string) (*CaptureEvent, error) {
	if IsOutboundPrompt(text) {
		LogDebug("Skipping outbound prompt")
		return nil, nil
	}

	service := c.classifier.Classify(text, hint)
	sig, matched := ExtractSignature(text)

	clean := StripSignature(text)
	if clean == "" {
		LogDebug("Nothing left after stripping the tag, skipping")
		return nil, nil
	}

	if kind, found := c.guard.Match(clean); found {
		LogWarn("Blocked credential-shaped content (%s) from %s", kind, service)
		c.mu.Lock()
		c.stats.Blocked++
		c.mu.Unlock()
		evt := c.newEvent(OutcomeBlocked, service, "")
		evt.Kind = kind
		c.emit(evt)
		return &evt, nil
	}

	meta := MessageMeta{Source: SourceClipboard}
	if matched {
		meta.TS = sig.Timestamp
		meta.Question = sig.Question
	}

	inserted, err := c.store.Save(sessionID, RoleAssistant, service, clean, meta, meta.TS)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if matched {
		c.stats.Matched++
	}
	outcome := OutcomeDuplicate
	if inserted {
		outcome = OutcomeSaved
		c.stats.Saved++
		if service == UnknownService {
			c.stats.Unknown++
		}
	} else {
		c.stats.Duplicate++
	}
	c.mu.Unlock()

	evt := c.newEvent(outcome, service, Preview(clean, previewLen))
	evt.Timestamp = meta.TS
	LogDebug("Capture %s: %s", outcome, service)
	c.emit(evt)
	return &evt, nil
}

func (c *CaptureCoordinator) newEvent(outcome Outcome, service, preview string) CaptureEvent {
	return CaptureEvent{
		ID:      uuid.NewString(),
		Outcome: outcome,
		Service: service,
		Preview: preview,
		At:      time.Now(),
	}
}

func (c *CaptureCoordinator) emit(evt CaptureEvent) {
	select {
	case c.events <- evt:
	default:
		LogWarn("Event buffer full, dropping %s event %s", evt.Outcome, evt.ID)
	}
}

// fingerprint hashes raw channel text; a hint makes the same text distinct
// so it can be captured again for a different service.
func fingerprint(hint, text string) string {
	if hint == "" {
		return hashString(text)
	}
	return hashString(hint + ":" + text)
}

// Preview returns the first n runes of s on a single line
func Preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
