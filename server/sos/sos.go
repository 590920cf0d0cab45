package sos

import (
	"time"

	"github.com/nishikaramnani04/PIH2026-SHEield/colors"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/geo"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/logger"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/models"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/notifier"
)

var logg = logger.NewLogger()

type State int

const (
	Idle State = iota
	Triggered
	LocationResolving
	Logging
	Notifying
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Triggered:
		return "triggered"
	case LocationResolving:
		return "location-resolving"
	case Logging:
		return "logging"
	case Notifying:
		return "notifying"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Result carries the aggregate outcome of one trigger back to the caller.
type Result struct {
	EmailsSent int    `json:"emails_sent"`
	ChatsSent  int    `json:"chats_sent"`
	Location   string `json:"location"`
}

type Callback func(Result)

type LocationResolver interface {
	Resolve() geo.Location
}

type Notifier interface {
	NotifyAll(user models.User, contacts []models.EmergencyContact, location geo.Location) notifier.Counts
}

// Logbook is the slice of the persistence layer the orchestrator needs.
type Logbook interface {
	CreateSosLog(entry *models.SosLog) error
	ListContacts(userPhone string) ([]models.EmergencyContact, error)
}

// Orchestrator runs the whole SOS workflow off the caller's goroutine:
// resolve location, durably log the event, then fan notifications out. There
// is no cancellation once triggered and no per-notification retry - the user
// re-triggers manually.
type Orchestrator struct {
	resolver   LocationResolver
	logbook    Logbook
	dispatcher Notifier
}

func NewOrchestrator(resolver LocationResolver, logbook Logbook, dispatcher Notifier) *Orchestrator {
	return &Orchestrator{resolver: resolver, logbook: logbook, dispatcher: dispatcher}
}

// Trigger starts one SOS run in the background and returns immediately. The
// callback is invoked exactly once, when the run completes.
func (o *Orchestrator) Trigger(user models.User, callback Callback) {
	run := &run{user: user, state: Idle}
	run.transition(Triggered)

	go o.execute(run, callback)
}

type run struct {
	user  models.User
	state State
}

func (r *run) transition(to State) {
	logg.Infof(colors.Blue("[sos] ")+"user=%v %v -> %v", r.user.Phone, r.state, to)
	r.state = to
}

func (o *Orchestrator) execute(run *run, callback Callback) {
	run.transition(LocationResolving)
	location := o.resolver.Resolve()

	// Log first, so the event is durably recorded even if every send fails.
	run.transition(Logging)
	err := o.logbook.CreateSosLog(&models.SosLog{
		UserPhone: run.user.Phone,
		Location:  location.Display,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
		Timestamp: time.Now(),
		Status:    models.SosStatusSent,
	})
	if err != nil {
		// Notification fan-out still goes ahead, getting help out matters
		// more than the audit row.
		logg.Errorf("failed to record sos event for user=%v: %v", run.user.Phone, err)
	}

	run.transition(Notifying)
	contacts, err := o.logbook.ListContacts(run.user.Phone)
	if err != nil {
		logg.Errorf("failed to load contacts for user=%v: %v", run.user.Phone, err)
	}
	counts := o.dispatcher.NotifyAll(run.user, contacts, location)

	run.transition(Completed)
	callback(Result{
		EmailsSent: counts.EmailsSent,
		ChatsSent:  counts.ChatsSent,
		Location:   location.Display,
	})
}
