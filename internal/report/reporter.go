// Package report drives a sweep: it pulls records from each source,
// obtains verdicts or denylist matches, and forwards everything to
// the findings sink. Clean outcomes are logged at INFO so a clean run
// is distinguishable from a run that silently produced nothing.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Vesslan01/secsweep/internal/classify"
	"github.com/Vesslan01/secsweep/internal/config"
	"github.com/Vesslan01/secsweep/internal/denylist"
	"github.com/Vesslan01/secsweep/internal/metrics"
	"github.com/Vesslan01/secsweep/internal/record"
	"github.com/Vesslan01/secsweep/internal/sink"
	"github.com/Vesslan01/secsweep/internal/source"
)

// Alert is one finding retained for alerts.json and the final report.
type Alert struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Result is the immutable outcome of one sweep run.
type Result struct {
	RunID       string
	GeneratedAt time.Time
	Alerts      []Alert
	Summary     Summary
}

// Reporter executes the configured sweeps against a sink.
type Reporter struct {
	cfg        *config.Config
	sink       sink.Sink
	inactivity classify.InactivityPolicy
	failed     classify.FailedLoginPolicy
	bruteForce classify.BruteForcePolicy
	procDeny   denylist.Denylist
	svcDeny    denylist.Denylist

	// listProcesses is swappable in tests; defaults to the live ps
	// enumeration.
	listProcesses func(context.Context) ([]record.Process, error)
}

// New builds a Reporter from validated config.
func New(cfg *config.Config, s sink.Sink) (*Reporter, error) {
	inactivity, err := classify.InactivityVariant(cfg.Policies.Inactivity)
	if err != nil {
		return nil, fmt.Errorf("reporter: %w", err)
	}
	return &Reporter{
		cfg:           cfg,
		sink:          s,
		inactivity:    inactivity,
		bruteForce:    classify.BruteForcePolicy{CriticalAt: cfg.Policies.BruteForceThreshold},
		procDeny:      denylist.New(cfg.Denylists.Processes, true),
		svcDeny:       denylist.New(cfg.Denylists.Services, false),
		listProcesses: source.ListProcesses,
	}, nil
}

// Run executes all sweeps once, in order: roster inactivity, event
// failed logins, auth-log brute force, process denylist, service
// denylist, anomaly-log passthrough. The roster and event feed are
// required; the rest degrade to an ERROR or INFO alert. A fatal error
// is surfaced on the sink (best effort) before being returned.
func (r *Reporter) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
	}

	if err := r.sink.Append(sink.LevelInfo, fmt.Sprintf("sweep %s started (policy=%s)", res.RunID, r.inactivity.Name)); err != nil {
		return nil, fmt.Errorf("sweep %s: %w", res.RunID, err)
	}

	users, err := r.sweepRoster(res)
	if err == nil {
		err = r.sweepEvents(res, users)
	}
	if err == nil {
		err = r.sweepAuthLog(res)
	}
	if err == nil {
		err = r.sweepProcesses(ctx, res)
	}
	if err == nil {
		err = r.sweepServices(res)
	}
	if err != nil {
		// Best effort: the sink may be the thing that failed.
		_ = r.sink.Append(sink.LevelError, fmt.Sprintf("sweep %s aborted: %v", res.RunID, err))
		return nil, fmt.Errorf("sweep %s: %w", res.RunID, err)
	}

	r.foldAnomalyLog(res)
	res.Summary = summarize(res.Alerts)

	end := fmt.Sprintf("sweep %s complete (alerts=%d critical=%d high=%d)",
		res.RunID, len(res.Alerts), res.Summary.Count("CRITICAL"), res.Summary.Count("HIGH"))
	if err := r.sink.Append(sink.LevelInfo, end); err != nil {
		return nil, fmt.Errorf("sweep %s: %w", res.RunID, err)
	}
	metrics.LastRunTime.SetToCurrentTime()
	return res, nil
}

// finding records a verdict as an alert and forwards it to the sink.
// OK and LOW land at INFO; everything above at WARNING. A failed
// append means findings can no longer be durably recorded, so the
// error propagates and aborts the run.
func (r *Reporter) finding(res *Result, v record.Verdict) error {
	metrics.Verdicts.WithLabelValues(v.Tier.String()).Inc()
	res.Alerts = append(res.Alerts, Alert{Severity: v.Tier.String(), Message: v.String()})
	level := sink.LevelInfo
	if v.Tier.AtLeast(record.TierWarning) {
		level = sink.LevelWarning
	}
	if err := r.sink.Append(level, v.String()); err != nil {
		return fmt.Errorf("record finding: %w", err)
	}
	return nil
}

// note records an operational (non-verdict) alert. Append failures
// propagate, same as finding.
func (r *Reporter) note(res *Result, level sink.Level, msg string) error {
	res.Alerts = append(res.Alerts, Alert{Severity: level.String(), Message: msg})
	if err := r.sink.Append(level, msg); err != nil {
		return fmt.Errorf("record note: %w", err)
	}
	return nil
}

func (r *Reporter) skipRows(res *Result, src string, rowErrs []source.RowError) error {
	for _, re := range rowErrs {
		metrics.RowsSkipped.WithLabelValues(src).Inc()
		if err := r.note(res, sink.LevelWarning, fmt.Sprintf("%s %s, skipped", src, re.Error())); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) sweepRoster(res *Result) ([]record.User, error) {
	users, rowErrs, err := source.LoadRoster(r.cfg.Inputs.Roster)
	if err != nil {
		return nil, err
	}
	metrics.RecordsScanned.WithLabelValues("roster").Add(float64(len(users)))
	if err := r.skipRows(res, "roster", rowErrs); err != nil {
		return nil, err
	}
	for _, u := range users {
		if err := r.finding(res, r.inactivity.Classify(u)); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (r *Reporter) sweepEvents(res *Result, users []record.User) error {
	events, err := source.LoadEvents(r.cfg.Inputs.Events)
	if err != nil {
		return err
	}
	metrics.RecordsScanned.WithLabelValues("events").Add(float64(len(events)))

	statuses := make(map[string]record.Status, len(users))
	for _, u := range users {
		statuses[u.Username] = u.Status
	}
	counts := source.CountFailedLogins(events, statuses)

	// Verdicts follow roster order, one per roster row.
	for _, u := range users {
		if err := r.finding(res, r.failed.Classify(u.Username, u.Status, counts[u.Username])); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) sweepAuthLog(res *Result) error {
	sum, err := source.ScanAuthLog(r.cfg.Inputs.AuthLog)
	if errors.Is(err, source.ErrNotFound) {
		return r.note(res, sink.LevelInfo, "auth log missing, skipping brute-force sweep")
	}
	if err != nil {
		return err
	}
	metrics.RecordsScanned.WithLabelValues("authlog").Add(float64(sum.Lines))

	if len(sum.FailsByIP) == 0 {
		if err := r.note(res, sink.LevelInfo, "no failed-login IP indicators found in auth log"); err != nil {
			return err
		}
	}
	for _, ip := range sum.IPsByCount() {
		if err := r.finding(res, r.bruteForce.Classify(ip, sum.FailsByIP[ip])); err != nil {
			return err
		}
	}
	if sum.Indicators() {
		return r.note(res, sink.LevelInfo, fmt.Sprintf("auth log summary: failed=%d error=%d unauthorized=%d",
			sum.Failed, sum.Errors, sum.Unauthorized))
	}
	return nil
}

func (r *Reporter) sweepProcesses(ctx context.Context, res *Result) error {
	var (
		procs   []record.Process
		rowErrs []source.RowError
		err     error
	)
	if r.cfg.Policies.LiveProcesses {
		procs, err = r.listProcesses(ctx)
		if err != nil {
			// Live enumeration failing means the source is empty
			// by definition: nothing meaningful can be reported.
			return err
		}
	} else {
		procs, rowErrs, err = source.LoadProcessList(r.cfg.Inputs.Processes)
		if errors.Is(err, source.ErrNotFound) {
			return r.note(res, sink.LevelError, fmt.Sprintf("process list unavailable: %v", err))
		}
		if err != nil {
			return err
		}
	}
	metrics.RecordsScanned.WithLabelValues("processes").Add(float64(len(procs)))
	if err := r.skipRows(res, "process list", rowErrs); err != nil {
		return err
	}

	hits := make(map[string]struct{})
	for _, p := range procs {
		if r.procDeny.Match(p.Name) {
			hits[strings.ToLower(p.Name)] = struct{}{}
		}
	}
	if len(hits) == 0 {
		return r.note(res, sink.LevelInfo, "no known risk processes detected")
	}
	for _, name := range sortedKeys(hits) {
		if err := r.finding(res, record.Verdict{Subject: name, Tier: record.TierCritical, Reason: "denylisted process"}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reporter) sweepServices(res *Result) error {
	services, rowErrs, err := source.LoadServices(r.cfg.Inputs.Services)
	if errors.Is(err, source.ErrNotFound) {
		return r.note(res, sink.LevelError, fmt.Sprintf("service list unavailable: %v", err))
	}
	if err != nil {
		return err
	}
	metrics.RecordsScanned.WithLabelValues("services").Add(float64(len(services)))
	if err := r.skipRows(res, "service list", rowErrs); err != nil {
		return err
	}

	matched := false
	for _, svc := range services {
		if !r.svcDeny.Match(svc.Name) {
			continue
		}
		matched = true
		reason := "denylisted service"
		if svc.Status != "" {
			reason = fmt.Sprintf("denylisted service (status=%s)", svc.Status)
		}
		if err := r.finding(res, record.Verdict{Subject: svc.Name, Tier: record.TierHigh, Reason: reason}); err != nil {
			return err
		}
	}
	if !matched {
		return r.note(res, sink.LevelInfo, fmt.Sprintf("no denylisted services found (%s)", strings.Join(r.svcDeny.Names(), "/")))
	}
	return nil
}

// foldAnomalyLog carries lines from prior collector runs into the
// report. They are alerts only, not re-appended to the sink, to avoid
// echoing findings back into a log chain.
func (r *Reporter) foldAnomalyLog(res *Result) {
	data, err := os.ReadFile(r.cfg.Inputs.Anomalies)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			res.Alerts = append(res.Alerts, Alert{Severity: "INFO", Message: "(anomalies) " + line})
		}
	}
}

// PathsUsed maps input names to resolved paths, for report provenance.
func (r *Reporter) PathsUsed() map[string]string {
	return map[string]string{
		"roster":    r.cfg.Inputs.Roster,
		"events":    r.cfg.Inputs.Events,
		"auth_log":  r.cfg.Inputs.AuthLog,
		"processes": r.cfg.Inputs.Processes,
		"services":  r.cfg.Inputs.Services,
		"anomalies": r.cfg.Inputs.Anomalies,
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
