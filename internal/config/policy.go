package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/workforce-planner/internal/alerting"
	"github.com/example/workforce-planner/internal/leave"
)

// Policy carries the business policy constants of the planning engine. The
// day counts, cutoff dates and ratios are operational constants with no legal
// citation behind them, so they stay editable in a file instead of being
// hard-coded.
type Policy struct {
	Leave  LeavePolicy `yaml:"leave"`
	Alerts AlertPolicy `yaml:"alerts"`
}

// LeavePolicy mirrors leave.Thresholds with cutoffs written as MM-DD strings.
type LeavePolicy struct {
	LegalDays       int    `yaml:"legal_days"`
	DangerBelowDays int    `yaml:"danger_below_days"`
	WarningCutoff   string `yaml:"warning_cutoff"`
	DangerCutoff    string `yaml:"danger_cutoff"`
}

// AlertPolicy mirrors alerting.Thresholds.
type AlertPolicy struct {
	HoursLowRatio      float64 `yaml:"hours_low_ratio"`
	CompliantLowRatio  float64 `yaml:"compliant_low_ratio"`
	DefaultWeeklyHours float64 `yaml:"default_weekly_hours"`
}

// DefaultPolicy returns the stock policy matching the built-in thresholds.
func DefaultPolicy() Policy {
	leaveDefaults := leave.DefaultThresholds()
	alertDefaults := alerting.DefaultThresholds()
	return Policy{
		Leave: LeavePolicy{
			LegalDays:       leaveDefaults.LegalDays,
			DangerBelowDays: leaveDefaults.DangerBelowDays,
			WarningCutoff:   formatCutoff(leaveDefaults.WarningCutoff),
			DangerCutoff:    formatCutoff(leaveDefaults.DangerCutoff),
		},
		Alerts: AlertPolicy{
			HoursLowRatio:      alertDefaults.HoursLowRatio,
			CompliantLowRatio:  alertDefaults.CompliantLowRatio,
			DefaultWeeklyHours: alertDefaults.DefaultWeeklyHours,
		},
	}
}

// LoadPolicy reads and validates a YAML policy file.
func LoadPolicy(path string) (Policy, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("le fichier de politique %q est illisible : %w", path, err)
	}

	policy := DefaultPolicy()
	if err := yaml.Unmarshal(raw, &policy); err != nil {
		return Policy{}, fmt.Errorf("le fichier de politique %q est mal formé : %w", path, err)
	}

	if _, err := policy.LeaveThresholds(); err != nil {
		return Policy{}, fmt.Errorf("le fichier de politique %q est invalide : %w", path, err)
	}
	if policy.Leave.LegalDays <= 0 || policy.Leave.DangerBelowDays < 0 {
		return Policy{}, fmt.Errorf("le fichier de politique %q est invalide : les jours de congé doivent être positifs", path)
	}
	if policy.Alerts.HoursLowRatio <= 0 || policy.Alerts.HoursLowRatio > 1 ||
		policy.Alerts.CompliantLowRatio <= 0 || policy.Alerts.CompliantLowRatio > 1 {
		return Policy{}, fmt.Errorf("le fichier de politique %q est invalide : les ratios doivent être des fractions entre 0 et 1", path)
	}

	return policy, nil
}

// LeaveThresholds converts the policy into the ledger's threshold type.
func (p Policy) LeaveThresholds() (leave.Thresholds, error) {
	warning, err := parseCutoff(p.Leave.WarningCutoff)
	if err != nil {
		return leave.Thresholds{}, err
	}
	danger, err := parseCutoff(p.Leave.DangerCutoff)
	if err != nil {
		return leave.Thresholds{}, err
	}
	return leave.Thresholds{
		LegalDays:       p.Leave.LegalDays,
		DangerBelowDays: p.Leave.DangerBelowDays,
		WarningCutoff:   warning,
		DangerCutoff:    danger,
	}, nil
}

// AlertThresholds converts the policy into the alert engine's threshold type.
func (p Policy) AlertThresholds() alerting.Thresholds {
	return alerting.Thresholds{
		HoursLowRatio:      p.Alerts.HoursLowRatio,
		CompliantLowRatio:  p.Alerts.CompliantLowRatio,
		DefaultWeeklyHours: p.Alerts.DefaultWeeklyHours,
	}
}

func formatCutoff(cutoff leave.Cutoff) string {
	return fmt.Sprintf("%02d-%02d", int(cutoff.Month), cutoff.Day)
}

func parseCutoff(value string) (leave.Cutoff, error) {
	var month, day int
	if _, err := fmt.Sscanf(value, "%d-%d", &month, &day); err != nil {
		return leave.Cutoff{}, fmt.Errorf("la date charnière %q doit suivre le format MM-JJ", value)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return leave.Cutoff{}, fmt.Errorf("la date charnière %q doit suivre le format MM-JJ", value)
	}
	return leave.Cutoff{Month: time.Month(month), Day: day}, nil
}
