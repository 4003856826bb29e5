package evm

import (
	"fmt"
	"testing"
)

func TestClassifyCost(t *testing.T) {
	tests := []struct {
		cpi  Index
		want CostStatus
	}{
		{NewIndex(1.2), CostUnderBudget},
		{NewIndex(1.05), CostUnderBudget},
		{NewIndex(1.0), CostOnBudget},
		{NewIndex(0.95), CostOnBudget},
		{NewIndex(0.949999), CostWarning},
		{NewIndex(0.85), CostWarning},
		{NewIndex(0.849), CostOverBudget},
		{NotApplicable, CostNotApplicable},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_%g", tt.cpi.Defined(), tt.cpi.Float()), func(t *testing.T) {
			if got := ClassifyCost(tt.cpi); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyCostAdjusted(t *testing.T) {
	if got := ClassifyCostAdjusted(NewIndex(0.89)); got != CostOverBudget {
		t.Errorf("expected over_budget below 0.90, got %s", got)
	}
	if got := ClassifyCostAdjusted(NewIndex(0.90)); got != CostWarning {
		t.Errorf("expected warning at 0.90, got %s", got)
	}
	if got := ClassifyCost(NewIndex(0.89)); got != CostWarning {
		t.Errorf("expected standard warning at 0.89, got %s", got)
	}
}

func TestClassifySchedule(t *testing.T) {
	tests := []struct {
		spi  Index
		want ScheduleStatus
	}{
		{NewIndex(1.05), ScheduleAhead},
		{NewIndex(0.95), ScheduleOnSchedule},
		{NewIndex(0.9), ScheduleSlightlyBehind},
		{NewIndex(0.8), ScheduleBehind},
		{NotApplicable, ScheduleNotApplicable},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_%g", tt.spi.Defined(), tt.spi.Float()), func(t *testing.T) {
			if got := ClassifySchedule(tt.spi); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyBreach(t *testing.T) {
	tests := []struct {
		name     string
		eac      float64
		risk     bool
		severity Severity
	}{
		{"within_budget", 100000, false, SeverityNone},
		{"low", 104000, true, SeverityLow},
		{"medium_lower_bound", 105000, true, SeverityMedium},
		{"medium_upper_bound", 115000, true, SeverityMedium},
		{"high", 120000, true, SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, sev := ClassifyBreach(tt.eac, 100000)
			if risk != tt.risk || sev != tt.severity {
				t.Errorf("expected (%v, %s), got (%v, %s)", tt.risk, tt.severity, risk, sev)
			}
		})
	}
}

func TestClassifyEfficiency(t *testing.T) {
	if got := ClassifyEfficiency(NewIndex(1.0)); got != EfficiencyGood {
		t.Errorf("expected good, got %s", got)
	}
	if got := ClassifyEfficiency(NewIndex(0.9)); got != EfficiencyFair {
		t.Errorf("expected fair, got %s", got)
	}
	if got := ClassifyEfficiency(NewIndex(0.89)); got != EfficiencyPoor {
		t.Errorf("expected poor, got %s", got)
	}
	if got := ClassifyEfficiency(NotApplicable); got != EfficiencyNotApplicable {
		t.Errorf("expected not_applicable, got %s", got)
	}
}
