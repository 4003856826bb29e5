// Package seed populates a database with reference and demo data.
package seed

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/evm"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/logger"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
)

// Categories creates any missing default cost categories.
func Categories(db *gorm.DB) ([]models.CostCategory, error) {
	return services.NewCostCategoryService(db).InitializeDefaults()
}

type demoPhase struct {
	name   string
	budget int64
	months [2]int // offsets from the project start
	status models.PhaseStatus
}

var demoPhases = []demoPhase{
	{"Planning", 40000, [2]int{0, 2}, models.PhaseCompleted},
	{"Design", 90000, [2]int{2, 4}, models.PhaseCompleted},
	{"Procurement", 150000, [2]int{4, 7}, models.PhaseInProgress},
	{"Build", 170000, [2]int{7, 10}, models.PhaseNotStarted},
	{"Commissioning", 50000, [2]int{10, 12}, models.PhaseNotStarted},
}

// Demo creates an in-flight project running from six months before today to
// six months after it. Spending runs ahead of earned value so the timeline
// shows a projected overrun.
func Demo(db *gorm.DB, today time.Time) (*models.Project, error) {
	log := logger.Named("seed")
	today = evm.Day(today)
	start := today.AddDate(0, -6, 0)
	end := today.AddDate(0, 6, 0)

	if _, err := Categories(db); err != nil {
		return nil, err
	}
	categories, err := services.NewCostCategoryService(db).GetCostCategories()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]models.CostCategory, len(categories))
	for _, c := range categories {
		byName[c.Name] = c
	}
	for _, name := range []string{"Internal Hours", "External Hours", "Materials", "Software Licenses"} {
		if _, ok := byName[name]; !ok {
			return nil, fmt.Errorf("demo seed needs cost category %q", name)
		}
	}

	projects := services.NewProjectService(db)
	project, err := projects.CreateProject(
		"Demo Plant Retrofit",
		"Retrofit of a packaging line, seeded for demonstration",
		decimal.NewFromInt(500000),
		start, end, "",
	)
	if err != nil {
		return nil, err
	}

	if _, err := projects.UpdateCostEstimates(project.ID, map[string]decimal.Decimal{
		"Internal Hours":    decimal.NewFromInt(120000),
		"External Hours":    decimal.NewFromInt(90000),
		"Materials":         decimal.NewFromInt(230000),
		"Software Licenses": decimal.NewFromInt(30000),
	}); err != nil {
		return nil, err
	}

	phaseSvc := services.NewPhaseService(db)
	phases := make([]*models.Phase, 0, len(demoPhases))
	for _, p := range demoPhases {
		phase, err := phaseSvc.CreatePhase(project.ID, p.name, "",
			decimal.NewFromInt(p.budget),
			start.AddDate(0, p.months[0], 0),
			start.AddDate(0, p.months[1], 0).AddDate(0, 0, -1),
			p.status,
		)
		if err != nil {
			return nil, err
		}
		phases = append(phases, phase)
	}

	entries := services.NewCostEntryService(db)
	count := 0
	for month := 0; month <= 6; month++ {
		date := start.AddDate(0, month, 14)
		if date.After(today) {
			date = today
		}
		phase := phaseFor(phases, month)

		status := models.PaymentPaid
		var due *time.Time
		if today.Sub(date) < 30*24*time.Hour {
			status = models.PaymentOutstanding
			d := date.AddDate(0, 0, 30)
			due = &d
		}

		inputs := []services.CostEntryInput{
			{
				CategoryID:  byName["Internal Hours"].ID,
				Description: "Engineering hours",
				Hours:       nullDec(240),
			},
			{
				CategoryID:  byName["External Hours"].ID,
				Description: "Contractor hours",
				Hours:       nullDec(100),
			},
			{
				CategoryID:  byName["Materials"].ID,
				Description: "Components",
				Quantity:    nullDec(int64(10 + 5*month)),
				UnitPrice:   nullDec(450),
			},
		}
		for _, in := range inputs {
			in.PhaseID = &phase.ID
			in.EntryDate = &date
			in.Status = status
			in.DueDate = due
			if _, err := entries.CreateCostEntry(project.ID, in); err != nil {
				return nil, err
			}
			count++
		}
	}

	obligations := services.NewObligationService(db)
	incur := today.AddDate(0, 2, 0)
	materials := byName["Materials"].ID
	for _, o := range []services.ObligationInput{
		{CategoryID: &materials, Description: "Conveyor order", Amount: decimal.NewFromInt(60000), ConfidenceLevel: models.ConfidenceHigh, Priority: models.PriorityHigh, VendorSupplier: "Acme Conveyors", ContractReference: "PO-1042", ExpectedIncurDate: &incur},
		{Description: "Commissioning support", Amount: decimal.NewFromInt(25000), ConfidenceLevel: models.ConfidenceMedium},
		{Description: "Spare parts allowance", Amount: decimal.NewFromInt(15000), ConfidenceLevel: models.ConfidenceLow, Priority: models.PriorityLow},
	} {
		if _, err := obligations.CreateObligation(project.ID, o); err != nil {
			return nil, err
		}
	}

	milestones := services.NewMilestoneService(db)
	if _, err := milestones.CreateMilestone(project.ID, "Design freeze", "", start.AddDate(0, 4, 0), true); err != nil {
		return nil, err
	}
	if _, err := milestones.CreateMilestone(project.ID, "Line handover", "", end, true); err != nil {
		return nil, err
	}

	log.Infow("demo project seeded",
		"project_id", project.ID,
		"phases", len(phases),
		"cost_entries", count,
	)
	return project, nil
}

// phaseFor returns the phase active in the given month offset.
func phaseFor(phases []*models.Phase, month int) *models.Phase {
	for i, p := range demoPhases {
		if month >= p.months[0] && month < p.months[1] {
			return phases[i]
		}
	}
	return phases[len(phases)-1]
}

func nullDec(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}
