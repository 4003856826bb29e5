package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/evm"
	apperrors "github.com/MaMo-Cyber/App-Cost-sub000/internal/errors"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/pagination"
)

// costEntryService handles cost entry business logic.
type costEntryService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewCostEntryService creates a new CostEntryServicer.
func NewCostEntryService(db *gorm.DB) CostEntryServicer {
	return &costEntryService{db: db, now: time.Now}
}

// CreateCostEntry records a cost against a project.
func (s *costEntryService) CreateCostEntry(projectID string, input CostEntryInput) (*models.CostEntry, error) {
	if err := ensureProject(s.db, projectID); err != nil {
		return nil, err
	}

	var category models.CostCategory
	if err := s.db.Where("id = ?", input.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCostCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if input.PhaseID != nil {
		var count int64
		if err := s.db.Model(&models.Phase{}).Where("id = ? AND project_id = ?", *input.PhaseID, projectID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrPhaseNotFound
		}
	}

	status := input.Status
	if status == "" {
		status = models.PaymentOutstanding
	}
	if input.DueDate != nil && status != models.PaymentOutstanding {
		return nil, apperrors.ErrDueDateNotAllowed
	}

	hourlyRate := input.HourlyRate
	if !hourlyRate.Valid && category.Type == models.CostTypeHourly && category.DefaultRate.Valid {
		hourlyRate = category.DefaultRate
	}

	total, err := entryAmount(input.Hours, hourlyRate, input.Quantity, input.UnitPrice, input.TotalAmount)
	if err != nil {
		return nil, err
	}

	entryDate := evm.Day(s.now())
	if input.EntryDate != nil {
		entryDate = evm.Day(*input.EntryDate)
	}

	entry := &models.CostEntry{
		ProjectID:    projectID,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		PhaseID:      input.PhaseID,
		Description:  input.Description,
		Hours:        input.Hours,
		HourlyRate:   hourlyRate,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		TotalAmount:  total,
		EntryDate:    entryDate,
		Status:       status,
		DueDate:      dayPtr(input.DueDate),
	}
	if status == models.PaymentPaid {
		paidAt := s.now()
		entry.PaidAt = &paidAt
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// entryAmount derives the total of an entry: hours × rate, else quantity ×
// unit price, else the supplied total.
func entryAmount(hours, rate, quantity, unitPrice, total decimal.NullDecimal) (decimal.Decimal, error) {
	var amount decimal.Decimal
	switch {
	case hours.Valid && rate.Valid:
		amount = hours.Decimal.Mul(rate.Decimal)
	case quantity.Valid && unitPrice.Valid:
		amount = quantity.Decimal.Mul(unitPrice.Decimal)
	case total.Valid:
		amount = total.Decimal
	default:
		return decimal.Zero, apperrors.ErrAmountNotComputable
	}
	amount = amount.Round(2)
	if !amount.IsPositive() {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "Total amount must be positive")
	}
	return amount, nil
}

// GetProjectCostEntries returns a paginated list of a project's entries,
// most recent first.
func (s *costEntryService) GetProjectCostEntries(
	projectID string,
	page pagination.PageRequest,
	filter CostEntryFilter,
) (*pagination.PageResponse[models.CostEntry], error) {
	if err := ensureProject(s.db, projectID); err != nil {
		return nil, err
	}

	base := s.db.Model(&models.CostEntry{}).Where("project_id = ?", projectID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.PhaseID != nil {
		base = base.Where("phase_id = ?", *filter.PhaseID)
	}
	if filter.CategoryID != nil {
		base = base.Where("category_id = ?", *filter.CategoryID)
	}

	result, err := pagination.Query[models.CostEntry](base, page, "entry_date DESC, created_at DESC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// GetEntriesByStatus returns every entry of a project with the given payment
// status. Outstanding entries are ordered by due date, paid ones by payment
// time.
func (s *costEntryService) GetEntriesByStatus(projectID string, status models.PaymentStatus) ([]models.CostEntry, error) {
	if err := ensureProject(s.db, projectID); err != nil {
		return nil, err
	}

	order := "paid_at DESC"
	if status == models.PaymentOutstanding {
		order = "due_date IS NULL, due_date ASC, entry_date ASC"
	}

	entries := []models.CostEntry{}
	if err := s.db.Where("project_id = ? AND status = ?", projectID, status).Order(order).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// GetCostEntryByID returns a cost entry by ID.
func (s *costEntryService) GetCostEntryByID(entryID string) (*models.CostEntry, error) {
	var entry models.CostEntry
	if err := s.db.Where("id = ?", entryID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCostEntryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// UpdateCostEntryStatus marks an entry paid or outstanding. Paying keeps any
// existing due date; a new due date may only accompany the outstanding status.
func (s *costEntryService) UpdateCostEntryStatus(entryID string, status models.PaymentStatus, dueDate *time.Time) (*models.CostEntry, error) {
	if dueDate != nil && status != models.PaymentOutstanding {
		return nil, apperrors.ErrDueDateNotAllowed
	}

	entry, err := s.GetCostEntryByID(entryID)
	if err != nil {
		return nil, err
	}

	entry.Status = status
	switch status {
	case models.PaymentPaid:
		paidAt := s.now()
		entry.PaidAt = &paidAt
	case models.PaymentOutstanding:
		entry.PaidAt = nil
		if dueDate != nil {
			entry.DueDate = dayPtr(dueDate)
		}
	}

	updates := map[string]interface{}{
		"status":   entry.Status,
		"paid_at":  entry.PaidAt,
		"due_date": entry.DueDate,
	}
	if err := s.db.Model(entry).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// DeleteCostEntry soft-deletes a cost entry.
func (s *costEntryService) DeleteCostEntry(entryID string) error {
	entry, err := s.GetCostEntryByID(entryID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetPaymentTimeline buckets the outstanding entries of a project by due
// date relative to today: overdue, within 7 days, within 30 days, later, or
// without a due date.
func (s *costEntryService) GetPaymentTimeline(projectID string) (*PaymentTimeline, error) {
	entries, err := s.GetEntriesByStatus(projectID, models.PaymentOutstanding)
	if err != nil {
		return nil, err
	}

	today := evm.Day(s.now())
	week := today.AddDate(0, 0, 7)
	month := today.AddDate(0, 0, 30)

	timeline := &PaymentTimeline{
		Overdue:          newPaymentBucket(),
		DueThisWeek:      newPaymentBucket(),
		DueThisMonth:     newPaymentBucket(),
		DueLater:         newPaymentBucket(),
		NoDueDate:        newPaymentBucket(),
		TotalOutstanding: decimal.Zero,
	}
	for _, e := range entries {
		var bucket *PaymentBucket
		switch {
		case e.DueDate == nil:
			bucket = &timeline.NoDueDate
		case evm.Day(*e.DueDate).Before(today):
			bucket = &timeline.Overdue
		case evm.Day(*e.DueDate).Before(week):
			bucket = &timeline.DueThisWeek
		case evm.Day(*e.DueDate).Before(month):
			bucket = &timeline.DueThisMonth
		default:
			bucket = &timeline.DueLater
		}
		bucket.add(e)
		timeline.TotalOutstanding = timeline.TotalOutstanding.Add(e.TotalAmount)
	}
	return timeline, nil
}

func newPaymentBucket() PaymentBucket {
	return PaymentBucket{Total: decimal.Zero, Entries: []models.CostEntry{}}
}

func (b *PaymentBucket) add(e models.CostEntry) {
	b.Count++
	b.Total = b.Total.Add(e.TotalAmount)
	b.Entries = append(b.Entries, e)
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := evm.Day(*t)
	return &d
}
