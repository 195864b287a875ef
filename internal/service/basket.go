package service

import (
	"fmt"

	"github.com/JiaXinLow/period-poverty-api/internal/models"
	"github.com/JiaXinLow/period-poverty-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// SumBasketLines reduces basket lines to a monthly monetary total of
// unit price times units per month. Amounts are summed numerically in
// the lines' nominal currency; no conversion is performed.
func SumBasketLines(lines []models.BasketLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		lineCost := decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromFloat(line.UnitsPerMonth))
		total = total.Add(lineCost)
	}
	return total
}

// BasketService manages the persisted basket lines.
type BasketService struct {
	repo repository.BasketRepository
	log  *logrus.Logger
}

// NewBasketService initializes a new basket service.
func NewBasketService(repo repository.BasketRepository, log *logrus.Logger) *BasketService {
	return &BasketService{repo: repo, log: log}
}

// Create stores a new basket line, rejecting duplicate names.
func (s *BasketService) Create(line *models.BasketLine) error {
	existing, err := s.repo.FindBasketLineByName(line.Name)
	if err != nil {
		return fmt.Errorf("failed to check basket line name: %w", err)
	}
	if existing != nil {
		return ErrDuplicateBasketLine
	}
	if err := s.repo.CreateBasketLine(line); err != nil {
		return err
	}
	s.log.Infof("Basket item created: %s", line.Name)
	return nil
}

// List returns all stored basket lines.
func (s *BasketService) List() ([]models.BasketLine, error) {
	return s.repo.ListBasketLines()
}

// Get returns one stored basket line by id.
func (s *BasketService) Get(id int64) (*models.BasketLine, error) {
	line, err := s.repo.GetBasketLine(id)
	if err != nil {
		return nil, err
	}
	if line == nil {
		return nil, ErrBasketLineNotFound
	}
	return line, nil
}

// Update applies a partial update to a stored basket line.
func (s *BasketService) Update(id int64, upd models.BasketLineUpdate) (*models.BasketLine, error) {
	line, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if upd.Name != nil {
		line.Name = *upd.Name
	}
	if upd.UnitPrice != nil {
		line.UnitPrice = *upd.UnitPrice
	}
	if upd.UnitsPerMonth != nil {
		line.UnitsPerMonth = *upd.UnitsPerMonth
	}
	if upd.Currency != nil {
		line.Currency = *upd.Currency
	}
	if upd.Notes != nil {
		line.Notes = upd.Notes
	}
	if err := s.repo.UpdateBasketLine(line); err != nil {
		return nil, err
	}
	return line, nil
}

// Delete removes a stored basket line by id.
func (s *BasketService) Delete(id int64) error {
	deleted, err := s.repo.DeleteBasketLine(id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBasketLineNotFound
	}
	s.log.Infof("Basket item deleted: %d", id)
	return nil
}
