package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"stellarburger/internal/models"
)

var errUnknownIngredient = errors.New("unknown ingredient")

// placeOrder validates the ingredient ids and stores a pending order under
// the next free number.
func (s *Server) placeOrder(userID uint, ids []string) (models.Order, error) {
	var records []IngredientRecord
	if err := s.db.Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return models.Order{}, err
	}
	byID := make(map[string]IngredientRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return models.Order{}, errUnknownIngredient
		}
	}

	s.ordersMu.Lock()
	defer s.ordersMu.Unlock()

	var last OrderRecord
	number := FirstOrderNumber
	if err := s.db.Unscoped().Order("number desc").First(&last).Error; err == nil {
		number = last.Number + 1
	}

	now := s.now()
	rec := OrderRecord{
		UID:         uuid.NewString(),
		Number:      number,
		UserID:      userID,
		Name:        orderName(ids, byID),
		Status:      string(models.OrderStatusPending),
		Ingredients: strings.Join(ids, ","),
	}
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if err := s.db.Create(&rec).Error; err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}
	return rec.toModel(), nil
}

// orderName builds a display name from the first word of each distinct
// ingredient, bun first.
func orderName(ids []string, byID map[string]IngredientRecord) string {
	var bun []string
	var fillings []string
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		rec := byID[id]
		word := strings.Fields(rec.Name)[0]
		if rec.Type == string(models.IngredientBun) {
			bun = append(bun, word)
		} else {
			fillings = append(fillings, word)
		}
	}
	return strings.Join(append(append(bun, fillings...), "burger"), " ")
}

// feedPage lists the latest orders, optionally for one customer only.
func (s *Server) feedPage(userID *uint) (models.FeedPage, error) {
	query := s.db.Model(&OrderRecord{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var total int
	if err := query.Count(&total).Error; err != nil {
		return models.FeedPage{}, err
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var today int
	if err := query.Where("created_at >= ?", midnight).Count(&today).Error; err != nil {
		return models.FeedPage{}, err
	}

	var records []OrderRecord
	if err := query.Order("number desc").Limit(FeedLimit).Find(&records).Error; err != nil {
		return models.FeedPage{}, err
	}
	orders := make([]models.Order, 0, len(records))
	for _, r := range records {
		orders = append(orders, r.toModel())
	}
	return models.FeedPage{Orders: orders, Total: total, TotalToday: today}, nil
}

// cookDue marks pending orders done once they have cooked long enough and
// returns how many changed.
func (s *Server) cookDue() (int, error) {
	cutoff := s.now().Add(-s.cookTime)
	result := s.db.Model(&OrderRecord{}).
		Where("status = ? AND created_at <= ?", string(models.OrderStatusPending), cutoff).
		Update("status", string(models.OrderStatusDone))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected > 0 {
		s.publishFeed()
	}
	return int(result.RowsAffected), nil
}

// RunKitchen finishes pending orders every interval until ctx is done.
func (s *Server) RunKitchen(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.cookDue()
			if err != nil {
				s.logger.Warn("kitchen tick failed", zap.Error(err))
				continue
			}
			if n > 0 {
				s.logger.Info("orders ready", zap.Int("count", n))
			}
		}
	}
}
