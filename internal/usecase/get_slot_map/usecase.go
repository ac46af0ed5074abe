package get_slot_map

import (
	"context"
	"errors"
	"fmt"

	"github.com/nvkhoa/CourtHub-SlotService/internal/domain"
	centerClient "github.com/nvkhoa/CourtHub-SlotService/internal/integrations/centerservice"
)

// UseCase use case построения сетки слотов для конкретного зрителя
type UseCase struct {
	holdRepo     HoldRepository
	centerClient CenterServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	holdRepo HoldRepository,
	centerClient CenterServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		holdRepo:     holdRepo,
		centerClient: centerClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения сетки слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetSlotMap: center=%d, date=%s, viewer=%d, selected=%d",
		req.CenterID, req.Date.Format(domain.DateFormat), req.ViewerID, len(req.Selected))

	// 1. Валидация входных данных
	if req.CenterID <= 0 {
		return nil, fmt.Errorf("%w: centerID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем центр со списком кортов
	center, err := uc.centerClient.GetCenter(ctx, req.CenterID)
	if err != nil {
		if errors.Is(err, centerClient.ErrCenterNotFound) {
			uc.logger.Warn("GetSlotMap: center id=%d not found", req.CenterID)
			return nil, ErrCenterNotFound
		}
		uc.logger.Error("GetSlotMap: failed to get center id=%d: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: failed to get center: %v", ErrInternal, err)
	}

	// 4. Снимок занятости (истёкшие pending уже отфильтрованы хранилищем)
	holds, err := uc.holdRepo.Snapshot(ctx, req.CenterID, req.Date, now)
	if err != nil {
		uc.logger.Error("GetSlotMap: snapshot failed for center=%d: %v", req.CenterID, err)
		return nil, fmt.Errorf("%w: snapshot failed: %v", ErrInternal, err)
	}

	// 5. Проекция сетки для зрителя
	grids := projectGrid(center.Courts, holds, req.ViewerID, req.Selected, req.Date, now)

	uc.logger.Info("GetSlotMap: projected %d courts for center=%d, viewer=%d",
		len(grids), req.CenterID, req.ViewerID)

	return &Response{
		CenterID: req.CenterID,
		Date:     req.Date,
		Courts:   grids,
	}, nil
}
