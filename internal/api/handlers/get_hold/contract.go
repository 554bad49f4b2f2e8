package get_hold

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/holds/models"
)

type HoldsService interface {
	GetByID(ctx context.Context, req *models.GetHoldRequest) (*models.HoldResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
