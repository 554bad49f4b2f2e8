package cancel_hold

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/service/holds/models"
)

type HoldsService interface {
	Cancel(ctx context.Context, req *models.CancelHoldRequest) (*models.HoldResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
