package measurementService

import (
	"SizeMeasurement/internal/api/measurement"
	"SizeMeasurement/internal/sizing"
	"context"

	"github.com/sirupsen/logrus"
)

type IMeasurementService interface {
	MeasureSizes(ctx context.Context, req measurement.SizeMeasurementRequest) (*measurement.SizeMeasurementResponse, error)
}

type measurementService struct {
	log        *logrus.Logger
	calculator *sizing.Calculator
}

func NewMeasurementService(
	log *logrus.Logger,
	calculator *sizing.Calculator,
) IMeasurementService {
	if calculator == nil {
		calculator = sizing.NewCalculator()
	}

	return &measurementService{
		log:        log,
		calculator: calculator,
	}
}
