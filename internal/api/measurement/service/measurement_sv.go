package measurementService

import (
	"SizeMeasurement/internal/api/measurement"
	"SizeMeasurement/internal/sizing"
	contextPkg "SizeMeasurement/pkg/context"
	"SizeMeasurement/pkg/log"
	"context"
	"fmt"
)

func (s *measurementService) MeasureSizes(ctx context.Context, req measurement.SizeMeasurementRequest) (*measurement.SizeMeasurementResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	cfg, err := sizing.ConfigFromParams(req.Configs)
	if err != nil {
		s.log.WithFields(log.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to read measurement parameters")
		return nil, fmt.Errorf("%w: %v", measurement.ErrInvalidParam, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detections := req.Detections()
	result := s.calculator.Measure(detections, cfg)

	fields := log.Fields{
		"request_id": requestID,
		"method":     req.Configs.MeasurementMethod,
		"detections": len(detections),
		"outcome":    result.Outcome.String(),
		"annotated":  result.Annotated,
	}
	if result.Outcome == sizing.Unchanged {
		fields["reason"] = string(result.Reason)
	}
	s.log.WithFields(fields).Debug("Size measurement finished")

	return &measurement.SizeMeasurementResponse{
		Outputs: measurement.SizeMeasurementOutputs{
			OutputDetections: result.Detections,
		},
	}, nil
}
