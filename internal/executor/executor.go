// Package executor runs a single size measurement request document outside
// the HTTP server, reading the request from a stream and writing the response
// document to another.
package executor

import (
	"SizeMeasurement/internal/api/measurement"
	measurementService "SizeMeasurement/internal/api/measurement/service"
	contextPkg "SizeMeasurement/pkg/context"
	"SizeMeasurement/pkg/log"
	"SizeMeasurement/pkg/utils"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Executor struct {
	log                *logrus.Logger
	validator          *validator.Validate
	measurementService measurementService.IMeasurementService
	utils              utils.IUtils
	timeout            time.Duration
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	ms measurementService.IMeasurementService,
) *Executor {
	return &Executor{
		log:                log,
		validator:          validator,
		measurementService: ms,
		utils:              utils.New(),
		timeout:            10 * time.Second,
	}
}

func (e *Executor) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	requestID, err := e.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return fmt.Errorf("generate request id: %w", err)
	}

	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(ctx, requestID), e.timeout)
	defer cancel()

	logger := e.log.WithField("request_id", contextPkg.GetRequestID(ctx))

	var req measurement.SizeMeasurementRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		logger.WithField("error", err.Error()).Warn("Failed to decode request document")
		return fmt.Errorf("%w: %v", measurement.ErrBadRequest, err)
	}

	if err := e.validator.Struct(req); err != nil {
		logger.WithField("error", err.Error()).Warn("Request document failed validation")
		return fmt.Errorf("validation failed: %w", err)
	}

	resp, err := e.measurementService.MeasureSizes(ctx, req)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	logger.WithFields(log.Fields{
		"method":     req.Configs.MeasurementMethod,
		"detections": len(resp.Outputs.OutputDetections),
	}).Info("Size measurement written")

	return nil
}
