package measurementHandler

import (
	"SizeMeasurement/internal/api/measurement"
	"SizeMeasurement/internal/middleware"
	contextPkg "SizeMeasurement/pkg/context"
	"SizeMeasurement/pkg/handlerUtil"
	"SizeMeasurement/pkg/log"
	"SizeMeasurement/pkg/response"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func (h *MeasurementHandler) MeasureSize(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), h.requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing size measurement request")

	var req measurement.SizeMeasurementRequest
	if err := ctx.BodyParser(&req); err != nil {
		var fiberErr *fiber.Error
		if !errors.As(err, &fiberErr) {
			err = fmt.Errorf("%w: %v", measurement.ErrBadRequest, err)
		}
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.measurementService.MeasureSizes(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "measure_sizes")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"method":     req.Configs.MeasurementMethod,
			"detections": len(result.Outputs.OutputDetections),
		}).Info("Size measurement successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *MeasurementHandler) handleMeasurementWebSocket(c *websocket.Conn) {
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	logger := h.log.WithField("request_id", requestID)

	logger.Info("Measurement WebSocket client connected")
	defer logger.Info("Measurement WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		logger.Debug("Received ping, sending pong")
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			logger.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 60 * time.Second

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			logger.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("Measurement WebSocket error: %v", err)
			} else {
				logger.Info("Measurement WebSocket connection closed")
			}
			break
		}

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			logger.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		var reply interface{}
		result, err := h.measureMessage(requestID, message)
		if err != nil {
			logger.WithField("error", err.Error()).Warn("Error processing measurement message")
			reply = h.errorReply(err)
		} else {
			reply = result
		}

		payload, err := json.Marshal(reply)
		if err != nil {
			logger.Errorf("Error encoding measurement reply: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			logger.Errorf("Error setting write deadline: %v", err)
			break
		}

		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Errorf("Error writing measurement reply: %v", err)
			break
		}

		if err := c.SetWriteDeadline(time.Time{}); err != nil {
			logger.Errorf("Error resetting write deadline: %v", err)
			break
		}
	}
}

func (h *MeasurementHandler) measureMessage(requestID string, message []byte) (*measurement.SizeMeasurementResponse, error) {
	var req measurement.SizeMeasurementRequest
	if err := json.Unmarshal(message, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", measurement.ErrBadRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(contextPkg.WithRequestID(context.Background(), requestID), h.requestTimeout)
	defer cancel()

	return h.measurementService.MeasureSizes(ctx, req)
}

func (h *MeasurementHandler) errorReply(err error) measurement.ErrorResponse {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return measurement.ErrorResponse{
			Error: "Validation failed: " + err.Error(),
			Code:  "VALIDATION_ERROR",
		}
	}

	if response.StatusOf(err, http.StatusInternalServerError) == http.StatusInternalServerError {
		return measurement.ErrorResponse{Error: "An unexpected error occurred"}
	}

	return measurement.ErrorResponse{Error: err.Error()}
}
