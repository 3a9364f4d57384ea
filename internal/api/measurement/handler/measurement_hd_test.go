package measurementHandler

import (
	"SizeMeasurement/internal/api/measurement"
	measurementService "SizeMeasurement/internal/api/measurement/service"
	"SizeMeasurement/internal/middleware"
	"SizeMeasurement/internal/sizing"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	gorillaws "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boxAndCardRequest = `{
	"configs": {
		"ClassLabel1": "Box",
		"ClassLabel2": "Card",
		"MeasurementMethod": "ReferenceObjectMethod",
		"ReferenceObjectSelection": "ClassLabel2",
		"ReferenceSize": 8.56,
		"Unit": "cm"
	},
	"inputs": {
		"inputDetections": [
			{"classLabel": "Box", "classId": 1, "confidence": 0.8, "boundingBox": {"left": 0, "top": 0, "width": 120, "height": 60}, "trackId": 9},
			{"classLabel": "Cup", "classId": 3, "confidence": 0.4, "boundingBox": {"left": 5, "top": 5, "width": 30, "height": 30}, "trackId": 10},
			{"classLabel": "card", "classId": 2, "confidence": 0.9, "boundingBox": {"left": 0, "top": 0, "width": 85.6, "height": 54}}
		]
	}
}`

func TestMain(m *testing.M) {
	_ = os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

type failingService struct{ err error }

func (f failingService) MeasureSizes(context.Context, measurement.SizeMeasurementRequest) (*measurement.SizeMeasurementResponse, error) {
	return nil, f.err
}

func newTestApp(t *testing.T, svc measurementService.IMeasurementService) *fiber.App {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if svc == nil {
		svc = measurementService.NewMeasurementService(logger, sizing.NewCalculator())
	}

	mw := middleware.New(logger, 1000, 1000)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(mw.NewRequestIDMiddleware())
	New(logger, validator.New(), mw, svc).Start(app.Group("/api/v1"))

	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/measurement/size", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestMeasureSize_ReferenceObject(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, boxAndCardRequest)
	require.Equal(t, http.StatusOK, status, body)

	var resp measurement.SizeMeasurementResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	out := resp.Outputs.OutputDetections
	require.Len(t, out, 3)
	assert.Equal(t, []string{"Box", "Cup", "card"}, []string{out[0].ClassLabel, out[1].ClassLabel, out[2].ClassLabel})

	assert.InDelta(t, 12.0, *out[0].Size, 1e-9)
	assert.Equal(t, "cm", *out[0].Unit)
	assert.Nil(t, out[0].Extra, "measured detections only carry the base fields")

	assert.Nil(t, out[1].Size)
	assert.JSONEq(t, `10`, string(out[1].Extra["trackId"]))

	assert.Equal(t, 8.56, *out[2].Size)
}

func TestMeasureSize_PixelToUnit(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, `{
		"configs": {"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "ReferencePixelToUnitMethod", "PixelToUnitRatio": 0.1, "Unit": "cm"},
		"inputs": {"inputDetections": [{"classLabel": "Box", "classId": 1, "confidence": 1, "boundingBox": {"left": 0, "top": 0, "width": 200, "height": 10}}]}
	}`)
	require.Equal(t, http.StatusOK, status, body)

	assert.JSONEq(t, `{"outputs": {"outputDetections": [
		{"classLabel": "Box", "classId": 1, "confidence": 1, "boundingBox": {"left": 0, "top": 0, "width": 200, "height": 10}, "size": 20, "unit": "cm"}
	]}}`, body)
}

func TestMeasureSize_DetectionsKeepTheirOwnMembers(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, `{
		"configs": {"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "ReferencePixelToUnitMethod", "PixelToUnitRatio": 0.5, "Unit": "mm"},
		"inputs": {"inputDetections": [
			{"classLabel": "Box", "classId": "box-a", "boundingBox": {"left": 0, "top": 0, "width": 40, "height": 8, "rotation": 15}},
			{"classLabel": "Cup", "boundingBox": {"width": 30, "right": 31}},
			{"classLabel": "Pen", "classId": "pen", "confidence": 0.2, "boundingBox": null}
		]}
	}`)
	require.Equal(t, http.StatusOK, status, body)

	assert.JSONEq(t, `{"outputs": {"outputDetections": [
		{"classLabel": "Box", "classId": "box-a", "boundingBox": {"left": 0, "top": 0, "width": 40, "height": 8, "rotation": 15}, "size": 20, "unit": "mm"},
		{"classLabel": "Cup", "boundingBox": {"width": 30, "right": 31}},
		{"classLabel": "Pen", "classId": "pen", "confidence": 0.2, "boundingBox": null}
	]}}`, body)
}

func TestMeasureSize_EmptyDetections(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, `{
		"configs": {"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "ReferencePixelToUnitMethod", "PixelToUnitRatio": 0.1},
		"inputs": {"inputDetections": []}
	}`)
	require.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `{"outputs": {"outputDetections": []}}`, body)
}

func TestMeasureSize_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		configs string
	}{
		{"unknown method", `{"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "Laser"}`},
		{"missing label", `{"ClassLabel1": "Box", "MeasurementMethod": "ReferencePixelToUnitMethod", "PixelToUnitRatio": 1}`},
		{"negative reference size", `{"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "ReferenceObjectMethod", "ReferenceObjectSelection": "ClassLabel1", "ReferenceSize": -1}`},
		{"missing reference size", `{"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "ReferenceObjectMethod", "ReferenceObjectSelection": "ClassLabel1"}`},
		{"bad selection", `{"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "ReferenceObjectMethod", "ReferenceObjectSelection": "ClassLabel3", "ReferenceSize": 1}`},
		{"missing ratio", `{"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "ReferencePixelToUnitMethod"}`},
		{"negative ratio", `{"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "ReferencePixelToUnitMethod", "PixelToUnitRatio": -0.5}`},
		{"unknown unit", `{"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "ReferencePixelToUnitMethod", "PixelToUnitRatio": 1, "Unit": "furlong"}`},
	}

	app := newTestApp(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postJSON(t, app, `{"configs": `+tt.configs+`}`)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body, "VALIDATION_ERROR")
		})
	}
}

func TestMeasureSize_ZeroValuesPassValidation(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, `{"configs": {"ClassLabel1": "Box", "ClassLabel2": "Card", "MeasurementMethod": "ReferenceObjectMethod", "ReferenceObjectSelection": "ClassLabel1", "ReferenceSize": 0}}`)
	assert.Equal(t, http.StatusOK, status, body)
	assert.JSONEq(t, `{"outputs": {"outputDetections": null}}`, body)
}

func TestMeasureSize_MalformedBody(t *testing.T) {
	app := newTestApp(t, nil)

	status, body := postJSON(t, app, `{"configs": `)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, "bad request")
}

func TestMeasureSize_ServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"invalid param", measurement.ErrInvalidParam, http.StatusBadRequest, "INVALID_PARAMETER"},
		{"internal", measurement.ErrInternalServerError, http.StatusInternalServerError, "Internal server error"},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "trace_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, failingService{err: tt.err})

			status, body := postJSON(t, app, boxAndCardRequest)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, body, tt.body)
			assert.NotContains(t, body, "disk on fire")
		})
	}
}

func TestMeasurementWebSocket(t *testing.T) {
	app := newTestApp(t, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	dialer := gorillaws.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial("ws://"+ln.Addr().String()+"/api/v1/measurement/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, []byte(boxAndCardRequest)))
	_, reply, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp measurement.SizeMeasurementResponse
	require.NoError(t, json.Unmarshal(reply, &resp))
	require.Len(t, resp.Outputs.OutputDetections, 3)
	assert.InDelta(t, 12.0, *resp.Outputs.OutputDetections[0].Size, 1e-9)

	require.NoError(t, conn.WriteMessage(gorillaws.BinaryMessage, []byte(`{"configs": {"ClassLabel1": "Box"}}`)))
	_, reply, err = conn.ReadMessage()
	require.NoError(t, err)

	var errResp measurement.ErrorResponse
	require.NoError(t, json.Unmarshal(reply, &errResp))
	assert.Equal(t, "VALIDATION_ERROR", errResp.Code)

	require.NoError(t, conn.WriteMessage(gorillaws.TextMessage, []byte(`not json`)))
	_, reply, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(reply, &errResp))
	assert.Contains(t, errResp.Error, "bad request")
}

func TestMeasurementWebSocket_RateLimited(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mw := middleware.New(logger, 0.001, 1)
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	New(logger, validator.New(), mw, measurementService.NewMeasurementService(logger, sizing.NewCalculator())).Start(app.Group("/api/v1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/measurement/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/measurement/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestMeasurementWebSocket_RequiresUpgrade(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/measurement/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
