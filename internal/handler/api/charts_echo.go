package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	models "Kundali/internal/domain/models"
	"Kundali/internal/usecase"
	xhttp "Kundali/pkg/http"
	xlogger "Kundali/pkg/logger"
)

// PredictionResponse is the body of POST /api/v1/predictions.
type PredictionResponse struct {
	ChartID     string                  `json:"chart_id"`
	Approximate bool                    `json:"approximate"`
	Ascendant   string                  `json:"ascendant"`
	MoonSign    string                  `json:"moon_sign"`
	Nakshatra   string                  `json:"nakshatra"`
	Prediction  models.PredictionResult `json:"prediction"`
	Chart       *models.Kundali         `json:"chart,omitempty"`
}

// FeaturesResponse is the body of POST /api/v1/features.
type FeaturesResponse struct {
	ChartID     string `json:"chart_id"`
	Approximate bool   `json:"approximate"`
	models.FeatureVector
}

// DashaResponse is the body of GET /api/v1/dasha.
type DashaResponse struct {
	ChartID     string               `json:"chart_id"`
	Approximate bool                 `json:"approximate"`
	Dasha       models.DashaTimeline `json:"dasha"`
}

// ChartsEchoHandler serves chart, feature, dasha and prediction endpoints.
type ChartsEchoHandler struct {
	logger      *xlogger.Logger
	gen         *usecase.ChartGenerator
	predictions *usecase.PredictionService
}

func NewChartsEchoHandler(logger *xlogger.Logger, gen *usecase.ChartGenerator, predictions *usecase.PredictionService) *ChartsEchoHandler {
	return &ChartsEchoHandler{logger: logger, gen: gen, predictions: predictions}
}

func (h *ChartsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api/v1")
	g.POST("/charts", h.Chart)
	g.POST("/predictions", h.Predict)
	g.POST("/features", h.Features)
	g.GET("/dasha", h.Dasha)
}

func (h *ChartsEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{
		"status":    "ok",
		"ephemeris": h.gen.Ephemeris(),
		"model":     h.predictions.Model(),
	})
}

func (h *ChartsEchoHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	k, err := h.gen.Generate(c.Request().Context(), req.Birth(), usecase.OptionsFrom(req))
	if err != nil {
		return h.fail(c, "chart", err)
	}
	return xhttp.SuccessResponse(c, k)
}

func (h *ChartsEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	out, err := h.predictions.Predict(c.Request().Context(), req.Birth(), usecase.OptionsFrom(&req.ChartRequest))
	if err != nil {
		return h.fail(c, "prediction", err)
	}

	k := out.Kundali
	moon := k.Position(models.Moon)
	res := PredictionResponse{
		ChartID:     k.ID,
		Approximate: k.Approximate,
		Ascendant:   k.Ascendant.SignName,
		MoonSign:    moon.SignName,
		Nakshatra:   moon.NakshatraName,
		Prediction:  out.Result,
	}
	if req.IncludeChart {
		res.Chart = k
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ChartsEchoHandler) Features(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	k, err := h.gen.Generate(c.Request().Context(), req.Birth(), usecase.OptionsFrom(req))
	if err != nil {
		return h.fail(c, "features", err)
	}
	return xhttp.SuccessResponse(c, FeaturesResponse{
		ChartID:       k.ID,
		Approximate:   k.Approximate,
		FeatureVector: k.Features,
	})
}

func (h *ChartsEchoHandler) Dasha(c echo.Context) error {
	req := &models.DashaQuery{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	opts := usecase.Options{
		ReferenceDate: xhttp.ParseTimeDefault(req.ReferenceDate, time.Time{}),
		Vargas:        []string{"D1"},
	}
	k, err := h.gen.Generate(c.Request().Context(), req.Birth(), opts)
	if err != nil {
		return h.fail(c, "dasha", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=3600")
	return xhttp.SuccessResponse(c, DashaResponse{ChartID: k.ID, Approximate: k.Approximate, Dasha: k.Dasha})
}

func (h *ChartsEchoHandler) fail(c echo.Context, op string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" usecase error", xlogger.String("code", appErr.Code), xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}
