package controllers

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/tableserve/tableserve/config"
	"github.com/tableserve/tableserve/router"
	"github.com/tableserve/tableserve/validators"
)

const (
	defaultQRSize    = 300
	maxTablesPerCall = 50
)

// QRController builds per-table ordering URLs and points at the external
// image-generation API for the rendered codes.
type QRController struct {
	Cfg *config.Config
}

func NewQRController(cfg *config.Config) *QRController {
	return &QRController{Cfg: cfg}
}

func (qc *QRController) Generate(req *router.Request, _ router.Params) *router.Response {
	raw := req.BodyString("tableNumber")
	if raw == "" {
		return router.BadRequest("Table number is required")
	}

	tableNumber, ok := validators.NormalizeTableNumber(raw)
	if !ok {
		return router.BadRequest("Invalid table number format. Use T01-T99")
	}

	size := defaultQRSize
	if s, ok := req.Body["size"].(float64); ok && s > 0 {
		size = int(s)
	}

	tableURL := qc.tableURL(tableNumber)

	return router.Success(map[string]interface{}{
		"tableNumber": tableNumber,
		"url":         tableURL,
		"qrCodeUrl":   qrImageURL(tableURL, size),
		"size":        size,
	})
}

func (qc *QRController) Batch(req *router.Request, _ router.Params) *router.Response {
	start, _ := strconv.Atoi(req.QueryParam("start", "1"))
	end, _ := strconv.Atoi(req.QueryParam("end", "10"))
	size, _ := strconv.Atoi(req.QueryParam("size", strconv.Itoa(defaultQRSize)))
	if size <= 0 {
		size = defaultQRSize
	}

	if start < 1 || start > 99 {
		return router.BadRequest("Start table must be between 1 and 99")
	}
	if end < start || end > 99 {
		return router.BadRequest("End table must be between start and 99")
	}
	if end-start > maxTablesPerCall {
		return router.BadRequest(fmt.Sprintf("Maximum %d tables per batch", maxTablesPerCall))
	}

	codes := make([]map[string]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		tableNumber := fmt.Sprintf("T%02d", i)
		tableURL := qc.tableURL(tableNumber)
		codes = append(codes, map[string]string{
			"tableNumber": tableNumber,
			"url":         tableURL,
			"qrCodeUrl":   qrImageURL(tableURL, size),
		})
	}

	return router.Success(map[string]interface{}{
		"qrCodes": codes,
		"count":   len(codes),
		"size":    size,
	})
}

func (qc *QRController) tableURL(tableNumber string) string {
	return fmt.Sprintf("%s?%s=%s", qc.Cfg.QRBaseURL, qc.Cfg.QRTableParam, tableNumber)
}

func qrImageURL(data string, size int) string {
	return fmt.Sprintf("https://api.qrserver.com/v1/create-qr-code/?size=%dx%d&data=%s",
		size, size, url.QueryEscape(data))
}
