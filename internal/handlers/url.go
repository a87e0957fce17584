package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/avelar/linkshort/internal/cachewarm"
	"github.com/avelar/linkshort/internal/shortener"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service               *shortener.Service
	baseURL               string
	publishMappingCreated cachewarm.PublishFunc
	logger                *zap.Logger
}

// NewURLHandler creates a new URL handler around the resolution service.
func NewURLHandler(
	service *shortener.Service,
	baseURL string,
	publishMappingCreated cachewarm.PublishFunc,
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:               service,
		baseURL:               baseURL,
		publishMappingCreated: publishMappingCreated,
		logger:                logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	if err := shortener.ValidateURL(req.Body.URL); err != nil {
		return nil, huma.Error400BadRequest("invalid original url")
	}

	code, err := h.service.Shorten(ctx, req.Body.URL)
	if err != nil {
		meta := RequestMetaFromContext(ctx)
		h.logger.Error("failed to shorten url",
			zap.String("request_id", meta.RequestID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to shorten url")
	}

	// Cache warming for sibling instances; the mapping is already durable.
	event := &cachewarm.MappingCreatedEvent{
		Code:    string(code),
		LongURL: req.Body.URL,
	}
	if err := h.publishMappingCreated(event); err != nil {
		h.logger.Error("failed to publish mapping created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	fullShortURL := fmt.Sprintf("%s/%s", h.baseURL, code)

	resp := &CreateShortURLResponse{}
	resp.Headers.Location = fullShortURL
	resp.Body.Code = string(code)
	resp.Body.ShortURL = fullShortURL
	resp.Body.OriginalURL = req.Body.URL

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	longURL, err := h.service.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		meta := RequestMetaFromContext(ctx)
		h.logger.Error("failed to resolve short url",
			zap.String("request_id", meta.RequestID),
			zap.String("code", req.Code),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to resolve url")
	}

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = longURL

	return resp, nil
}
