package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/sport-alerts/internal/domain/banner"
	"github.com/riskibarqy/sport-alerts/internal/usecase"
)

// multipart overhead allowed on top of the image itself.
const bannerFormSlack = 1 << 20

func (h *Handler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UploadBanner")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxBannerBytes+bannerFormSlack)
	if err := r.ParseMultipartForm(usecase.MaxBannerBytes + bannerFormSlack); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(ctx, w, fmt.Errorf("%w: file exceeds %d MB", usecase.ErrInvalidInput, usecase.MaxBannerBytes>>20))
			return
		}
		writeError(ctx, w, fmt.Errorf("%w: invalid multipart form: %v", usecase.ErrInvalidInput, err))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: file is required", usecase.ErrInvalidInput))
		return
	}
	defer file.Close()

	item, err := h.bannerService.Upload(ctx, principal, banner.Upload{
		Filename:    header.Filename,
		ContentType: strings.TrimSpace(header.Header.Get("Content-Type")),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upload banner failed", "filename", header.Filename, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toBannerDTO(item))
}

func (h *Handler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteBanner")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	bannerID := strings.TrimSpace(r.PathValue("bannerID"))
	if err := h.bannerService.Delete(ctx, principal, bannerID); err != nil {
		h.logger.WarnContext(ctx, "delete banner failed", "banner_id", bannerID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": bannerID})
}

func (h *Handler) ListBannerHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBannerHistory")
	defer span.End()

	items, err := h.bannerService.History(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list banner history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toBannerDTOs(items))
}

func (h *Handler) GetLatestBanner(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLatestBanner")
	defer span.End()

	item, err := h.bannerService.Latest(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toBannerDTO(item))
}

func (h *Handler) ListPublicBanners(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPublicBanners")
	defer span.End()

	limit, err := parseQueryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.bannerService.ListPublic(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list public banners failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toBannerDTOs(items))
}
