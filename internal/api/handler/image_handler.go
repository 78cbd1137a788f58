package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/core/ports"
	"github.com/postboard/blog-api/internal/pkg/metrics"
)

// acceptedImageTypes are the content types PUT /post-image stores. Anything
// else is treated as if no file was sent.
var acceptedImageTypes = map[string]struct{}{
	"image/png":  {},
	"image/jpg":  {},
	"image/jpeg": {},
}

// ImageHandler handles post image uploads.
type ImageHandler struct {
	store     ports.ImageStore
	discarder ports.ImageDiscarder
	log       zerolog.Logger
}

func NewImageHandler(store ports.ImageStore, discarder ports.ImageDiscarder, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{store: store, discarder: discarder, log: log}
}

type imageResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"filePath,omitempty"`
}

// Upload handles PUT /post-image.
//
// @Summary      Upload a post image
// @Description  Stores the multipart field "image" (png/jpg/jpeg). When "oldPath" is sent the previous image is removed.
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image    formData  file    false  "Image file"
// @Param        oldPath  formData  string  false  "Path of the image being replaced"
// @Success      201      {object}  imageResponse
// @Success      200      {object}  imageResponse
// @Failure      401      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /post-image [put]
func (h *ImageHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		h.log.Debug().Err(err).Msg("no image in request")
		return c.JSON(http.StatusOK, imageResponse{Message: "No file provided!"})
	}
	if _, ok := acceptedImageTypes[fh.Header.Get(echo.HeaderContentType)]; !ok {
		return c.JSON(http.StatusOK, imageResponse{Message: "No file provided!"})
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	filePath, err := h.store.Save(c.Request().Context(), fh.Filename, src)
	if err != nil {
		return err
	}
	metrics.ImagesStoredTotal.Inc()

	if oldPath := c.FormValue("oldPath"); oldPath != "" {
		h.discarder.Discard(oldPath)
	}

	return c.JSON(http.StatusCreated, imageResponse{Message: "File stored!", FilePath: filePath})
}
