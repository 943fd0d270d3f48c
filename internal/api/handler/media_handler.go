package handler

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/pkg/response"
	"Wellspring/internal/pkg/util"
	"Wellspring/internal/service"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type MediaHandler struct{}

func NewMediaHandler() *MediaHandler {
	return &MediaHandler{}
}

// Upload 媒体文件先落临时桶，发帖或换头像时再转正
func (s *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	isImage := strings.HasPrefix(contentType, consts.MimePrefixImage)
	isVideo := strings.HasPrefix(contentType, consts.MimePrefixVideo)
	isAudio := strings.HasPrefix(contentType, consts.MimePrefixAudio)
	if !isImage && !isVideo && !isAudio {
		response.Error(c, service.ErrFileNotSupported)
		return
	}

	ext := path.Ext(file.Filename)
	objectName := time.Now().Format("2006/01/02/") + uuid.NewString() + ext

	fileKey, err := minio.UploadTempFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "MinIO upload failed", "err", err)
		response.Error(c, service.UnExpectedError)
		return
	}

	publicUrl := minio.GetTempPublicURL(fileKey)
	var width, height int
	var duration float64

	if isImage || isVideo {
		w, h, err := util.GetDimensions(c.Request.Context(), publicUrl)
		if err == nil {
			width, height = w, h
		} else {
			log.WarnContext(c.Request.Context(), "failed to get dimensions via ffprobe", "url", publicUrl, "err", err)
		}
	}

	if isVideo || isAudio {
		dur, err := util.GetDuration(c.Request.Context(), publicUrl)
		if err == nil {
			duration = dur
		} else {
			log.WarnContext(c.Request.Context(), "failed to get duration via ffprobe", "url", publicUrl, "err", err)
		}
	}

	meta := dto.MediaTempMetadata{
		MimeType:  contentType,
		Width:     width,
		Height:    height,
		Duration:  duration,
		CreatedAt: time.Now().Unix(),
	}
	metaBytes, _ := json.Marshal(meta)
	_ = redis.HSet(c.Request.Context(), consts.MediaTempKey, fileKey, string(metaBytes))

	res := map[string]interface{}{
		"url":      fileKey,
		"mime":     contentType,
		"width":    width,
		"height":   height,
		"duration": duration,
		"size":     file.Size,
		"original": file.Filename,
	}

	log.InfoContext(c.Request.Context(), "media upload success and metadata cached", "fileKey", fileKey, "type", contentType)
	response.Success(c, res)
}
