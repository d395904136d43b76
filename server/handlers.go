package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"MeloFM/cache"
	"MeloFM/config"
	"MeloFM/core/auth"
	"MeloFM/logger"
	"MeloFM/model"
	"MeloFM/repository"
)

type contextKey string

const userIDKey contextKey = "userID"

// APIHandler 处理所有API请求
type APIHandler struct {
	musicRepo     repository.MusicRepository
	musicbillRepo repository.MusicbillRepository
	singerRepo    repository.SingerRepository
	userRepo      repository.UserRepository
	recordRepo    repository.PlayRecordRepository
	cfg           *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	musicRepo repository.MusicRepository,
	musicbillRepo repository.MusicbillRepository,
	singerRepo repository.SingerRepository,
	userRepo repository.UserRepository,
	recordRepo repository.PlayRecordRepository,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		musicRepo:     musicRepo,
		musicbillRepo: musicbillRepo,
		singerRepo:    singerRepo,
		userRepo:      userRepo,
		recordRepo:    recordRepo,
		cfg:           cfg,
	}
}

// AuthMiddleware validates the bearer token and injects the user id into the
// request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing bearer token")
			return
		}

		userID, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "), h.cfg.JWTSecret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	}
}

func requestUserID(r *http.Request) string {
	if id, ok := r.Context().Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// GetPublicMusicbillHandler returns a public musicbill with its owner, music
// list and the caller's collected flag.
func (h *APIHandler) GetPublicMusicbillHandler(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, CodeParameterError, "missing musicbill id")
		return
	}

	ctx := r.Context()
	userID := requestUserID(r)

	// 缓存只包含歌单本体，collected 标记按用户即时查询
	cached, err := cache.GetPublicMusicbill(ctx, id)
	if err != nil {
		logger.Warn("歌单缓存解码失败", logger.ErrorField(err))
	}
	if cached != nil {
		cached.Collected = h.collectedBy(id, userID)
		writeSuccess(w, cached)
		return
	}

	musicbill, err := h.musicbillRepo.GetMusicbillByID(id)
	if err != nil {
		logger.Error("查询歌单失败", logger.String("musicbillId", id), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to load musicbill")
		return
	}
	if musicbill == nil || !musicbill.Public {
		writeError(w, http.StatusNotFound, CodeMusicbillNotExist, "musicbill not exist")
		return
	}

	owner, err := h.userRepo.GetUserByID(musicbill.UserID)
	if err != nil {
		logger.Error("查询歌单所有者失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to load musicbill owner")
		return
	}

	musicList, err := h.musicRepo.GetMusicsInMusicbill(id)
	if err != nil {
		logger.Error("查询歌单音乐失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to load musicbill musics")
		return
	}

	if len(musicList) > 0 {
		ids := make([]string, 0, len(musicList))
		for _, m := range musicList {
			ids = append(ids, m.ID)
		}
		singers, err := h.singerRepo.GetSingersInMusicIDs(ids)
		if err != nil {
			logger.Error("查询歌手失败", logger.ErrorField(err))
			writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to load singers")
			return
		}
		for _, m := range musicList {
			if list, ok := singers[m.ID]; ok {
				m.Singers = list
			} else {
				m.Singers = []model.Singer{}
			}
		}
	}

	result := &model.PublicMusicbill{
		ID:              musicbill.ID,
		Name:            musicbill.Name,
		Cover:           musicbill.Cover,
		CreateTimestamp: musicbill.CreateTimestamp,
		MusicList:       musicList,
	}
	if owner != nil {
		result.User = model.UserSummary{ID: owner.ID, Nickname: owner.Nickname, Avatar: owner.Avatar}
	}

	if err := cache.SetPublicMusicbill(ctx, result); err == nil {
		logger.Debug("歌单已写入缓存", logger.String("musicbillId", id))
	}

	result.Collected = h.collectedBy(id, userID)
	writeSuccess(w, result)
}

func (h *APIHandler) collectedBy(musicbillID, userID string) bool {
	if userID == "" {
		return false
	}
	collected, err := h.musicbillRepo.IsCollectedBy(musicbillID, userID)
	if err != nil {
		logger.Warn("查询收藏状态失败", logger.ErrorField(err))
		return false
	}
	return collected
}

type playRecordRequest struct {
	MusicID string  `json:"musicId"`
	Percent float64 `json:"percent"`
}

// CreatePlayRecordHandler stores one play record. This is the target of the
// player's fire-and-forget record-play upload.
func (h *APIHandler) CreatePlayRecordHandler(w http.ResponseWriter, r *http.Request) {
	var req playRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeParameterError, "invalid request body")
		return
	}
	if req.MusicID == "" || req.Percent < 0 || req.Percent > 1 {
		writeError(w, http.StatusBadRequest, CodeParameterError, "invalid play record")
		return
	}

	record := &model.PlayRecord{
		UserID:  requestUserID(r),
		MusicID: req.MusicID,
		Percent: req.Percent,
	}
	if err := h.recordRepo.Create(record); err != nil {
		logger.Error("保存播放记录失败",
			logger.String("musicId", req.MusicID),
			logger.Float64("percent", req.Percent),
			logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to save play record")
		return
	}

	logger.Debug("播放记录已保存",
		logger.String("musicId", req.MusicID),
		logger.Float64("percent", req.Percent))
	writeSuccess(w, nil)
}

// GetMusicsHandler lists the whole music library.
func (h *APIHandler) GetMusicsHandler(w http.ResponseWriter, r *http.Request) {
	musics, err := h.musicRepo.GetAllMusics()
	if err != nil {
		logger.Error("查询音乐列表失败", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "failed to load musics")
		return
	}
	writeSuccess(w, musics)
}
