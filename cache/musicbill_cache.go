package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"MeloFM/db"
	"MeloFM/logger"
	"MeloFM/model"

	"github.com/redis/go-redis/v9"
)

// 公开歌单响应缓存的过期时间
const publicMusicbillTTL = 5 * time.Minute

func publicMusicbillKey(id string) string {
	return fmt.Sprintf("musicbill:public:%s", id)
}

// GetPublicMusicbill 读取公开歌单缓存，未命中返回 nil, nil
func GetPublicMusicbill(ctx context.Context, id string) (*model.PublicMusicbill, error) {
	if db.RedisClient == nil {
		return nil, nil
	}

	data, err := db.RedisClient.Get(ctx, publicMusicbillKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		// 缓存故障不阻塞请求，调用方回退到数据库
		logger.Warn("读取歌单缓存失败",
			logger.String("musicbillId", id),
			logger.ErrorField(err))
		return nil, nil
	}

	var musicbill model.PublicMusicbill
	if err := json.Unmarshal(data, &musicbill); err != nil {
		return nil, fmt.Errorf("failed to decode cached musicbill %s: %w", id, err)
	}
	return &musicbill, nil
}

// SetPublicMusicbill 写入公开歌单缓存
func SetPublicMusicbill(ctx context.Context, musicbill *model.PublicMusicbill) error {
	if db.RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(musicbill)
	if err != nil {
		return fmt.Errorf("failed to encode musicbill %s: %w", musicbill.ID, err)
	}

	if err := db.RedisClient.Set(ctx, publicMusicbillKey(musicbill.ID), data, publicMusicbillTTL).Err(); err != nil {
		logger.Warn("写入歌单缓存失败",
			logger.String("musicbillId", musicbill.ID),
			logger.ErrorField(err))
		return err
	}
	return nil
}

// DeletePublicMusicbill 删除公开歌单缓存
func DeletePublicMusicbill(ctx context.Context, id string) error {
	if db.RedisClient == nil {
		return nil
	}
	return db.RedisClient.Del(ctx, publicMusicbillKey(id)).Err()
}
