package job

import (
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/logger"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/pkg/util"
	"Wellspring/internal/repository"
	"context"
	log "log/slog"
	"strconv"

	"github.com/google/uuid"
)

// CounterFlushJob 将 Redis 中的点赞/浏览增量批量刷回 MySQL
type CounterFlushJob struct {
	postRepo repository.PostRepo
}

func NewCounterFlushJob(postRepo repository.PostRepo) *CounterFlushJob {
	return &CounterFlushJob{postRepo: postRepo}
}

func (s *CounterFlushJob) Run() {
	traceID := "job-counter-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 先把脏集合改名，避免与正在写入的增量互相干扰
	processingKey := consts.PostDirtyKey + ":processing"
	if err := redis.Rename(ctx, consts.PostDirtyKey, processingKey); err != nil {
		return
	}

	members, err := redis.SMembers(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get post dirty set error", "err", err)
		return
	}

	postIDs, err := util.StrSliceToUInt64Slice(members)
	if err != nil {
		log.ErrorContext(ctx, "convert post dirty set error", "err", err)
		return
	}

	flushed := 0
	for _, pid := range postIDs {
		idStr := strconv.FormatUint(pid, 10)

		likeDelta, err := redis.GetDelInt64(ctx, consts.PostLikeKey+idStr)
		if err != nil {
			log.ErrorContext(ctx, "read like delta error", "pid", pid, "err", err)
			continue
		}
		viewDelta, err := redis.GetDelInt64(ctx, consts.PostViewKey+idStr)
		if err != nil {
			log.ErrorContext(ctx, "read view delta error", "pid", pid, "err", err)
			continue
		}
		if likeDelta == 0 && viewDelta == 0 {
			continue
		}

		err = s.postRepo.UpdateCounters(ctx, pid, map[string]int64{
			"like_count": likeDelta,
			"view_count": viewDelta,
		})
		if err != nil {
			// 写库失败则把增量放回去，等下一轮重试
			log.ErrorContext(ctx, "flush post counters error", "pid", pid, "err", err)
			_, _ = redis.IncrBy(ctx, consts.PostLikeKey+idStr, likeDelta)
			_, _ = redis.IncrBy(ctx, consts.PostViewKey+idStr, viewDelta)
			_ = redis.SAdd(ctx, consts.PostDirtyKey, pid)
			continue
		}
		flushed++
	}

	_ = redis.DeleteKey(ctx, processingKey)

	if flushed > 0 {
		log.InfoContext(ctx, "post counter flush finished", "flushed", flushed, "total", len(postIDs))
	}
}
