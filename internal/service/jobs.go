package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// 任务名称常量（API路径参数与调度器共用）
const (
	JobIngestAssociate = "ingest-associate" // 抓取+分类
	JobProcessFeeds    = "process-feeds"    // 全量成稿
	JobArchive         = "archive"          // 每日归档
	JobDaily           = "daily"            // 每日全量：归档→抓取→分类→成稿
	JobHourly          = "hourly"           // 每小时增量：抓取→分类→成稿
)

// ErrJobRunning 同名任务仍在运行，本次触发被跳过
var ErrJobRunning = fmt.Errorf("同名任务仍在运行")

// ErrJobUnknown 未定义的任务名
var ErrJobUnknown = fmt.Errorf("未定义的任务名")

// JobHandle 异步任务的触发回执
type JobHandle struct {
	JobID     string    `json:"job_id"`     // 本次运行的唯一ID
	Job       string    `json:"job"`        // 任务名
	StartedAt time.Time `json:"started_at"` // 触发时间
}

// JobRunner 组合各service为可独立触发的命名任务，异步执行、立即返回回执。
// 成功/失败只通过日志体现，触发方不等待结果。同名任务运行期间再次触发会被跳过，
// 正确性本身不依赖该保护（依赖存储层事务与文章乐观锁），它只用来避免无谓的重复劳动。
type JobRunner struct {
	ingest     *IngestService
	classify   *ClassifyService
	synthesize *SynthesizeService
	archive    *ArchiveService
	logger     *logrus.Logger

	mu      sync.Mutex
	running map[string]bool
}

func NewJobRunner(ingest *IngestService, classify *ClassifyService, synthesize *SynthesizeService, archive *ArchiveService, logger *logrus.Logger) *JobRunner {
	return &JobRunner{
		ingest:     ingest,
		classify:   classify,
		synthesize: synthesize,
		archive:    archive,
		logger:     logger,
		running:    make(map[string]bool),
	}
}

// RunAsync 异步触发命名任务，立即返回回执。
// 未定义的任务名返回ErrJobUnknown，同名任务运行中返回ErrJobRunning。
func (r *JobRunner) RunAsync(name string) (*JobHandle, error) {
	job, err := r.lookup(name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	if r.running[name] {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrJobRunning, name)
	}
	r.running[name] = true
	r.mu.Unlock()

	handle := &JobHandle{
		JobID:     uuid.NewString(),
		Job:       name,
		StartedAt: time.Now(),
	}

	go func() {
		defer func() {
			r.mu.Lock()
			r.running[name] = false
			r.mu.Unlock()
		}()

		start := time.Now()
		r.logger.Infof("任务%s开始, job_id: %s", name, handle.JobID)
		if err := job(context.Background()); err != nil {
			r.logger.WithError(err).Errorf("任务%s失败, job_id: %s", name, handle.JobID)
			return
		}
		r.logger.Infof("任务%s完成, job_id: %s, 耗时: %s", name, handle.JobID, time.Since(start))
	}()

	return handle, nil
}

// lookup 任务名到执行函数的映射
func (r *JobRunner) lookup(name string) (func(context.Context) error, error) {
	switch name {
	case JobIngestAssociate:
		return r.runIngestAssociate, nil
	case JobProcessFeeds:
		return r.runProcessFeeds, nil
	case JobArchive:
		return r.runArchive, nil
	case JobDaily:
		return r.runDaily, nil
	case JobHourly:
		return r.runHourly, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrJobUnknown, name)
	}
}

func (r *JobRunner) runIngestAssociate(ctx context.Context) error {
	if _, err := r.ingest.IngestAll(ctx); err != nil {
		return err
	}
	_, err := r.classify.ClassifyAll(ctx)
	return err
}

func (r *JobRunner) runProcessFeeds(ctx context.Context) error {
	return r.synthesize.ProcessAllTeams(ctx)
}

func (r *JobRunner) runArchive(ctx context.Context) error {
	return r.archive.ArchiveAll(ctx)
}

// runDaily 每日全量：先归档昨日文章，再抓取、分类、全量成稿。
// 归档失败直接终止（不允许在未归档的旧文章上继续追加今天的内容）。
func (r *JobRunner) runDaily(ctx context.Context) error {
	if err := r.archive.ArchiveAll(ctx); err != nil {
		return err
	}
	if err := r.runIngestAssociate(ctx); err != nil {
		return err
	}
	return r.synthesize.ProcessAllTeams(ctx)
}

// runHourly 每小时增量：抓取、分类、成稿，不归档
func (r *JobRunner) runHourly(ctx context.Context) error {
	if err := r.runIngestAssociate(ctx); err != nil {
		return err
	}
	return r.synthesize.ProcessAllTeams(ctx)
}
