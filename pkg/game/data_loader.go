package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/decker502/antpath/internal/pathdata"
	"github.com/decker502/antpath/pkg/embedded"
)

const (
	// EmbedPrefix 嵌入资源数据源前缀，例如 "embed:sample.csv"
	EmbedPrefix = "embed:"

	// maxDataSize 单个数据源的最大字节数
	maxDataSize = 64 << 20

	fetchTimeout = 30 * time.Second
)

// ErrDataTooLarge 数据源超过大小上限
var ErrDataTooLarge = errors.New("data source too large")

// LoadResult 一次加载请求的结果（在游戏循环中应用）
type LoadResult struct {
	Generation uint64
	Source     string
	Dataset    *pathdata.Dataset
	Err        error
}

// DataLoader 在后台 goroutine 中读取并解析路径数据
//
// 每个请求带一个递增的代号；新请求会取消旧请求，旧请求的结果在 Poll 时被丢弃。
// Poll 只能在游戏循环（Update）中调用。
type DataLoader struct {
	client  *http.Client
	results chan LoadResult

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// NewDataLoader 创建加载器
func NewDataLoader() *DataLoader {
	return &DataLoader{
		client:  &http.Client{Timeout: fetchTimeout},
		results: make(chan LoadResult, 4),
	}
}

// Load 异步加载数据源（文件路径、http(s) URL 或 embed: 前缀）
//
// 返回：
//   - uint64: 本次请求的代号
func (l *DataLoader) Load(source string) uint64 {
	return l.start(source, func(ctx context.Context) ([]byte, error) {
		return l.read(ctx, source)
	})
}

// LoadFS 异步加载拖放到窗口的文件（取文件系统中第一个常规文件，优先 .csv）
func (l *DataLoader) LoadFS(fsys fs.FS) uint64 {
	return l.start("dropped file", func(ctx context.Context) ([]byte, error) {
		name, err := firstDataFile(fsys)
		if err != nil {
			return nil, err
		}
		log.Printf("[DataLoader] Reading dropped file %s", name)
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open dropped file: %w", err)
		}
		defer f.Close()
		return readLimited(f)
	})
}

// Generation 最新请求的代号
func (l *DataLoader) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

// Poll 取出一个最新请求的结果（非阻塞），过期结果被丢弃
func (l *DataLoader) Poll() (LoadResult, bool) {
	for {
		select {
		case res := <-l.results:
			if res.Generation != l.Generation() {
				log.Printf("[DataLoader] Discarding stale result #%d from %s", res.Generation, res.Source)
				continue
			}
			return res, true
		default:
			return LoadResult{}, false
		}
	}
}

// Invalidate 取消进行中的请求并推进代号
//
// 场景同步替换数据（例如直接显示示例数据）前调用，之前发出的请求结果都会被 Poll 丢弃。
func (l *DataLoader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.generation++
	log.Printf("[DataLoader] Invalidated pending requests (now #%d)", l.generation)
}

// Close 取消进行中的请求
func (l *DataLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

func (l *DataLoader) start(source string, read func(ctx context.Context) ([]byte, error)) uint64 {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	gen := l.generation
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.mu.Unlock()

	log.Printf("[DataLoader] Request #%d: %s", gen, source)

	go func() {
		res := LoadResult{Generation: gen, Source: source}
		data, err := read(ctx)
		if err == nil {
			res.Dataset, err = pathdata.Parse(data)
		}
		if err != nil {
			res.Err = fmt.Errorf("load %s: %w", source, err)
		}

		select {
		case l.results <- res:
		case <-ctx.Done():
		}
	}()
	return gen
}

func (l *DataLoader) read(ctx context.Context, source string) ([]byte, error) {
	switch {
	case strings.HasPrefix(source, EmbedPrefix):
		name := strings.TrimPrefix(source, EmbedPrefix)
		if name == "" {
			name = "sample.csv"
		}
		return embedded.ReadFile(path.Join("data", name))
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return l.fetch(ctx, source)
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readLimited(f)
	}
}

func (l *DataLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return readLimited(resp.Body)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDataSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxDataSize {
		return nil, ErrDataTooLarge
	}
	return data, nil
}

// firstDataFile 按字典序查找第一个 .csv 文件，没有则取第一个常规文件
func firstDataFile(fsys fs.FS) (string, error) {
	var first, csv string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if first == "" {
			first = p
		}
		if csv == "" && strings.EqualFold(path.Ext(p), ".csv") {
			csv = p
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan dropped files: %w", err)
	}
	switch {
	case csv != "":
		return csv, nil
	case first != "":
		return first, nil
	default:
		return "", errors.New("no file dropped")
	}
}
