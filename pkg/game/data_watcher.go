package game

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce 编辑器保存时常常连续触发多次写事件，合并成一次
const watchDebounce = 200 * time.Millisecond

// DataWatcher 监视本地数据文件，文件写入后发出重新加载信号
//
// 监视的是文件所在目录，这样编辑器用"写临时文件再改名"的方式保存也能被捕获。
type DataWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	changes chan struct{}
	done    chan struct{}
}

// NewDataWatcher 开始监视 path
func NewDataWatcher(path string) (*DataWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	dw := &DataWatcher{
		watcher: w,
		path:    abs,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go dw.run()

	log.Printf("[DataWatcher] Watching %s", abs)
	return dw, nil
}

// Changed 文件是否在上次调用后发生过变化（非阻塞，在游戏循环中调用）
func (dw *DataWatcher) Changed() bool {
	select {
	case <-dw.changes:
		return true
	default:
		return false
	}
}

// Close 停止监视
func (dw *DataWatcher) Close() error {
	select {
	case <-dw.done:
		return nil
	default:
	}
	close(dw.done)
	return dw.watcher.Close()
}

func (dw *DataWatcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-dw.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != dw.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			log.Printf("[DataWatcher] %s changed", filepath.Base(dw.path))
			select {
			case dw.changes <- struct{}{}:
			default:
			}
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[DataWatcher] Warning: %v", err)
		}
	}
}
