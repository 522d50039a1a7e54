package driver

import "time"

// FileStatus is the progress state of one file in a multi-file scan.
type FileStatus int

const (
	FileQueued FileStatus = iota
	FileLoading
	FileScanning
	FileDone
	FileFailed
)

func (s FileStatus) String() string {
	switch s {
	case FileQueued:
		return "queued"
	case FileLoading:
		return "loading"
	case FileScanning:
		return "scanning"
	case FileDone:
		return "done"
	case FileFailed:
		return "failed"
	}
	return "unknown"
}

// Event describes a status change of one file.
type Event struct {
	Path    string
	Status  FileStatus
	Issues  int
	Cached  bool
	Elapsed time.Duration
}

// ProgressSink receives events from concurrent workers.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- ev
}

// SinkFunc adapts a func to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) {
	if f != nil {
		f(ev)
	}
}
