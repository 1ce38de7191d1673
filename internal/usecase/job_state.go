package usecase

import (
	"sort"
	"sync"
	"sync/atomic"
)

type JobName string

const (
	JobSyncLive        JobName = "sync-live"
	JobSyncToday       JobName = "sync-today"
	JobGradePending    JobName = "grade-pending"
	JobFixStuck        JobName = "fix-stuck"
	JobReloadBlacklist JobName = "reload-blacklist"
)

func AllJobs() []JobName {
	return []JobName{JobSyncLive, JobSyncToday, JobGradePending, JobFixStuck, JobReloadBlacklist}
}

func ParseJobName(v string) (JobName, bool) {
	for _, name := range AllJobs() {
		if string(name) == v {
			return name, true
		}
	}
	return "", false
}

const (
	jobIdle int32 = iota
	jobRunning
)

// JobState tracks whether each job is running. A job that is already running
// cannot be started again until it finishes.
type JobState struct {
	mu     sync.Mutex
	states map[JobName]*atomic.Int32
}

func NewJobState() *JobState {
	return &JobState{states: make(map[JobName]*atomic.Int32)}
}

func (s *JobState) slot(name JobName) *atomic.Int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.states[name]
	if !ok {
		v = &atomic.Int32{}
		s.states[name] = v
	}
	return v
}

// TryStart marks the job running and reports false when it already was.
func (s *JobState) TryStart(name JobName) bool {
	return s.slot(name).CompareAndSwap(jobIdle, jobRunning)
}

func (s *JobState) Finish(name JobName) {
	s.slot(name).Store(jobIdle)
}

func (s *JobState) Running(name JobName) bool {
	return s.slot(name).Load() == jobRunning
}

type JobStatus struct {
	Job     JobName `json:"job"`
	Running bool    `json:"running"`
}

func (s *JobState) Snapshot() []JobStatus {
	out := make([]JobStatus, 0, len(AllJobs()))
	for _, name := range AllJobs() {
		out = append(out, JobStatus{Job: name, Running: s.Running(name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Job < out[j].Job })
	return out
}
