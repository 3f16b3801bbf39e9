package playback

import (
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/shared"
)

const (
	// DefaultVolume is the volume of a new session.
	DefaultVolume = 0.7
	// DefaultHistorySize caps recently played songs.
	DefaultHistorySize = 6
	// RestartThreshold is how far into a song, in seconds, Previous restarts it instead of going back.
	RestartThreshold = 3.0
)

// State is the coarse playback state.
type State int

const (
	// Idle has no current song.
	Idle State = iota
	// Paused has a current song and a stopped clock.
	Paused
	// Playing has a current song and a running clock.
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Paused:
		return "paused"
	case Playing:
		return "playing"
	default:
		return "unknown"
	}
}

// SessionOpts configures a [Session]. Zero values select defaults.
type SessionOpts struct {
	Library     Library
	Logger      *log.Logger
	HistorySize int
}

// Session is the playback state machine.
type Session struct {
	current  *models.Song
	playing  bool
	queue    []models.Song
	progress float64
	duration float64
	volume   float64
	recent   []models.Song

	historySize int
	lib         Library
	logger      *log.Logger

	playlists []models.Playlist
	liked     map[int64]bool
	nextTemp  int64
}

// NewSession creates an Idle session.
func NewSession(opts SessionOpts) *Session {
	size := opts.HistorySize
	if size <= 0 {
		size = DefaultHistorySize
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Session{
		volume:      DefaultVolume,
		historySize: size,
		lib:         opts.Library,
		logger:      shared.WithLogger(logger, "component", "playback"),
		liked:       make(map[int64]bool),
	}
}

// State reports Idle, Paused or Playing.
func (s *Session) State() State {
	switch {
	case s.current == nil:
		return Idle
	case s.playing:
		return Playing
	default:
		return Paused
	}
}

// Current returns the current song, or nil when idle.
func (s *Session) Current() *models.Song {
	if s.current == nil {
		return nil
	}
	song := *s.current
	return &song
}

func (s *Session) IsPlaying() bool   { return s.playing }
func (s *Session) Progress() float64 { return s.progress }
func (s *Session) Duration() float64 { return s.duration }
func (s *Session) Volume() float64   { return s.volume }

// Queue returns a copy of the upcoming songs.
func (s *Session) Queue() []models.Song {
	return append([]models.Song{}, s.queue...)
}

// RecentlyPlayed returns a copy of the history, most recent first.
func (s *Session) RecentlyPlayed() []models.Song {
	return append([]models.Song{}, s.recent...)
}

// Play makes song current and starts playing it.
//
// Progress resets unless song is already current. When context holds song
// followed by more songs, the queue becomes the songs after it; otherwise the
// queue is left alone. Copies of song at the queue head are dropped.
func (s *Session) Play(song models.Song, context []models.Song) {
	if s.current == nil || s.current.ID != song.ID {
		s.progress = 0
	}

	for i, c := range context {
		if c.ID == song.ID {
			if i < len(context)-1 {
				s.queue = append([]models.Song{}, context[i+1:]...)
			}
			break
		}
	}

	s.setCurrent(song)
	s.playing = true
	s.pushRecent(song)
}

// Pause stops the clock. It does nothing unless playing.
func (s *Session) Pause() {
	s.playing = false
}

// Resume restarts the clock. It does nothing without a current song.
func (s *Session) Resume() {
	if s.current == nil {
		return
	}
	s.playing = true
}

// TogglePlay pauses when playing and resumes otherwise.
func (s *Session) TogglePlay() {
	if s.playing {
		s.Pause()
		return
	}
	s.Resume()
}

// Next plays the head of the queue from the start and records it in history.
// Further copies of that song at the head are dropped. It returns false,
// changing nothing, when the queue is empty.
func (s *Session) Next() bool {
	if len(s.queue) == 0 {
		return false
	}

	song := s.queue[0]
	s.queue = s.queue[1:]
	s.setCurrent(song)
	s.progress = 0
	s.playing = true
	s.pushRecent(song)
	return true
}

// Previous restarts the current song when more than [RestartThreshold]
// seconds in. Otherwise it switches to the second most recent song, leaving
// history as it is and the abandoned song out of the queue. A queue head
// equal to the song switched to is dropped.
func (s *Session) Previous() {
	if s.current == nil {
		return
	}

	if s.progress > RestartThreshold || len(s.recent) < 2 {
		s.progress = 0
		return
	}

	s.setCurrent(s.recent[1])
	s.progress = 0
	s.playing = true
}

// Seek moves the clock to t seconds, clamped to [0, duration].
func (s *Session) Seek(t float64) {
	if s.current == nil || math.IsNaN(t) {
		return
	}
	s.progress = clamp(t, 0, s.duration)
}

// SeekBy moves the clock by delta seconds.
func (s *Session) SeekBy(delta float64) {
	s.Seek(s.progress + delta)
}

// SetVolume sets the volume clamped to [0, 1]. NaN is ignored.
func (s *Session) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.volume = clamp(v, 0, 1)
}

// Enqueue appends song to the queue.
func (s *Session) Enqueue(song models.Song) {
	s.queue = append(s.queue, song)
}

// ClearQueue empties the queue. The current song keeps playing.
func (s *Session) ClearQueue() {
	s.queue = nil
}

// EndOfTrack advances to the next song. Unlike [Session.Next], which changes
// nothing on an empty queue, it then stops the session paused at the start of
// the current song.
func (s *Session) EndOfTrack() {
	if s.current == nil {
		return
	}
	if s.Next() {
		return
	}
	s.playing = false
	s.progress = 0
}

// Tick advances the clock by delta while playing and reports whether the
// current song ended during the tick.
func (s *Session) Tick(delta time.Duration) bool {
	if !s.playing || s.current == nil || delta <= 0 {
		return false
	}

	s.progress += delta.Seconds()
	if s.progress < s.duration {
		return false
	}

	ended := s.current.ID
	s.progress = s.duration
	s.EndOfTrack()
	s.logger.Debug("track ended", "song", ended, "next", s.currentID())
	return true
}

// Snapshot is a copy of the session for rendering or encoding.
type Snapshot struct {
	State          string        `json:"state"`
	CurrentSong    *models.Song  `json:"currentSong"`
	IsPlaying      bool          `json:"isPlaying"`
	Queue          []models.Song `json:"queue"`
	Progress       float64       `json:"progress"`
	Duration       float64       `json:"duration"`
	Volume         float64       `json:"volume"`
	RecentlyPlayed []models.Song `json:"recentlyPlayed"`
}

// Snapshot copies the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		State:          s.State().String(),
		CurrentSong:    s.Current(),
		IsPlaying:      s.playing,
		Queue:          s.Queue(),
		Progress:       s.progress,
		Duration:       s.duration,
		Volume:         s.volume,
		RecentlyPlayed: s.RecentlyPlayed(),
	}
}

// setCurrent makes song current and drops its copies from the queue head,
// so the head never repeats the song that is playing.
func (s *Session) setCurrent(song models.Song) {
	s.current = &song
	s.duration = float64(song.Duration)
	for len(s.queue) > 0 && s.queue[0].ID == song.ID {
		s.queue = s.queue[1:]
	}
}

func (s *Session) currentID() int64 {
	if s.current == nil {
		return 0
	}
	return s.current.ID
}

// pushRecent moves song to the front of history, de-duplicated by id and capped.
func (s *Session) pushRecent(song models.Song) {
	recent := make([]models.Song, 0, s.historySize)
	recent = append(recent, song)
	for _, r := range s.recent {
		if len(recent) == s.historySize {
			break
		}
		if r.ID != song.ID {
			recent = append(recent, r)
		}
	}
	s.recent = recent
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
