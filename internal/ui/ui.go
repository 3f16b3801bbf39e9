package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tempo/internal/models"
	"github.com/desertthunder/tempo/internal/playback"
	"github.com/desertthunder/tempo/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongsView ViewState = iota
	PlaylistsView
	PlaylistSongsView
	LikedView
	QueueView
)

func (v ViewState) String() string {
	switch v {
	case SongsView:
		return "Songs"
	case PlaylistsView, PlaylistSongsView:
		return "Playlists"
	case LikedView:
		return "Liked"
	case QueueView:
		return "Queue"
	default:
		return ""
	}
}

// tabs is the order tab cycles through.
var tabs = []ViewState{SongsView, PlaylistsView, LikedView, QueueView}

const (
	// DefaultTick is the player clock resolution.
	DefaultTick = 250 * time.Millisecond
	seekStep    = 5.0
	volumeStep  = 0.1
	chromeLines = 9
)

// Library is what the player reads and edits, bound to one user. Both the
// in-process library and the HTTP client satisfy it.
type Library interface {
	playback.Library
	Songs(ctx context.Context) ([]models.Song, error)
	PlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error)
}

// Opts configures [NewModel]. Zero values select defaults.
type Opts struct {
	Logger      *log.Logger
	HistorySize int
	Volume      float64
	Tick        time.Duration
}

// Model represents the player state.
type Model struct {
	ctx     context.Context
	lib     Library
	session *playback.Session
	logger  *log.Logger

	view   ViewState
	width  int
	height int

	songs        []models.Song
	liked        []models.Song
	openPlaylist models.Playlist

	songList         list.Model
	playlistList     list.Model
	playlistSongList list.Model
	likedList        list.Model
	queueList        list.Model

	// adding is the song waiting for a playlist pick in PlaylistsView.
	adding     *models.Song
	returnView ViewState
	naming     bool
	prompt     textinput.Model

	status   string
	err      error
	tick     time.Duration
	lastTick time.Time
	help     help.Model
	keys     keyMap
}

// NewModel creates a player over lib. Call [Model.Load] before running it.
func NewModel(ctx context.Context, lib Library, opts Opts) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}

	session := playback.NewSession(playback.SessionOpts{
		Library:     lib,
		Logger:      logger,
		HistorySize: opts.HistorySize,
	})
	if opts.Volume > 0 {
		session.SetVolume(opts.Volume)
	}

	m := &Model{
		ctx:     ctx,
		lib:     lib,
		session: session,
		logger:  shared.WithLogger(logger, "component", "ui"),
		view:    SongsView,
		tick:    opts.Tick,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.songList = newList("Songs", nil, 0, 0)
	m.playlistList = newList("Playlists", nil, 0, 0)
	m.playlistSongList = newList("Playlist", nil, 0, 0)
	m.likedList = newList(models.LikedCollectionName, nil, 0, 0)
	m.queueList = newList("Queue", nil, 0, 0)
	m.prompt = textinput.New()
	m.prompt.Prompt = "New playlist: "
	m.prompt.Placeholder = "name"
	m.prompt.CharLimit = 100
	return m
}

// Session exposes the playback session.
func (m *Model) Session() *playback.Session { return m.session }

// ViewState returns the active view.
func (m *Model) ViewState() ViewState { return m.view }

// Status returns the last status line.
func (m *Model) Status() string { return m.status }

// Load fetches the catalog, playlists and likes.
func (m *Model) Load(ctx context.Context) error {
	songs, err := m.lib.Songs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load songs: %w", err)
	}
	if err := m.session.Load(ctx); err != nil {
		return err
	}
	liked, err := m.lib.LikedSongs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load liked songs: %w", err)
	}

	m.songs = songs
	m.liked = liked
	m.refreshLists()
	return nil
}

// Run loads the library and runs the player until the user quits.
func Run(ctx context.Context, lib Library, opts Opts) error {
	m := NewModel(ctx, lib, opts)
	if err := m.Load(ctx); err != nil {
		return err
	}

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init starts the clock.
func (m *Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.naming {
			return m.handlePrompt(msg)
		}
		if m.filtering() {
			return m.updateActive(msg)
		}
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateActive(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgTick:
		now := msg.data.(time.Time)
		if !m.lastTick.IsZero() && m.session.Tick(now.Sub(m.lastTick)) {
			m.refreshQueue()
		}
		m.lastTick = now
		return m, m.tickCmd()

	case MsgSongsFetched:
		data := msg.data.(songsFetched)
		if data.err != nil {
			m.setError("failed to load songs", data.err)
			return m, nil
		}
		m.songs = data.songs
		m.status = ""
		m.refreshLists()
		return m, nil

	case MsgPlaylistSongsFetched:
		data := msg.data.(playlistSongsFetched)
		if data.err != nil {
			m.setError("failed to open playlist", data.err)
			return m, nil
		}
		m.openPlaylist = data.playlist
		m.openPlaylist.Songs = data.songs
		m.playlistSongList.Title = data.playlist.Name
		m.playlistSongList.SetItems(songItems(data.songs, m.session.IsLiked))
		m.view = PlaylistSongsView
		return m, nil

	case MsgLikedFetched:
		data := msg.data.(songsFetched)
		if data.err != nil {
			m.setError("failed to load liked songs", data.err)
			return m, nil
		}
		m.liked = data.songs
		m.likedList.SetItems(songItems(m.liked, m.session.IsLiked))
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.tab):
		m.adding = nil
		m.view = nextTab(m.view)
		return m, nil

	case key.Matches(msg, m.keys.back):
		if m.adding != nil {
			m.adding = nil
			m.view = m.returnView
			m.status = ""
			return m, nil
		}
		if m.view == PlaylistSongsView {
			m.view = PlaylistsView
		}
		return m, nil

	case key.Matches(msg, m.keys.enter):
		return m, m.enter()

	case key.Matches(msg, m.keys.toggle):
		m.session.TogglePlay()
		return m, nil

	case key.Matches(msg, m.keys.next):
		if !m.session.Next() {
			m.status = "Queue is empty"
		}
		m.refreshQueue()
		return m, nil

	case key.Matches(msg, m.keys.previous):
		m.session.Previous()
		return m, nil

	case key.Matches(msg, m.keys.seekBack):
		m.session.SeekBy(-seekStep)
		return m, nil

	case key.Matches(msg, m.keys.seekFwd):
		m.session.SeekBy(seekStep)
		return m, nil

	case key.Matches(msg, m.keys.volUp):
		m.session.SetVolume(m.session.Volume() + volumeStep)
		return m, nil

	case key.Matches(msg, m.keys.volDown):
		m.session.SetVolume(m.session.Volume() - volumeStep)
		return m, nil

	case key.Matches(msg, m.keys.like):
		return m, m.like()

	case key.Matches(msg, m.keys.enqueue):
		if song, ok := m.selectedSong(); ok {
			m.session.Enqueue(song)
			m.refreshQueue()
			m.status = fmt.Sprintf("Queued %s", song.Title)
		}
		return m, nil

	case key.Matches(msg, m.keys.refresh):
		m.status = "Refreshing..."
		return m, tea.Batch(m.fetchSongs(), m.fetchLiked())

	case key.Matches(msg, m.keys.clear):
		m.session.ClearQueue()
		m.refreshQueue()
		m.status = "Queue cleared"
		return m, nil

	case key.Matches(msg, m.keys.addTo):
		m.pickPlaylist()
		return m, nil

	case key.Matches(msg, m.keys.remove):
		m.removeFromPlaylist()
		return m, nil

	case key.Matches(msg, m.keys.create):
		m.naming = true
		m.prompt.Reset()
		return m, m.prompt.Focus()
	}

	return m.updateActive(msg)
}

// enter opens the selected playlist or plays the selected song with its
// list as context.
func (m *Model) enter() tea.Cmd {
	if m.view == PlaylistsView {
		item, ok := m.playlistList.SelectedItem().(playlistItem)
		if !ok {
			return nil
		}
		if m.adding != nil {
			m.addToPlaylist(item.playlist)
			return nil
		}
		return m.fetchPlaylistSongs(item.playlist)
	}

	song, ok := m.selectedSong()
	if !ok {
		return nil
	}
	m.session.Play(song, m.contextSongs())
	m.refreshQueue()
	m.status = fmt.Sprintf("Playing %s", song.Title)
	return nil
}

// like toggles the selected song, or the current song when nothing is selected.
func (m *Model) like() tea.Cmd {
	song, ok := m.selectedSong()
	if !ok {
		current := m.session.Current()
		if current == nil {
			return nil
		}
		song = *current
	}

	liked, err := m.session.ToggleLike(m.ctx, song.ID)
	if err != nil {
		m.setError("failed to update like", err)
		return nil
	}

	if liked {
		m.status = fmt.Sprintf("Liked %s", song.Title)
	} else {
		m.status = fmt.Sprintf("Removed %s from liked songs", song.Title)
	}
	m.refreshMarkers()
	return m.fetchLiked()
}

// pickPlaylist switches to the playlists tab so enter adds the selected song,
// or the current one, to the highlighted playlist.
func (m *Model) pickPlaylist() {
	song, ok := m.selectedSong()
	if !ok {
		current := m.session.Current()
		if current == nil {
			return
		}
		song = *current
	}

	m.adding = &song
	m.returnView = m.view
	m.view = PlaylistsView
	m.err = nil
	m.status = fmt.Sprintf("Add %s to which playlist? enter to add, esc to cancel", song.Title)
}

func (m *Model) addToPlaylist(p models.Playlist) {
	song := *m.adding
	m.adding = nil
	m.view = m.returnView

	if err := m.session.AddToPlaylist(m.ctx, p.ID, song); err != nil {
		m.refreshPlaylists()
		m.setError("failed to add to playlist", err)
		return
	}
	m.refreshPlaylists()
	m.err = nil
	m.status = fmt.Sprintf("Added %s to %s", song.Title, p.Name)
}

// removeFromPlaylist drops the selected song from the open playlist.
func (m *Model) removeFromPlaylist() {
	if m.view != PlaylistSongsView {
		return
	}
	song, ok := m.selectedSong()
	if !ok {
		return
	}

	if err := m.session.RemoveFromPlaylist(m.ctx, m.openPlaylist.ID, song.ID); err != nil {
		m.refreshPlaylists()
		m.setError("failed to remove from playlist", err)
		return
	}
	m.refreshPlaylists()
	m.err = nil
	m.status = fmt.Sprintf("Removed %s from %s", song.Title, m.openPlaylist.Name)
}

// handlePrompt feeds keys to the playlist name prompt until enter or esc.
func (m *Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.naming = false
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		m.naming = false
		m.prompt.Blur()
		m.createPlaylist(strings.TrimSpace(m.prompt.Value()))
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) createPlaylist(name string) {
	if name == "" {
		m.err = nil
		m.status = "Playlist name is required"
		return
	}

	p, err := m.session.CreatePlaylist(m.ctx, name)
	if err != nil {
		m.refreshPlaylists()
		m.setError("failed to create playlist", err)
		return
	}
	m.refreshPlaylists()
	m.err = nil
	m.status = fmt.Sprintf("Created playlist %s", p.Name)
}

func (m *Model) setError(msg string, err error) {
	m.err = err
	m.status = fmt.Sprintf("%s: %v", msg, err)
	m.logger.Error(msg, "err", err)
}

// active returns the list shown in the current view.
func (m *Model) active() *list.Model {
	switch m.view {
	case PlaylistsView:
		return &m.playlistList
	case PlaylistSongsView:
		return &m.playlistSongList
	case LikedView:
		return &m.likedList
	case QueueView:
		return &m.queueList
	default:
		return &m.songList
	}
}

func (m *Model) filtering() bool {
	return m.active().FilterState() == list.Filtering
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	l := m.active()
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m *Model) selectedSong() (models.Song, bool) {
	if m.view == PlaylistsView {
		return models.Song{}, false
	}
	item, ok := m.active().SelectedItem().(songItem)
	if !ok {
		return models.Song{}, false
	}
	return item.song, true
}

// contextSongs is the song list the current view plays from.
func (m *Model) contextSongs() []models.Song {
	switch m.view {
	case PlaylistSongsView:
		return m.openPlaylist.Songs
	case LikedView:
		return m.liked
	case QueueView:
		return m.session.Queue()
	default:
		return m.songs
	}
}

func (m *Model) refreshLists() {
	m.songList.SetItems(songItems(m.songs, m.session.IsLiked))
	m.playlistList.SetItems(playlistItems(m.session.Playlists()))
	m.likedList.SetItems(songItems(m.liked, m.session.IsLiked))
	m.refreshQueue()
}

// refreshPlaylists redraws the playlists tab and the open playlist from the
// session's view.
func (m *Model) refreshPlaylists() {
	m.playlistList.SetItems(playlistItems(m.session.Playlists()))
	if m.openPlaylist.ID == 0 {
		return
	}
	if p, ok := m.session.Playlist(m.openPlaylist.ID); ok {
		m.openPlaylist.Songs = p.Songs
		m.playlistSongList.SetItems(songItems(p.Songs, m.session.IsLiked))
	}
}

func (m *Model) refreshMarkers() {
	m.songList.SetItems(songItems(m.songs, m.session.IsLiked))
	if m.openPlaylist.ID != 0 {
		m.playlistSongList.SetItems(songItems(m.openPlaylist.Songs, m.session.IsLiked))
	}
	m.refreshQueue()
}

func (m *Model) refreshQueue() {
	m.queueList.SetItems(songItems(m.session.Queue(), m.session.IsLiked))
}

func (m *Model) resize() {
	w, h := m.width-4, m.height-chromeLines
	if h < 3 {
		h = 3
	}
	for _, l := range []*list.Model{&m.songList, &m.playlistList, &m.playlistSongList, &m.likedList, &m.queueList} {
		l.SetSize(w, h)
	}
}

func nextTab(v ViewState) ViewState {
	if v == PlaylistSongsView {
		v = PlaylistsView
	}
	for i, t := range tabs {
		if t == v {
			return tabs[(i+1)%len(tabs)]
		}
	}
	return SongsView
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) fetchSongs() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.lib.Songs(m.ctx)
		return songsFetchedMsg(songs, err)
	}
}

func (m *Model) fetchPlaylistSongs(p models.Playlist) tea.Cmd {
	return func() tea.Msg {
		songs, err := m.lib.PlaylistSongs(m.ctx, p.ID)
		return playlistSongsFetchedMsg(p, songs, err)
	}
}

func (m *Model) fetchLiked() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.lib.LikedSongs(m.ctx)
		return likedFetchedMsg(songs, err)
	}
}

// View renders the tabs, the active list, the now-playing bar and help.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.active().View())
	b.WriteString("\n")
	b.WriteString(m.renderNowPlaying())
	b.WriteString("\n")

	if m.naming {
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
	}

	if m.status != "" {
		if m.err != nil {
			b.WriteString(styles.err.Render(m.status))
		} else {
			b.WriteString(styles.ok.Render(m.status))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderTabs() string {
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if t.String() == m.view.String() {
			parts[i] = styles.active.Render(t.String())
		} else {
			parts[i] = styles.tab.Render(t.String())
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderNowPlaying() string {
	snap := m.session.Snapshot()
	if snap.CurrentSong == nil {
		return styles.playing.Render(styles.help.Render("Nothing playing"))
	}

	icon := "⏸"
	if snap.IsPlaying {
		icon = "▶"
	}
	heart := ""
	if m.session.IsLiked(snap.CurrentSong.ID) {
		heart = " ♥"
	}

	line := fmt.Sprintf("%s %s - %s%s", icon, snap.CurrentSong.Title, snap.CurrentSong.Artist, heart)
	clock := fmt.Sprintf("%s / %s", shared.FormatDuration(int(snap.Progress)), shared.FormatDuration(int(snap.Duration)))
	vol := fmt.Sprintf("vol %d%%  queue %d", int(snap.Volume*100+0.5), len(snap.Queue))

	return styles.playing.Render(fmt.Sprintf("%s\n%s %s  %s", line, progressBar(snap.Progress, snap.Duration, 30), clock, vol))
}

// progressBar draws a fixed-width bar for progress out of duration.
func progressBar(progress, duration float64, width int) string {
	filled := 0
	if duration > 0 {
		filled = int(progress / duration * float64(width))
	}
	filled = max(0, min(width, filled))
	return styles.bar.Render(strings.Repeat("━", filled)) + styles.help.Render(strings.Repeat("─", width-filled))
}
