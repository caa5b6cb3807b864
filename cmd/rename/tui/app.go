package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/rename/pkg/rename/executor"
	"github.com/jamesainslie/rename/pkg/rename/journal"
	"github.com/jamesainslie/rename/pkg/rename/logging"
	"github.com/jamesainslie/rename/pkg/rename/planner"
	"github.com/jamesainslie/rename/pkg/rename/types"
	"github.com/jamesainslie/rename/pkg/rename/watcher"
)

var logger = logging.Get("tui")

// AppState represents the current screen.
type AppState int

const (
	StatePlanning AppState = iota
	StatePlan
	StateEditBase
	StateConfirm
	StateRunning
	StateDone
)

// Options configures the TUI application.
type Options struct {
	Folder     string
	Naming     types.NamingConfig
	SkipHidden bool
	Workers    int

	// Journal records applied batches and provides the batch restored
	// for undo at startup. It may be nil.
	Journal *journal.Journal

	// JournalKeep prunes the journal after each recorded batch. Zero keeps
	// everything.
	JournalKeep int

	// NoWatch disables marking the preview stale on folder changes.
	NoWatch bool
}

// Model is the Bubble Tea model for the rename TUI.
type Model struct {
	state   AppState
	options Options
	naming  types.NamingConfig

	ctx       context.Context
	cancel    context.CancelFunc
	runCancel context.CancelFunc

	planner  *planner.Planner
	executor *executor.Executor
	sink     *progressSink

	// Planning state
	plan     *types.RenamePlan
	planErr  error
	planning bool
	planSeq  int
	list     planList

	// Base name editing
	baseInput  textinput.Model
	baseBefore string

	// Confirmation dialog state
	confirmUndo    bool
	confirmFocused int // 0 = cancel, 1 = proceed

	// Running state
	spinner    spinner.Model
	progress   progress.Model
	progressCh chan types.Progress
	current    types.Progress
	undoing    bool
	result     *types.ExecutionResult
	runErr     error

	// batchID is the journal batch matching the executor's undo log.
	batchID string

	watcher *watcher.Watcher
	stale   bool

	logs      *logPanel
	status    string
	statusErr bool

	width  int
	height int
}

// progressSink forwards executor progress to the channel of the running
// batch without blocking.
type progressSink struct {
	ch chan types.Progress
}

func (s *progressSink) send(p types.Progress) {
	if s.ch == nil {
		return
	}
	select {
	case s.ch <- p:
	default:
	}
}

// Messages.
type (
	planDoneMsg struct {
		seq     int
		plan    *types.RenamePlan
		err     error
		elapsed time.Duration
	}

	progressMsg types.Progress

	runDoneMsg struct {
		result  types.ExecutionResult
		err     error
		batchID string
	}

	staleMsg struct {
		watcher *watcher.Watcher
		event   watcher.Event
	}
)

// NewModel creates a model for opts. An empty base name defaults to the
// folder's name.
func NewModel(opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())

	naming := opts.Naming
	if naming.TrimmedBase() == "" {
		naming.BaseName = filepath.Base(opts.Folder)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	ti := textinput.New()
	ti.Prompt = "Base name: "
	ti.CharLimit = 255
	ti.SetValue(naming.BaseName)

	sink := &progressSink{}
	m := Model{
		state:     StatePlanning,
		planning:  true,
		options:   opts,
		naming:    naming,
		ctx:       ctx,
		cancel:    cancel,
		planner:   planner.New(planner.WithHidden(!opts.SkipHidden), planner.WithWorkers(opts.Workers)),
		executor:  executor.New(executor.WithProgress(sink.send)),
		sink:      sink,
		list:      newPlanList(opts.Folder, nil),
		baseInput: ti,
		spinner:   s,
		progress:  progress.New(progress.WithGradient(string(primaryColor), string(accentColor))),
		logs:      newLogPanel(),
		width:     80,
		height:    24,
	}
	m.restoreUndo()
	m.list.setHeight(m.listHeight())
	return m
}

// restoreUndo loads the latest unreverted journal batch for the folder into
// the executor so it can be undone from this session.
func (m *Model) restoreUndo() {
	if m.options.Journal == nil {
		return
	}
	b, err := m.options.Journal.Latest(m.options.Folder)
	switch {
	case errors.Is(err, journal.ErrNotFound):
		return
	case err != nil:
		logger.Warn("failed to read journal", "error", err)
		return
	}
	m.executor.SetUndoLog(b.Records)
	m.batchID = b.ID
	logger.Debug("restored undo log", "batch", b.ShortID(), "records", len(b.Records))
}

// Init starts the first plan and the log subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.buildPlan(m.planSeq),
		m.logs.listen(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-12, 10)
		m.list.setHeight(m.listHeight())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.planning && m.state != StateRunning && m.state != StatePlanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case planDoneMsg:
		return m.handlePlanDone(msg)

	case progressMsg:
		m.current = types.Progress(msg)
		var cmd tea.Cmd
		if m.current.Total > 0 {
			cmd = m.progress.SetPercent(float64(m.current.Current) / float64(m.current.Total))
		}
		return m, tea.Batch(cmd, waitForProgress(m.progressCh))

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd

	case runDoneMsg:
		return m.handleRunDone(msg)

	case staleMsg:
		if msg.watcher != m.watcher || m.state == StateRunning {
			return m, nil
		}
		m.stale = true
		m.setStatus(false, "Folder changed: "+filepath.Base(msg.event.Path)+". Press r to re-plan.")
		return m, nil

	case logEntryMsg:
		m.logs.add(logging.Entry(msg))
		return m, waitForLog(m.logs.sub)
	}

	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		if m.state == StateRunning {
			m.runCancel()
			m.setStatus(true, "Cancelling...")
			return m, nil
		}
		m.shutdown()
		return m, tea.Quit
	}

	switch m.state {
	case StatePlanning:
		if key == "q" || key == "esc" {
			m.shutdown()
			return m, tea.Quit
		}

	case StatePlan:
		return m.handlePlanKey(key)

	case StateEditBase:
		return m.handleEditKey(msg)

	case StateConfirm:
		switch key {
		case "q", "esc", "n":
			m.state = StatePlan
		case "left", "h":
			m.confirmFocused = 0
		case "right", "l":
			m.confirmFocused = 1
		case "tab":
			m.confirmFocused = cycle(m.confirmFocused, 2)
		case "enter":
			if m.confirmFocused == 1 {
				return m.startRun(m.confirmUndo)
			}
			m.state = StatePlan
		case "y":
			return m.startRun(m.confirmUndo)
		}

	case StateRunning:
		if key == "esc" {
			m.runCancel()
			m.setStatus(true, "Cancelling...")
		}

	case StateDone:
		switch key {
		case "q":
			m.shutdown()
			return m, tea.Quit
		case "u":
			return m.requestUndo()
		case "enter", "esc":
			m.state = StatePlan
		}
	}

	return m, nil
}

func (m Model) handlePlanKey(key string) (tea.Model, tea.Cmd) {
	if m.logs.open {
		switch key {
		case "1", "2", "3", "4":
			m.logs.setFilter(logging.Level(key[0] - '1'))
			return m, nil
		case "ctrl+u":
			m.logs.scrollUp()
			return m, nil
		case "ctrl+d":
			m.logs.scrollDown(logPanelHeight - 2)
			return m, nil
		}
	}

	switch key {
	case "q", "esc":
		m.shutdown()
		return m, tea.Quit
	case "L":
		m.logs.toggle()
		m.list.setHeight(m.listHeight())
	case "b":
		m.state = StateEditBase
		m.baseBefore = m.naming.BaseName
		m.baseInput.SetValue(m.naming.BaseName)
		m.baseInput.CursorEnd()
		cmd := m.baseInput.Focus()
		return m, cmd
	case "r":
		m.clearStatus()
		return m.replan()
	case "enter":
		return m.requestApply()
	case "u":
		return m.requestUndo()
	default:
		if applyOptionKey(&m.naming, key) {
			m.clearStatus()
			return m.replan()
		}
		m.list.handleKey(key)
	}
	return m, nil
}

// handleEditKey edits the base name. The preview follows every keystroke.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.baseInput.Blur()
		m.state = StatePlan
		return m, nil
	case "esc":
		m.baseInput.Blur()
		m.state = StatePlan
		if m.naming.BaseName != m.baseBefore {
			m.naming.BaseName = m.baseBefore
			return m.replan()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.baseInput, cmd = m.baseInput.Update(msg)
	if v := m.baseInput.Value(); v != m.naming.BaseName {
		m.naming.BaseName = v
		next, planCmd := m.replan()
		return next, tea.Batch(cmd, planCmd)
	}
	return m, cmd
}

// replan rebuilds the plan in the background. The previous plan stays on
// screen until the new one arrives; results of superseded plans are
// dropped.
func (m Model) replan() (Model, tea.Cmd) {
	m.stopWatch()
	m.planSeq++
	m.planning = true
	return m, tea.Batch(m.spinner.Tick, m.buildPlan(m.planSeq))
}

func (m Model) buildPlan(seq int) tea.Cmd {
	ctx, p, folder, cfg := m.ctx, m.planner, m.options.Folder, m.naming
	return func() tea.Msg {
		start := time.Now()
		plan, err := p.Build(ctx, folder, cfg)
		return planDoneMsg{seq: seq, plan: plan, err: err, elapsed: time.Since(start)}
	}
}

func (m Model) handlePlanDone(msg planDoneMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.planSeq {
		return m, nil
	}
	m.planning = false
	if m.state == StatePlanning {
		m.state = StatePlan
	}

	m.plan, m.planErr = msg.plan, msg.err
	if msg.err != nil {
		logger.Warn("planning failed", "error", msg.err)
		m.list.setRows(nil)
		return m, nil
	}
	m.list.setRows(msg.plan.Rows)
	logger.Debug("plan ready", "rows", len(msg.plan.Rows), "elapsed", msg.elapsed)
	cmd := m.watch()
	return m, cmd
}

// requestApply opens the confirmation dialog when the plan can be applied.
func (m Model) requestApply() (tea.Model, tea.Cmd) {
	switch {
	case m.planning:
		m.setStatus(false, "Planning in progress.")
	case m.planErr != nil:
		m.setStatus(true, m.planErr.Error())
	case m.plan == nil:
		m.setStatus(false, "Nothing to rename.")
	case m.stale:
		m.setStatus(true, "Folder changed since the preview was built. Press r to re-plan.")
	case m.plan.HasConflicts():
		m.setStatus(true, types.ErrHasUnresolvedConflicts.Error()+". Press a to enable auto-resolve.")
	case m.plan.Summary().PendingCount == 0:
		m.setStatus(false, "Nothing to rename.")
	default:
		m.state = StateConfirm
		m.confirmUndo = false
		m.confirmFocused = 0
	}
	return m, nil
}

// requestUndo opens the confirmation dialog when there is a batch to undo.
func (m Model) requestUndo() (tea.Model, tea.Cmd) {
	if !m.executor.CanUndo() {
		m.setStatus(false, "Nothing to undo.")
		return m, nil
	}
	m.state = StateConfirm
	m.confirmUndo = true
	m.confirmFocused = 0
	return m, nil
}

// startRun applies the plan, or undoes the last batch, in the background.
// The watcher is stopped so the renames do not mark the preview stale.
func (m Model) startRun(undo bool) (tea.Model, tea.Cmd) {
	m.stopWatch()
	m.state = StateRunning
	m.undoing = undo
	m.current = types.Progress{}
	m.result = nil
	m.runErr = nil
	m.clearStatus()

	ch := make(chan types.Progress, 64)
	m.sink.ch = ch
	m.progressCh = ch
	ctx, cancel := context.WithCancel(m.ctx)
	m.runCancel = cancel

	ex, j, keep := m.executor, m.options.Journal, m.options.JournalKeep
	plan, folder, batchID := m.plan, m.options.Folder, m.batchID

	run := func() tea.Msg {
		defer close(ch)
		defer cancel()

		if undo {
			records := ex.UndoLog()
			res, err := ex.Undo(ctx)
			if res.Succeeded > 0 {
				recordRevert(j, folder, batchID, records, res)
				batchID = ""
			}
			return runDoneMsg{result: res, err: err, batchID: batchID}
		}

		res, err := ex.Execute(ctx, plan)
		if res.Succeeded > 0 {
			batchID = recordRename(j, keep, folder, plan.Config, ex.UndoLog(), res)
		}
		return runDoneMsg{result: res, err: err, batchID: batchID}
	}

	reset := m.progress.SetPercent(0)
	return m, tea.Batch(m.spinner.Tick, reset, run, waitForProgress(ch))
}

func (m Model) handleRunDone(msg runDoneMsg) (tea.Model, tea.Cmd) {
	m.state = StateDone
	m.result = &msg.result
	m.runErr = msg.err
	m.batchID = msg.batchID

	switch {
	case msg.err != nil && !errors.Is(msg.err, context.Canceled):
		m.setStatus(true, msg.err.Error())
	case msg.result.Failed > 0:
		m.setStatus(true, "Some files could not be renamed. See the list below or the log.")
	}

	return m.replan()
}

// recordRename stores an applied batch and returns its ID, or "" when the
// journal is unavailable.
func recordRename(j *journal.Journal, keep int, folder string, cfg types.NamingConfig, records []types.UndoRecord, res types.ExecutionResult) string {
	if j == nil {
		return ""
	}
	b, err := j.RecordExecution(folder, cfg, records, res)
	if err != nil {
		logger.Error("failed to record batch", "error", err)
		return ""
	}
	if keep > 0 {
		if _, err := j.Prune(keep); err != nil {
			logger.Warn("failed to prune journal", "error", err)
		}
	}
	return b.ID
}

func recordRevert(j *journal.Journal, folder, batchID string, records []types.UndoRecord, res types.ExecutionResult) {
	if j == nil {
		return
	}
	if _, err := j.RecordRevert(folder, batchID, records, res); err != nil {
		logger.Error("failed to record undo", "error", err)
	}
}

// waitForProgress returns a command that waits for the next progress
// update of the running batch.
func waitForProgress(ch <-chan types.Progress) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

// watch starts a watcher for the planned folder. Names that discovery
// skips are ignored.
func (m *Model) watch() tea.Cmd {
	m.stopWatch()
	m.stale = false
	if m.options.NoWatch {
		return nil
	}

	w, err := watcher.New(m.options.Folder, m.naming.IncludeSubfolders, watcher.WithIgnore(m.ignored))
	if err != nil {
		logger.Warn("failed to create watcher", "error", err)
		return nil
	}
	if err := w.Watch(m.ctx); err != nil {
		_ = w.Close()
		logger.Warn("failed to watch folder", "folder", m.options.Folder, "error", err)
		return nil
	}
	m.watcher = w
	return waitForChange(w)
}

func (m *Model) stopWatch() {
	if m.watcher != nil {
		_ = m.watcher.Close()
		m.watcher = nil
	}
}

func (m Model) ignored(name string) bool {
	if m.options.SkipHidden && strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range m.naming.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func waitForChange(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-w.Events():
			return staleMsg{watcher: w, event: ev}
		case <-w.Done():
			return nil
		}
	}
}

func (m *Model) setStatus(isErr bool, s string) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// shutdown releases the watcher and log subscription and cancels pending
// work.
func (m *Model) shutdown() {
	m.stopWatch()
	m.logs.stop()
	m.cancel()
}

// Run starts the TUI application.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.shutdown()
	}
	return err
}
