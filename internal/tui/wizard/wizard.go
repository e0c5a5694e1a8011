// Package wizard is the terminal plan editor: a five-section form whose
// sections unlock in a validity-gated waterfall, with debounced draft
// autosave in create mode and read-only browsing in view mode.
package wizard

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/planforge/planforge/internal/config"
	"github.com/planforge/planforge/internal/draft"
	"github.com/planforge/planforge/internal/logger"
	"github.com/planforge/planforge/internal/nav"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
	"github.com/planforge/planforge/internal/tui/theme"
	"github.com/planforge/planforge/internal/validate"
)

// Modal layout constants
const (
	modalWidth        = 78
	modalPadding      = 2
	modalBorderWidth  = 1
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2)
)

// step is the per-section component contract.
type step interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	Focus()
	FocusLast()
	Blur()
}

// Result is what a wizard session produced.
type Result struct {
	Cancelled bool
	SavedID   int // Non-zero when a plan was created or updated
}

// Model is the top-level Bubbletea model for the plan wizard.
type Model struct {
	cfg      *config.Config
	ctx      context.Context
	mode     plan.Mode
	recordID int

	plans    store.PlanService
	catalogs store.CatalogService
	saver    *draft.Saver

	form    *plan.Form
	catalog plan.Catalog
	machine *nav.Machine

	// Step components, created once loading completes.
	basicStep    *BasicStep
	pricingStep  *PricingStep
	featuresStep *FeaturesStep
	addonsStep   *AddonsStep
	slaStep      *SLAStep

	// Button bar with focus tracking.
	buttonBar     *ButtonBar
	buttonFocused bool

	// Load state. The wizard body is not interactive until ready.
	catalogLoaded bool
	planLoaded    bool
	draftChecked  bool
	isFetching    bool
	loadErr       string

	// Create-mode recovery prompt. Blocks until restore or start fresh.
	showRecovery     bool
	recoveredForm    *plan.Form
	recoveredSection nav.Section
	recoveryDiff     string

	// Submission state.
	isSubmitting bool
	submitErr    string
	savedID      int

	// View-mode summary overlay.
	showSummary bool

	cancelled  bool
	draftSaved bool // Autosave indicator for the footer

	width  int
	height int
}

// New creates a wizard model. recordID is ignored in create mode.
func New(cfg *config.Config, mode plan.Mode, recordID int, plans store.PlanService, catalogs store.CatalogService, saver *draft.Saver) *Model {
	return &Model{
		cfg:      cfg,
		ctx:      context.Background(),
		mode:     mode,
		recordID: recordID,
		plans:    plans,
		catalogs: catalogs,
		saver:    saver,
		form:     plan.NewForm(),
		machine:  nav.New(mode),
	}
}

// Run starts the wizard as a standalone Bubbletea program and blocks until
// it exits.
func Run(cfg *config.Config, mode plan.Mode, recordID int, plans store.PlanService, catalogs store.CatalogService, saver *draft.Saver) (Result, error) {
	m := New(cfg, mode, recordID, plans, catalogs, saver)

	finalModel, err := tea.NewProgram(m).Run()
	if err != nil {
		return Result{}, fmt.Errorf("wizard failed: %w", err)
	}

	final, ok := finalModel.(*Model)
	if !ok {
		return Result{}, fmt.Errorf("unexpected model type")
	}
	return Result{Cancelled: final.cancelled, SavedID: final.savedID}, nil
}

// Init kicks off the initial load: catalogs always, plus the existing plan
// in edit/view mode or the draft lookup in create mode.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchCatalog()}
	if m.mode == plan.ModeCreate {
		cmds = append(cmds, m.checkDraft())
	} else {
		m.isFetching = true
		cmds = append(cmds, m.fetchPlan())
	}
	return tea.Batch(cmds...)
}

// fetchCatalog loads the add-on and SLA catalogs.
func (m *Model) fetchCatalog() tea.Cmd {
	ctx := m.ctx
	catalogs := m.catalogs
	return func() tea.Msg {
		addons, err := catalogs.ListAddons(ctx)
		if err != nil {
			return LoadErrorMsg{Err: fmt.Errorf("loading add-on catalog: %w", err)}
		}
		slas, err := catalogs.ListSLAs(ctx)
		if err != nil {
			return LoadErrorMsg{Err: fmt.Errorf("loading SLA catalog: %w", err)}
		}
		return CatalogLoadedMsg{Catalog: plan.Catalog{Addons: addons, SLAs: slas}}
	}
}

// fetchPlan loads the existing record for edit/view mode.
func (m *Model) fetchPlan() tea.Cmd {
	ctx := m.ctx
	plans := m.plans
	id := m.recordID
	return func() tea.Msg {
		payload, err := plans.Fetch(ctx, id)
		if err != nil {
			return LoadErrorMsg{Err: fmt.Errorf("loading plan %d: %w", id, err)}
		}
		return PlanLoadedMsg{Payload: payload}
	}
}

// checkDraft looks for a recoverable draft from a previous create session.
func (m *Model) checkDraft() tea.Cmd {
	ctx := m.ctx
	saver := m.saver
	return func() tea.Msg {
		form, section, found := saver.Recover(ctx)
		return DraftCheckedMsg{Found: found, Form: form, Section: section}
	}
}

// ready reports whether initial load finished and the body is interactive.
func (m *Model) ready() bool {
	if !m.catalogLoaded || m.loadErr != "" || m.showRecovery {
		return false
	}
	if m.mode == plan.ModeCreate {
		return m.draftChecked
	}
	return m.planLoaded
}

// initSteps builds all five step components against the current form and
// catalog. Called once loading completes, and again whenever the form is
// replaced (draft restore) or the mode changes (view to edit).
func (m *Model) initSteps() tea.Cmd {
	readOnly := m.mode.ReadOnly()
	m.basicStep = NewBasicStep(m.form, readOnly)
	m.pricingStep = NewPricingStep(m.form, readOnly)
	m.featuresStep = NewFeaturesStep(m.form, readOnly)
	m.addonsStep = NewAddonsStep(m.form, &m.catalog, readOnly)
	m.slaStep = NewSLAStep(m.form, &m.catalog, readOnly)
	m.buttonBar = nil
	m.buttonFocused = false
	m.updateStepSizes()
	return tea.Batch(
		m.basicStep.Init(),
		m.pricingStep.Init(),
		m.featuresStep.Init(),
		m.addonsStep.Init(),
		m.slaStep.Init(),
	)
}

// currentStep returns the component for the machine's current section.
func (m *Model) currentStep() step {
	switch m.machine.Current() {
	case nav.SectionBasic:
		return m.basicStep
	case nav.SectionPricing:
		return m.pricingStep
	case nav.SectionFeatures:
		return m.featuresStep
	case nav.SectionAddons:
		return m.addonsStep
	case nav.SectionSLA:
		return m.slaStep
	default:
		return nil
	}
}

// stepCapturesKeys reports whether the current section is showing a modal
// surface (removal confirmation or the creation sub-flow) that must receive
// all keys, including ESC.
func (m *Model) stepCapturesKeys() bool {
	switch m.machine.Current() {
	case nav.SectionAddons:
		return m.addonsStep != nil && (m.addonsStep.Creating() || m.addonsStep.ConfirmPending())
	case nav.SectionSLA:
		return m.slaStep != nil && m.slaStep.ConfirmPending()
	}
	return false
}

// debounce returns the autosave debounce window.
func (m *Model) debounce() time.Duration {
	if m.cfg != nil && m.cfg.AutosaveDebounceMS > 0 {
		return time.Duration(m.cfg.AutosaveDebounceMS) * time.Millisecond
	}
	return 750 * time.Millisecond
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateStepSizes()
		return m, nil

	case CatalogLoadedMsg:
		m.catalog = msg.Catalog
		m.catalogLoaded = true
		return m, m.finishLoading()

	case PlanLoadedMsg:
		m.form = plan.FormFromPayload(msg.Payload)
		m.planLoaded = true
		m.isFetching = false
		return m, m.finishLoading()

	case LoadErrorMsg:
		m.isFetching = false
		m.loadErr = msg.Err.Error()
		logger.Error("Wizard load failed: %v", msg.Err)
		return m, nil

	case DraftCheckedMsg:
		m.draftChecked = true
		if msg.Found {
			m.showRecovery = true
			m.recoveredForm = msg.Form
			m.recoveredSection = msg.Section
			if snap, err := draft.Snapshot(msg.Form); err == nil {
				m.recoveryDiff = draftDiff(m.saver.Baseline(), snap)
			}
			return m, nil
		}
		m.saver.Activate()
		return m, m.finishLoading()

	case FieldEditedMsg:
		m.draftSaved = false
		if m.mode == plan.ModeCreate && m.saver.Active() {
			seq := m.saver.Bump()
			return m, tea.Tick(m.debounce(), func(time.Time) tea.Msg {
				return AutosaveTickMsg{Seq: seq}
			})
		}
		return m, nil

	case AutosaveTickMsg:
		// A stale generation means newer edits restarted the window.
		if msg.Seq != m.saver.Seq() {
			return m, nil
		}
		m.draftSaved = m.saver.Flush(m.ctx, m.form, m.machine.Current())
		return m, nil

	case AddonCreateRequestMsg:
		ctx := m.ctx
		catalogs := m.catalogs
		addon := msg.Addon
		return m, func() tea.Msg {
			created, err := catalogs.CreateAddon(ctx, addon)
			if err != nil {
				return AddonCreateErrorMsg{Err: err}
			}
			return AddonCreatedMsg{Addon: created}
		}

	case AddonCreatedMsg:
		if m.addonsStep != nil {
			m.addonsStep.CreateFinished(msg.Addon)
		}
		return m, nil

	case AddonCreateErrorMsg:
		if m.addonsStep != nil {
			m.addonsStep.CreateFailed(msg.Err)
		}
		return m, nil

	case PlanSavedMsg:
		m.isSubmitting = false
		m.savedID = msg.ID
		if m.mode == plan.ModeCreate {
			m.saver.Clear(m.ctx)
		}
		logger.Info("Plan %d saved", msg.ID)
		return m, tea.Quit

	case SubmitErrorMsg:
		m.isSubmitting = false
		m.submitErr = msg.Err.Error()
		logger.Error("Plan submission failed: %v", msg.Err)
		return m, nil

	case TabExitForwardMsg:
		m.buttonFocused = true
		m.blurStep()
		m.ensureButtonBar()
		m.buttonBar.FocusFirst()
		return m, nil

	case TabExitBackwardMsg:
		m.buttonFocused = true
		m.blurStep()
		m.ensureButtonBar()
		m.buttonBar.FocusLast()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m.updateCurrentStep(msg)
}

// finishLoading initializes steps once everything required has arrived.
func (m *Model) finishLoading() tea.Cmd {
	if !m.ready() || m.basicStep != nil {
		return nil
	}
	return m.initSteps()
}

// handleKey routes a key press through the wizard's layered surfaces:
// load error, recovery prompt, step modals, buttons, then the step itself.
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.cancelled = true
		return m, tea.Quit
	}

	// Load failure: retry or give up.
	if m.loadErr != "" {
		switch key {
		case "r", "R":
			if m.isFetching {
				return m, nil
			}
			m.loadErr = ""
			cmds := []tea.Cmd{}
			if !m.catalogLoaded {
				cmds = append(cmds, m.fetchCatalog())
			}
			if m.mode != plan.ModeCreate && !m.planLoaded {
				m.isFetching = true
				cmds = append(cmds, m.fetchPlan())
			}
			return m, tea.Batch(cmds...)
		case "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Recovery prompt: blocking until a decision is made.
	if m.showRecovery {
		switch key {
		case "y", "Y":
			m.form = m.recoveredForm
			m.machine.Restore(m.recoveredSection)
			m.showRecovery = false
			m.saver.Activate()
			logger.Info("Draft restored (section=%s)", m.recoveredSection)
			return m, m.finishLoading()
		case "n", "N":
			m.saver.Clear(m.ctx)
			m.showRecovery = false
			m.saver.Activate()
			logger.Info("Draft discarded, starting fresh")
			return m, m.finishLoading()
		}
		return m, nil
	}

	if !m.ready() {
		return m, nil
	}

	// Submission errors clear on the next key.
	m.submitErr = ""

	// Summary overlay in view mode.
	if m.showSummary {
		switch key {
		case "s", "esc", "q":
			m.showSummary = false
		}
		return m, nil
	}

	// Step-level modals (confirmation, creation sub-flow) get every key.
	if m.stepCapturesKeys() {
		return m.updateCurrentStep(msg)
	}

	// Button-focused keyboard input.
	if m.buttonFocused && m.buttonBar != nil {
		switch key {
		case "tab", "right":
			if !m.buttonBar.FocusNext() {
				m.buttonFocused = false
				m.buttonBar.Blur()
				if s := m.currentStep(); s != nil {
					s.Focus()
				}
			}
			return m, nil
		case "shift+tab", "left":
			if !m.buttonBar.FocusPrev() {
				m.buttonFocused = false
				m.buttonBar.Blur()
				if s := m.currentStep(); s != nil {
					s.FocusLast()
				}
			}
			return m, nil
		case "enter", " ":
			return m.activateButton(m.buttonBar.FocusedButton())
		}
	}

	switch key {
	case "esc":
		if m.machine.Current() == nav.SectionBasic {
			m.cancelled = true
			return m, tea.Quit
		}
		m.goBack()
		return m, nil
	case "q":
		if m.mode.ReadOnly() {
			m.cancelled = true
			return m, tea.Quit
		}
	case "e":
		if m.mode.ReadOnly() {
			return m.switchToEdit()
		}
	case "s":
		if m.mode.ReadOnly() {
			m.showSummary = true
			return m, nil
		}
	case "alt+1", "alt+2", "alt+3", "alt+4", "alt+5":
		section := nav.Section(int(key[len(key)-1] - '1'))
		v := validate.Compute(m.form)
		if m.machine.GoTo(section, v.Sections) {
			m.buttonFocused = false
			if s := m.currentStep(); s != nil {
				s.Focus()
			}
		}
		return m, nil
	}

	return m.updateCurrentStep(msg)
}

// activateButton handles button activation.
func (m *Model) activateButton(id ButtonID) (tea.Model, tea.Cmd) {
	switch id {
	case ButtonBack:
		m.goBack()
		return m, nil
	case ButtonNext:
		m.goNext()
		return m, nil
	case ButtonSubmit:
		return m, m.submit()
	}
	return m, nil
}

// goBack moves to the previous section. Backward never requires validity.
func (m *Model) goBack() {
	if m.machine.Previous() {
		m.buttonFocused = false
		if s := m.currentStep(); s != nil {
			s.Focus()
		}
	}
}

// goNext advances to the next section when the current one is valid.
func (m *Model) goNext() {
	if m.machine.Next(validate.SectionValid(m.form, m.machine.Current())) {
		m.buttonFocused = false
		if s := m.currentStep(); s != nil {
			s.Focus()
		}
	}
}

// submit dispatches final submission. The validity gate is re-checked here:
// a stale button must not be able to submit an invalid form, and a second
// activation while one submission is in flight is a no-op.
func (m *Model) submit() tea.Cmd {
	if m.mode.ReadOnly() || m.isSubmitting {
		return nil
	}
	if !validate.Compute(m.form).EntireForm {
		return nil
	}

	payload, err := m.form.Payload()
	if err != nil {
		return func() tea.Msg { return SubmitErrorMsg{Err: err} }
	}

	m.isSubmitting = true
	ctx := m.ctx
	plans := m.plans
	mode := m.mode
	id := m.recordID
	return func() tea.Msg {
		if mode == plan.ModeEdit {
			if err := plans.Update(ctx, id, payload); err != nil {
				return SubmitErrorMsg{Err: err}
			}
			return PlanSavedMsg{ID: id}
		}
		newID, err := plans.Create(ctx, payload)
		if err != nil {
			return SubmitErrorMsg{Err: err}
		}
		return PlanSavedMsg{ID: newID}
	}
}

// switchToEdit flips a view session into an edit session in place,
// preserving the current section. Drafts stay disabled; edits persist only
// through submission.
func (m *Model) switchToEdit() (tea.Model, tea.Cmd) {
	current := m.machine.Current()
	m.mode = plan.ModeEdit
	m.machine = nav.New(plan.ModeEdit)
	m.machine.Restore(current)
	m.showSummary = false
	return m, m.initSteps()
}

// updateCurrentStep forwards a message to the current step.
func (m *Model) updateCurrentStep(msg tea.Msg) (tea.Model, tea.Cmd) {
	if !m.ready() {
		return m, nil
	}
	s := m.currentStep()
	if s == nil {
		return m, nil
	}
	return m, s.Update(msg)
}

// blurStep blurs the current step content.
func (m *Model) blurStep() {
	if s := m.currentStep(); s != nil {
		s.Blur()
	}
}

// contentSize returns the modal's internal content dimensions.
func (m *Model) contentSize() (width, height int) {
	width = modalContentWidth

	height = m.height - 4
	if height < 20 {
		height = 20
	}
	if height > 44 {
		height = 44
	}
	// Subtract modal chrome: padding, border, tab header, hint.
	height -= 10
	if height < 10 {
		height = 10
	}
	return width, height
}

// updateStepSizes propagates the content size to all steps.
func (m *Model) updateStepSizes() {
	w, h := m.contentSize()
	if m.basicStep == nil {
		return
	}
	m.basicStep.SetSize(w, h)
	m.pricingStep.SetSize(w, h)
	m.featuresStep.SetSize(w, h)
	m.addonsStep.SetSize(w, h)
	m.slaStep.SetSize(w, h)
	if m.buttonBar != nil {
		m.buttonBar.SetWidth(w)
	}
}

// ensureButtonBar creates or refreshes the button bar for the current
// section, keeping disabled states in sync with live validity while
// preserving focus.
func (m *Model) ensureButtonBar() {
	v := validate.Compute(m.form)
	backEnabled := m.machine.Current() != nav.SectionBasic
	atLast := m.machine.AtLast()

	var forwardEnabled bool
	if m.mode.ReadOnly() {
		forwardEnabled = !atLast
	} else if atLast {
		forwardEnabled = v.EntireForm
	} else {
		forwardEnabled = v.Sections[m.machine.Current()]
	}

	submit := atLast && !m.mode.ReadOnly()
	buttons := navButtons(backEnabled, forwardEnabled, submit)

	if m.buttonBar == nil {
		m.buttonBar = NewButtonBar(buttons)
		w, _ := m.contentSize()
		m.buttonBar.SetWidth(w)
		return
	}
	m.buttonBar.SetButtons(buttons)
}

// View renders the wizard.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	content := m.renderContent()

	centered := lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// renderContent assembles the modal body for the current state.
func (m *Model) renderContent() string {
	t := theme.Current()

	if m.loadErr != "" {
		return m.renderLoadError()
	}
	if m.showRecovery {
		_, h := m.contentSize()
		return RenderRecoveryModal(m.recoveryDiff, h-8)
	}
	if !m.ready() {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.FgSubtle)).
			Render("Loading...")
	}
	if m.showSummary {
		w, _ := m.contentSize()
		return m.frame(renderSummary(m.form, &m.catalog, w))
	}

	header := m.renderTabs()

	var stepContent string
	if s := m.currentStep(); s != nil {
		stepContent = s.View()
	}

	// Step modals replace the whole body, buttons included.
	if m.stepCapturesKeys() {
		return m.frame(lipgloss.JoinVertical(lipgloss.Left, header, "", stepContent))
	}

	m.ensureButtonBar()
	buttonBarContent := m.buttonBar.Render()

	footer := m.renderFooter()

	return m.frame(lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		stepContent,
		"",
		buttonBarContent,
		"",
		footer,
	))
}

// frame wraps content in the wizard's modal border.
func (m *Model) frame(content string) string {
	t := theme.Current()
	return lipgloss.NewStyle().
		Width(modalWidth).
		Padding(1, modalPadding).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BorderDefault)).
		Render(content)
}

// renderTabs renders the section header with unlock state.
func (m *Model) renderTabs() string {
	t := theme.Current()
	v := validate.Compute(m.form)
	unlocked := m.machine.Unlocked(v.Sections)

	title := t.S().HeaderTitle.Render(fmt.Sprintf("Plan Editor (%s)", m.mode))

	var tabs []string
	for _, s := range nav.Sections() {
		label := s.Title()
		switch {
		case s == m.machine.Current():
			tabs = append(tabs, t.S().SectionActive.Render(label))
		case unlocked[s]:
			tabs = append(tabs, t.S().SectionUnlocked.Render(label))
		default:
			tabs = append(tabs, t.S().SectionLocked.Render("🔒 "+label))
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
	)
}

// renderFooter renders status and the global hint bar.
func (m *Model) renderFooter() string {
	t := theme.Current()

	var status string
	switch {
	case m.isSubmitting:
		status = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)).Render("Saving plan...")
	case m.submitErr != "":
		status = t.S().FieldError.Render("✗ " + m.submitErr)
	case m.draftSaved:
		status = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Render("✓ draft saved")
	}

	var hint string
	if m.mode.ReadOnly() {
		hint = renderHintBar("e", "edit", "s", "summary", "alt+1..5", "jump", "q", "back to list")
	} else {
		hint = renderHintBar("tab", "navigate", "alt+1..5", "jump", "esc", "back")
	}

	if status == "" {
		return hint
	}
	return lipgloss.JoinVertical(lipgloss.Left, status, hint)
}

// renderLoadError renders the retryable load failure screen.
func (m *Model) renderLoadError() string {
	t := theme.Current()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Error)).
		MarginBottom(1)
	title := titleStyle.Render("⚠ Load Failed")

	errorText := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		MarginBottom(1).
		Render(m.loadErr)

	var hint string
	if m.isFetching {
		hint = lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).Render("Retrying...")
	} else {
		hint = renderHintBar("r", "retry", "esc", "quit")
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		errorText,
		"",
		hint,
	)

	return lipgloss.NewStyle().
		Width(60).
		Padding(2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Error)).
		Render(content)
}
