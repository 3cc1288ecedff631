// Package menu is a nested, line-driven menu built from floc flows: a top
// level flow for choosing a category and one flow per category. Picking an
// item that belongs to another category offers to switch menus.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/petrijr/floc"
)

// Entry points shared by the menu flows.
const (
	EntryStart     floc.EntryID = "start"
	EntryContinue  floc.EntryID = "continue"
	EntryFromOther floc.EntryID = "from_other_category"
)

// QuitCommand ends the menu from any prompt.
const QuitCommand = "quit"

// Pick is one item chosen by the user.
type Pick struct {
	Category string `json:"category"`
	Item     string `json:"item"`
}

// App owns the menu flows and the picks made so far. An App is not safe for
// concurrent use; run it on a single engine at a time.
type App struct {
	catalog Catalog
	out     io.Writer
	logger  *slog.Logger
	input   floc.EventSource

	top   *floc.Flow
	menus map[string]*categoryMenu
	picks []Pick
}

type categoryMenu struct {
	app  *App
	cat  Category
	flow *floc.Flow

	// confirming is the item offered by another menu; empty while picking.
	confirming string
	prev       *floc.Flow
}

// New builds the menu flows. Lines are read from in and all output goes to
// out. logger may be nil.
func New(catalog Catalog, in io.Reader, out io.Writer, logger *slog.Logger) (*App, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		catalog: catalog,
		out:     out,
		logger:  logger,
		input:   floc.NewLineSource(in),
		top:     floc.NewFlow("top"),
		menus:   make(map[string]*categoryMenu, len(catalog.Categories)),
	}
	for _, cat := range catalog.Categories {
		a.menus[cat.Name] = &categoryMenu{app: a, cat: cat, flow: floc.NewFlow(cat.Name)}
	}

	if err := a.configureTop(); err != nil {
		return nil, err
	}
	for _, cat := range catalog.Categories {
		if err := a.menus[cat.Name].configure(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Flow returns the top-level flow. Execute it from EntryStart.
func (a *App) Flow() *floc.Flow {
	return a.top
}

// Picks returns the items chosen so far.
func (a *App) Picks() []Pick {
	return append([]Pick(nil), a.picks...)
}

// Run executes the menu on eng until the user quits or input ends.
func (a *App) Run(ctx context.Context, eng floc.Engine) ([]Pick, error) {
	result, err := eng.Execute(ctx, a.top, EntryStart)
	return a.Finish(result, err)
}

// Finish interprets the outcome of executing the menu. Running out of input
// is a normal way to leave the menu.
func (a *App) Finish(result any, err error) ([]Pick, error) {
	if errors.Is(err, io.EOF) {
		return a.Picks(), nil
	}
	if err != nil {
		return nil, err
	}
	picks, ok := result.([]Pick)
	if !ok {
		return nil, fmt.Errorf("unexpected menu result %T", result)
	}
	return picks, nil
}

// common adds the input source and the handlers every menu flow shares.
func (a *App) common(b *floc.FlowBuilder, name string) *floc.FlowBuilder {
	return b.
		Source(a.input).
		Handler(floc.NewDispatcher().On(isQuit, a.quit)).
		OnError(floc.MatchIs(io.EOF), func(ctx context.Context, err error) {
			a.println()
			a.println("Input closed.")
		}).
		OnExit(func(ctx context.Context) {
			a.logger.DebugContext(ctx, "menu_exit", slog.String("menu", name))
		})
}

func (a *App) configureTop() error {
	b := floc.New("top").
		Entry(EntryStart, floc.NoArgs(a.start)).
		Entry(EntryContinue, floc.TypedEntry2(a.cont))
	return a.common(b, "top").
		HandleFunc(a.choose).
		AfterEvent(func(ctx context.Context) (floc.Outcome, error) {
			a.printf("Category: ")
			return floc.Continue(), nil
		}).
		Apply(a.top)
}

func (a *App) start(ctx context.Context) (floc.Outcome, error) {
	a.println("Hello. This is a dumb menu program. Choose a category:")
	a.listCategories()
	return floc.Continue(), nil
}

func (a *App) cont(ctx context.Context, category, item string) (floc.Outcome, error) {
	a.picks = append(a.picks, Pick{Category: category, Item: item})
	a.logger.InfoContext(ctx, "picked",
		slog.String("category", category),
		slog.String("item", item),
	)

	a.printf("You've chosen: %s from %s\n", item, category)
	a.println("Welcome back to the top level menu")
	a.println("Choose a category:")
	a.listCategories()
	return floc.Continue(), nil
}

func (a *App) listCategories() {
	for _, cat := range a.catalog.Categories {
		a.printf("* %s\n", cat.Name)
	}
	a.printf("Category: ")
}

func (a *App) choose(ctx context.Context, ev any) (floc.Outcome, error) {
	m, ok := a.menus[line(ev)]
	if !ok {
		a.println("This is not in the list!")
		return floc.Continue(), nil
	}
	return floc.SwitchTo(m.flow, EntryStart), nil
}

func (a *App) quit(ctx context.Context, ev any) (floc.Outcome, error) {
	a.println("Bye.")
	return floc.Terminate(a.Picks()), nil
}

func (m *categoryMenu) configure() error {
	b := floc.New(m.cat.Name).
		Entry(EntryStart, floc.NoArgs(m.start)).
		Entry(EntryFromOther, floc.TypedEntry2(m.fromOther))
	return m.app.common(b, m.cat.Name).
		HandleFunc(m.handle).
		AfterEvent(func(ctx context.Context) (floc.Outcome, error) {
			if m.confirming == "" {
				m.app.printf("Pick a %s: ", m.cat.Singular)
			}
			return floc.Continue(), nil
		}).
		Apply(m.flow)
}

func (m *categoryMenu) start(ctx context.Context) (floc.Outcome, error) {
	m.confirming, m.prev = "", nil

	m.app.printf("Following %s are available:\n", m.cat.Plural)
	for _, item := range m.cat.Items {
		m.app.printf("* %s\n", item)
	}
	m.app.printf("Pick a %s: ", m.cat.Singular)
	return floc.Continue(), nil
}

func (m *categoryMenu) fromOther(ctx context.Context, item string, prev *floc.Flow) (floc.Outcome, error) {
	m.confirming, m.prev = item, prev

	m.app.printf("Do you want %s? (yes/no)\n", item)
	return floc.Continue(), nil
}

func (m *categoryMenu) handle(ctx context.Context, ev any) (floc.Outcome, error) {
	if m.confirming != "" {
		return m.confirm(line(ev))
	}
	return m.pick(line(ev))
}

func (m *categoryMenu) pick(s string) (floc.Outcome, error) {
	for _, item := range m.cat.Items {
		if item == s {
			m.app.printf("Here's your %s: %s\n", m.cat.Singular, s)
			return floc.SwitchTo(m.app.top, EntryContinue, m.cat.Name, s), nil
		}
	}

	if other, ok := m.app.catalog.owner(s); ok {
		m.app.printf("This is not a %s, but a %s. Changing the menu to %s...\n",
			m.cat.Singular, other.Singular, other.Plural)
		return floc.SwitchTo(m.app.menus[other.Name].flow, EntryFromOther, s, m.flow), nil
	}

	m.app.println("This is not in the list, try again.")
	return floc.Continue(), nil
}

func (m *categoryMenu) confirm(s string) (floc.Outcome, error) {
	switch s {
	case "yes":
		m.app.println("Here we go then.")
		return floc.SwitchTo(m.app.top, EntryContinue, m.cat.Name, m.confirming), nil
	case "no":
		m.app.println("OK, taking you to the previous menu...")
		return floc.SwitchTo(m.prev, EntryStart), nil
	default:
		m.app.println("yes/no only, please.")
		return floc.Continue(), nil
	}
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	_, _ = fmt.Fprintln(a.out, args...)
}

func line(ev any) string {
	s, _ := ev.(string)
	return strings.TrimSpace(s)
}

func isQuit(ev any) bool {
	return line(ev) == QuitCommand
}
