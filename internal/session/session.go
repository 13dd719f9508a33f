// Package session runs one interactive triage pass: pick a source folder,
// settle its destination name, choose a filter and copy.
//
// The configuration is owned by the Session and threaded through a fixed
// list of steps; it is saved back to disk right after each mapping change,
// before any file is copied.
package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/litescript/ls-media-clone/internal/config"
	"github.com/litescript/ls-media-clone/internal/media"
	"github.com/litescript/ls-media-clone/internal/prompt"
	"github.com/litescript/ls-media-clone/internal/theme"
)

// Session errors.
var (
	ErrDirectoryRead = errors.New("read directory")
	ErrRename        = errors.New("rename destination")
	ErrSaveMapping   = errors.New("failed to update config (no files have been copied)")
)

// DestinationLabel is the prompt shown when editing a destination name.
const DestinationLabel = "Destination: "

// Outcome describes how a session ended.
type Outcome int

const (
	Completed Outcome = iota // files copied
	Cancelled                // user backed out at the source menu or destination prompt
	NoSources                // nothing to triage
	Failed                   // Run returned an error
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case NoSources:
		return "no sources"
	default:
		return "failed"
	}
}

// Session holds everything one run needs.
type Session struct {
	cfgPath string
	cfg     *config.Config
	prompt  prompt.Prompter
	out     io.Writer
	log     zerolog.Logger
	styles  func() theme.Styles
}

// Option configures a Session.
type Option func(*Session)

// WithOutput sends menus and messages to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Session) { s.out = w }
}

// WithLogger sets the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithStyles pins the styles instead of following theme.Current.
func WithStyles(styles theme.Styles) Option {
	return func(s *Session) { s.styles = func() theme.Styles { return styles } }
}

// New creates a session over a loaded config. cfgPath is where mapping
// changes are saved.
func New(cfgPath string, cfg *config.Config, p prompt.Prompter, opts ...Option) *Session {
	s := &Session{
		cfgPath: cfgPath,
		cfg:     cfg,
		prompt:  p,
		out:     os.Stdout,
		log:     zerolog.Nop(),
		styles:  func() theme.Styles { return theme.Current() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// state is the value passed from step to step.
type state struct {
	sources  []string
	folder   string // selected source folder name
	srcPath  string
	destName string
	destPath string
	category media.Category
	stats    media.CopyStats
}

type step struct {
	name string
	run  func(*Session, *state) error
}

var steps = []step{
	{"list sources", (*Session).listSources},
	{"select source", (*Session).selectSource},
	{"resolve destination", (*Session).resolveDestination},
	{"list contents", (*Session).listContents},
	{"select filter", (*Session).selectFilter},
	{"copy", (*Session).copy},
}

// stop ends the pipeline early without an error.
type stop struct{ outcome Outcome }

func (s stop) Error() string { return "session stopped: " + s.outcome.String() }

// Run executes every step in order.
func (s *Session) Run() (Outcome, error) {
	var st state
	for _, next := range steps {
		s.log.Debug().Str("step", next.name).Msg("session step")

		if err := next.run(s, &st); err != nil {
			var early stop
			if errors.As(err, &early) {
				return early.outcome, nil
			}
			return Failed, err
		}
	}
	return Completed, nil
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func (s *Session) listSources(st *state) error {
	sources, err := SourceFolders(s.cfg.Settings.SourceDir)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		s.printf("%s\n", s.styles().Muted.Render("No Source Files, Quitting..."))
		return stop{NoSources}
	}
	st.sources = sources
	return nil
}

func (s *Session) selectSource(st *state) error {
	labels := make([]string, len(st.sources))
	for i, folder := range st.sources {
		labels[i] = s.menuLabel(folder)
	}

	choice, err := s.prompt.Choose("", labels)
	if err != nil && !errors.Is(err, prompt.ErrCancelled) {
		return err
	}
	if choice < 1 || choice > len(st.sources) {
		s.printf("Bye.\n")
		return stop{Cancelled}
	}

	st.folder = st.sources[choice-1]
	st.srcPath = filepath.Join(s.cfg.Settings.SourceDir, st.folder)
	s.printf("%s\n\n", s.styles().Title.Render(st.folder))
	return nil
}

// menuLabel marks mapped folders with "*" and shows the destination name
// when it differs from the folder name.
func (s *Session) menuLabel(folder string) string {
	dest, ok := s.cfg.Destination(folder)
	switch {
	case !ok:
		return folder
	case dest == folder:
		return "*" + folder
	default:
		return fmt.Sprintf("*%s (%s)", folder, dest)
	}
}

// resolveDestination settles the destination name for the selected folder.
// Cancelling the prompt ends the session without touching the mapping,
// unlike the filter menu where backing out means "Any".
func (s *Session) resolveDestination(st *state) error {
	styles := s.styles()
	current, mapped := s.cfg.Destination(st.folder)

	initial := current
	if !mapped {
		initial = media.CleanName(st.folder)
		if year, ok := media.ReleaseYear(st.folder); ok {
			s.printf("%s\n", styles.Muted.Render(fmt.Sprintf("Release year: %d", year)))
		}
	}

	answer, err := s.prompt.Input(DestinationLabel, initial)
	if errors.Is(err, prompt.ErrCancelled) {
		s.printf("Bye.\n")
		return stop{Cancelled}
	}
	if err != nil {
		return err
	}

	destRoot := s.cfg.Settings.DestinationDir
	st.destName = answer
	st.destPath = filepath.Join(destRoot, answer)

	switch {
	case !mapped:
		s.printf("%s\n\n", styles.Mapped.Render(answer))
		s.cfg.SetDestination(st.folder, answer)
		return s.save()

	case answer != current:
		// Rename first: a failed rename must leave the mapping untouched.
		from := filepath.Join(destRoot, current)
		s.printf("%s\n", styles.Path.Render(from+" -> "+st.destPath))
		if err := os.Rename(from, st.destPath); err != nil {
			return fmt.Errorf("%w: %w", ErrRename, err)
		}
		s.log.Debug().Str("from", from).Str("to", st.destPath).Msg("renamed destination")
		s.printf("%s\n\n", styles.Success.Render("(Move Successful)"))

		s.cfg.SetDestination(st.folder, answer)
		return s.save()
	}

	return nil
}

func (s *Session) save() error {
	if err := config.Save(s.cfgPath, s.cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveMapping, err)
	}
	s.log.Debug().Str("path", s.cfgPath).Int("mappings", len(s.cfg.Mapping)).Msg("config saved")
	return nil
}

func (s *Session) listContents(st *state) error {
	names, err := DirectoryNames(st.srcPath)
	if err != nil {
		return err
	}

	styles := s.styles()
	s.printf("%s\n", styles.Title.Render("Contents:"))
	for _, name := range names {
		s.printf(" - %s\n", styles.Muted.Render(name))
	}
	s.printf("\n")
	return nil
}

func (s *Session) selectFilter(st *state) error {
	labels := make([]string, len(media.Categories))
	for i, c := range media.Categories {
		labels[i] = c.Label()
	}

	// Unlike the source menu, backing out here means "Any".
	choice, err := s.prompt.Choose("Select Extensions to copy:", labels)
	if err != nil && !errors.Is(err, prompt.ErrCancelled) {
		return err
	}

	st.category = media.CategoryForChoice(choice)
	s.log.Debug().Stringer("category", st.category).Msg("filter selected")
	return nil
}

func (s *Session) copy(st *state) error {
	styles := s.styles()

	excludes, err := s.cfg.Excludes()
	if err != nil {
		return err
	}

	s.printf("%s\n", styles.Path.Render(st.srcPath+" -> "+st.destPath))

	stats, err := media.CopyFiltered(st.srcPath, st.destPath, media.CopyOptions{
		Category: st.category,
		Exclude:  excludes,
	})
	if err != nil {
		return err
	}
	st.stats = stats

	s.log.Debug().Int("files", stats.Files).Int64("bytes", stats.Bytes).Msg("copy finished")
	s.printf("%s %s\n",
		styles.Success.Render("Copy Success!"),
		styles.Muted.Render(fmt.Sprintf("(%d files, %s)", stats.Files, humanize.Bytes(uint64(stats.Bytes)))),
	)
	return nil
}

// SourceFolders returns the immediate subdirectories of dir, sorted.
func SourceFolders(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDirectoryRead, dir, err)
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() {
			folders = append(folders, e.Name())
		}
	}
	slices.Sort(folders)
	return folders, nil
}

// DirectoryNames returns the names of every entry directly under dir, sorted.
func DirectoryNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrDirectoryRead, dir, err)
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}
