package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/jot/internal/config"
	"github.com/five82/jot/internal/logging"
	"github.com/five82/jot/internal/prefs"
	"github.com/five82/jot/internal/state"
	"github.com/five82/jot/internal/todoapi"
	"github.com/five82/jot/internal/ui"
)

// Options configure a jot invocation.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses ~/.config/jot/prefs.toml
	APIURL     string // wins over the config file and JOT_API_URL
	Out        io.Writer
}

type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	client *todoapi.Client
	out    io.Writer
}

func setup(opts Options) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	client, err := todoapi.NewClient(cfg.APIURL,
		todoapi.WithTimeout(cfg.RequestTimeout),
		todoapi.WithLogger(logger),
	)
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("init todo client: %w", err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &runtime{cfg: cfg, logger: logger, client: client, out: out}, nil
}

func (r *runtime) close() {
	_ = r.logger.Sync()
}

func (r *runtime) newStore() *state.Store {
	return state.NewStore(r.client, r.cfg.MaxDescriptionLength, r.logger)
}

// Run boots the jot TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		rt.logger.Warn("using default preferences", zap.Error(err))
	}

	rt.logger.Info("starting jot",
		zap.String("api_url", rt.client.BaseURL()),
		zap.Duration("timeout", rt.client.Timeout()),
		zap.String("theme", userPrefs.Theme),
	)

	return ui.Run(ui.Options{
		Context:   ctx,
		Service:   rt.client,
		Logger:    rt.logger,
		BaseURL:   rt.client.BaseURL(),
		MaxLen:    rt.cfg.MaxDescriptionLength,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	})
}

// List prints every todo once.
func List(ctx context.Context, opts Options) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	store := rt.newStore()
	if err := store.Refresh(ctx); err != nil {
		return err
	}
	printTodos(rt.out, store.Snapshot().List.Todos, time.Now())
	return nil
}

// Add creates a todo and prints the refreshed list. Input is validated the
// same way as the TUI form, so an invalid description makes no request.
func Add(ctx context.Context, opts Options, description string) error {
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	store := rt.newStore()
	if !store.Edit(description) {
		return &state.ValidationError{
			Message: fmt.Sprintf("Description cannot exceed %d characters", store.Snapshot().MaxLen),
		}
	}

	todo, err := store.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(rt.out, "Added %q\n", todo.Description)

	snap := store.Snapshot()
	if snap.List.Error != "" {
		rt.logger.Warn("refresh after create failed", zap.String("error", snap.List.Error))
		fmt.Fprintf(rt.out, "Could not refresh list: %s\n", snap.List.Error)
		return nil
	}
	printTodos(rt.out, snap.List.Todos, time.Now())
	return nil
}

func printTodos(w io.Writer, todos []todoapi.Todo, now time.Time) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "No todos yet.")
		return
	}
	for _, todo := range todos {
		created := todo.ParsedCreatedAt()
		if created.IsZero() {
			fmt.Fprintf(w, "• %s\n", todo.Description)
			continue
		}
		fmt.Fprintf(w, "• %s  (%s)\n", todo.Description, ui.RelativeAge(created, now))
	}
}
