package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/marsview/internal/config"
	"github.com/five82/marsview/internal/fetcher"
	"github.com/five82/marsview/internal/listings"
	"github.com/five82/marsview/internal/mockapi"
	"github.com/five82/marsview/internal/prefs"
	"github.com/five82/marsview/internal/state"
	"github.com/five82/marsview/internal/ui"
)

// Options configure the marsview application.
type Options struct {
	ConfigPath   string
	PrefsPath    string        // empty uses default ~/.config/marsview/prefs.toml
	Filter       string        // empty uses the saved filter, then the config default
	RefreshEvery time.Duration // zero uses the config value
	Mock         bool          // serve the embedded sample listings locally

	// LogOutput overrides the configured log file.
	LogOutput io.Writer
}

type session struct {
	cfg     config.Config
	prefs   prefs.Prefs
	logger  *slog.Logger
	store   *state.Store
	fetcher *fetcher.Fetcher
	filter  listings.Filter
	refresh time.Duration
	closers []func()
}

// Run boots the marsview TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	s, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	// Initial fetch so the list view opens already loading.
	s.fetcher.Fetch(s.filter)
	StartRefresher(ctx, s.fetcher, s.store, s.refresh)

	return ui.Run(ui.Options{
		Context:   ctx,
		Fetcher:   s.fetcher,
		Store:     s.store,
		ThemeName: s.prefs.Theme,
		PrefsPath: opts.PrefsPath,
		Logger:    s.logger,
	})
}

// RunOnce fetches the initial filter, prints the result to w, and returns an
// error when the fetch failed.
func RunOnce(ctx context.Context, opts Options, w io.Writer) error {
	s, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	s.fetcher.Fetch(s.filter)
	s.fetcher.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := s.store.Snapshot()
	switch snap.Status {
	case state.StatusError:
		fmt.Fprintf(w, "Unable to load %s listings (%s error)\n", snap.Filter.Label(), listings.Kind(snap.LastError))
		return fmt.Errorf("fetch %s listings: %w", snap.Filter.Value(), snap.LastError)
	case state.StatusDone:
		fmt.Fprintln(w, renderTable(snap.Properties))
		fmt.Fprintf(w, "%d %s listings\n", len(snap.Properties), snap.Filter.Label())
		return nil
	default:
		return fmt.Errorf("fetch %s listings: unexpected status %q", snap.Filter.Value(), snap.Status)
	}
}

func setup(ctx context.Context, opts Options) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	s := &session{cfg: cfg, prefs: prefs.Load(opts.PrefsPath)}

	logOut := opts.LogOutput
	if logOut == nil {
		file, err := openLogFile(cfg.LogPath)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = file.Close() })
		logOut = file
	}
	s.logger = newLogger(logOut, cfg.LogLevel)

	s.filter, err = initialFilter(opts.Filter, s.prefs, cfg)
	if err != nil {
		s.close()
		return nil, err
	}

	s.refresh = cfg.RefreshEvery
	if opts.RefreshEvery > 0 {
		s.refresh = opts.RefreshEvery
	}

	baseURL := cfg.BaseURL
	if opts.Mock {
		srv, err := mockapi.Start("127.0.0.1:0", mockapi.WithLogger(s.logger))
		if err != nil {
			s.close()
			return nil, fmt.Errorf("start mock api: %w", err)
		}
		s.closers = append(s.closers, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Close(shutdownCtx)
		})
		baseURL = srv.URL()
		s.logger.Info("mock api listening", "url", baseURL)
	}

	clientOpts := []listings.ClientOption{
		listings.WithTimeout(cfg.Timeout),
		listings.WithLogger(s.logger),
	}
	if cfg.UserAgent != "" {
		clientOpts = append(clientOpts, listings.WithUserAgent(cfg.UserAgent))
	}
	client, err := listings.NewClient(baseURL, clientOpts...)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("init listings client: %w", err)
	}

	s.store = &state.Store{}
	s.fetcher = fetcher.New(ctx, client, s.store, s.logger)
	// The fetcher must stop before the mock server and log file go away.
	s.closers = append(s.closers, s.fetcher.Close)

	s.logger.Info("marsview starting",
		"base_url", client.BaseURL(),
		"filter", s.filter.Value(),
		"refresh", s.refresh,
	)
	return s, nil
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

func initialFilter(flag string, p prefs.Prefs, cfg config.Config) (listings.Filter, error) {
	if flag != "" {
		f, err := listings.ParseFilter(flag)
		if err != nil {
			return "", fmt.Errorf("invalid filter: %w", err)
		}
		return f, nil
	}
	if f, ok := p.LastFilter(); ok {
		return f, nil
	}
	if cfg.DefaultFilter != "" {
		return cfg.DefaultFilter, nil
	}
	return listings.FilterAll, nil
}

func renderTable(props []listings.Property) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	price := cell.Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TYPE", "PRICE", "IMAGE").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 2:
				return price
			default:
				return cell
			}
		})
	for _, p := range props {
		t.Row(p.ID, string(p.Type), p.DisplayPrice(), p.ImgSrcURL)
	}
	return t.Render()
}
