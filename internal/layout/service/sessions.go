package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"wedding-layout/internal/common/logger"
	"wedding-layout/internal/layout/canvas"
	"wedding-layout/internal/layout/guests"
	"wedding-layout/internal/layout/models"
	"wedding-layout/internal/layout/render"
	"wedding-layout/internal/layout/repository"
)

var ErrProjectNotOpen = errors.New("service: project is not open")

// ProjectRepository persists canvas snapshots.
type ProjectRepository interface {
	Save(ctx context.Context, p repository.Project) error
	Load(ctx context.Context, id string) (repository.Project, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]repository.Summary, error)
}

type Config struct {
	HistoryLimit      int
	DefaultPxPerMeter float64
	// NewID overrides id generation for every store. Nil means uuid.
	NewID func() string
}

// Sessions owns one canvas store per open project.
type Sessions struct {
	mu      sync.RWMutex
	open    map[string]*Workspace
	repo    ProjectRepository
	fetcher guests.Fetcher
	files   *FileStorage
	cfg     Config
	log     *logger.Logger
}

func NewSessions(repo ProjectRepository, fetcher guests.Fetcher, files *FileStorage, cfg Config, log *logger.Logger) *Sessions {
	return &Sessions{
		open:    make(map[string]*Workspace),
		repo:    repo,
		fetcher: fetcher,
		files:   files,
		cfg:     cfg,
		log:     logger.OrNop(log).Component("sessions"),
	}
}

// OpenRequest switches a session to a project. Zero bounds reuse the persisted ones.
type OpenRequest struct {
	Bounds  models.Bounds
	EventID string
}

// Open loads the persisted snapshot and the event's guest list concurrently, then
// initializes the project's store. Opening an already open project clears and reloads it.
func (s *Sessions) Open(ctx context.Context, projectID string, req OpenRequest) (*Workspace, error) {
	var (
		saved    repository.Project
		hasSaved bool
	)
	dir := guests.NewDirectory(s.fetcher, req.EventID)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.repo.Load(gctx, projectID)
		switch {
		case errors.Is(err, repository.ErrProjectNotFound):
			return nil
		case err != nil:
			return err
		}
		saved, hasSaved = p, true
		return nil
	})
	if req.EventID != "" {
		g.Go(func() error {
			if err := dir.Refresh(gctx); err != nil {
				s.log.Warn("guest list unavailable", "project", projectID, "event", req.EventID, "error", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("open project %s: %w", projectID, err)
	}

	bounds := req.Bounds
	eventID := req.EventID
	var data *models.CanvasData
	if hasSaved {
		data = &saved.Canvas
		if bounds.Width <= 0 || bounds.Height <= 0 {
			bounds = saved.Bounds
		}
		if eventID == "" && saved.EventID != "" {
			eventID = saved.EventID
			dir = guests.NewDirectory(s.fetcher, eventID)
			if err := dir.Refresh(ctx); err != nil {
				s.log.Warn("guest list unavailable", "project", projectID, "event", eventID, "error", err)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.open[projectID]
	if !ok {
		ws = newWorkspace(canvas.New(canvas.Options{
			HistoryLimit:      s.cfg.HistoryLimit,
			DefaultPxPerMeter: s.cfg.DefaultPxPerMeter,
			NewID:             s.cfg.NewID,
		}), dir, eventID)
	} else {
		ws.mu.Lock()
		ws.cancelLocked()
		ws.directory = dir
		ws.eventID = eventID
		ws.mu.Unlock()
	}

	if err := ws.Store.Initialize(projectID, bounds, data); err != nil {
		return nil, err
	}
	s.open[projectID] = ws

	s.log.Info("project opened",
		"project", projectID,
		"restored", hasSaved,
		"elements", len(ws.Store.Elements()),
		"clamped", ws.Store.ClampedOnLoad(),
		"guests", len(dir.Guests()),
	)
	return ws, nil
}

func (s *Sessions) Get(projectID string) (*Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.open[projectID]
	if !ok {
		return nil, ErrProjectNotOpen
	}
	return ws, nil
}

// Save persists the current canvas and marks the store clean.
func (s *Sessions) Save(ctx context.Context, projectID string) (repository.Project, error) {
	ws, err := s.Get(projectID)
	if err != nil {
		return repository.Project{}, err
	}

	p := repository.Project{
		ID:      projectID,
		EventID: ws.EventID(),
		Bounds:  ws.Store.Bounds(),
		Canvas:  ws.Store.GetCanvasData(),
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return repository.Project{}, err
	}
	ws.Store.MarkClean()

	s.log.Debug("project saved", "project", projectID, "elements", len(p.Canvas.Shapes))
	return p, nil
}

// Close drops the project's store without saving.
func (s *Sessions) Close(projectID string) bool {
	s.mu.Lock()
	ws, ok := s.open[projectID]
	delete(s.open, projectID)
	s.mu.Unlock()

	if !ok {
		return false
	}
	ws.mu.Lock()
	ws.cancelLocked()
	ws.mu.Unlock()
	ws.Store.Dispose()
	return true
}

// Delete closes the project and removes its persisted snapshot. Deleting a project
// that was only open in memory is not an error.
func (s *Sessions) Delete(ctx context.Context, projectID string) error {
	wasOpen := s.Close(projectID)
	err := s.repo.Delete(ctx, projectID)
	if errors.Is(err, repository.ErrProjectNotFound) && wasOpen {
		return nil
	}
	return err
}

// ProjectStatus is a saved project plus its in-memory state.
type ProjectStatus struct {
	repository.Summary
	Open  bool `json:"open"`
	Dirty bool `json:"dirty"`
}

// List returns the saved projects, most recently saved first.
func (s *Sessions) List(ctx context.Context) ([]ProjectStatus, error) {
	saved, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ProjectStatus, 0, len(saved))
	for _, p := range saved {
		st := ProjectStatus{Summary: p}
		if ws, ok := s.open[p.ID]; ok {
			st.Open = true
			st.Dirty = ws.Store.Dirty()
		}
		out = append(out, st)
	}
	return out, nil
}

// Export renders the project as SVG and keeps a copy with the canvas JSON in the
// export directory.
func (s *Sessions) Export(projectID string) (string, error) {
	ws, err := s.Get(projectID)
	if err != nil {
		return "", err
	}
	data := ws.Store.GetCanvasData()
	svg, err := render.SVG(data)
	if err != nil {
		return "", err
	}

	if s.files != nil {
		if err := s.files.SaveFile(projectID, s.files.SVGPath(projectID), []byte(svg)); err != nil {
			return "", fmt.Errorf("write svg export: %w", err)
		}
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		if err := s.files.SaveFile(projectID, s.files.JSONPath(projectID), raw); err != nil {
			return "", fmt.Errorf("write json export: %w", err)
		}
	}
	return svg, nil
}
