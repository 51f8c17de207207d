// Package asset is a small asynchronous scene server. Loads run on their own
// goroutines; callers observe progress by polling LoadState once per tick.
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/milk9111/sceneextras/scene"
)

var ErrNoLoader = errors.New("asset: no loader for extension")

type Options struct {
	// FS is the asset root. Paths passed to Load are relative to it.
	FS fs.FS
	// Loaders by lower-case extension including the dot. Defaults to glTF.
	Loaders map[string]Loader
	Logger  zerolog.Logger
}

type record struct {
	path  string
	file  string
	label int
	state LoadState
	scene *scene.Scene
	err   error
	refs  int
	gen   uint64
}

// Server hands out handles for scene files and loads them in the background.
type Server struct {
	fsys    fs.FS
	loaders map[string]Loader
	log     zerolog.Logger

	mu      sync.Mutex
	nextID  uint64
	byPath  map[string]Handle
	records map[Handle]*record
	wg      sync.WaitGroup
}

func NewServer(opts Options) *Server {
	loaders := opts.Loaders
	if loaders == nil {
		loaders = map[string]Loader{
			".gltf": GLTFLoader{},
			".glb":  GLTFLoader{},
		}
	}
	return &Server{
		fsys:    opts.FS,
		loaders: loaders,
		log:     opts.Logger,
		byPath:  make(map[string]Handle),
		records: make(map[Handle]*record),
	}
}

// Load returns the handle for path, starting a load if nothing live holds it.
// A handle whose last load failed is loaded again, so Load followed by a new
// tracker registration is a retry. Paths that cannot name a scene stay
// Failed. Every call adds a reference that Release must drop.
func (s *Server) Load(assetPath string) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h, ok := s.byPath[assetPath]; ok {
		rec := s.records[h]
		rec.refs++
		if rec.state == Failed && rec.file != "" {
			s.log.Info().Str("path", assetPath).Msg("asset: retrying failed load")
			s.start(h, rec)
		}
		return h
	}

	s.nextID++
	h := Handle{id: s.nextID}
	rec := &record{path: assetPath, refs: 1}
	s.records[h] = rec
	s.byPath[assetPath] = h

	file, label, err := scene.SplitLabel(assetPath)
	if err != nil {
		rec.state = Failed
		rec.err = err
		s.log.Warn().Err(err).Str("path", assetPath).Msg("asset: bad path")
		return h
	}
	rec.file = file
	rec.label = label
	s.start(h, rec)
	return h
}

// start must be called with mu held.
func (s *Server) start(h Handle, rec *record) {
	rec.gen++
	rec.state = Loading
	rec.err = nil
	gen := rec.gen
	file, label := rec.file, rec.label

	s.log.Debug().Str("path", rec.path).Stringer("handle", h).Msg("asset: load started")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sc, err := s.loadFile(file, label)
		s.finish(h, gen, sc, err)
	}()
}

func (s *Server) loadFile(file string, label int) (*scene.Scene, error) {
	if s.fsys == nil {
		return nil, fmt.Errorf("asset: no asset filesystem configured")
	}
	ext := strings.ToLower(path.Ext(file))
	loader, ok := s.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoLoader, ext)
	}
	return loader.Load(s.fsys, file, label)
}

func (s *Server) finish(h Handle, gen uint64, sc *scene.Scene, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[h]
	if !ok || rec.gen != gen || rec.state != Loading {
		// released or superseded by a reload while we were working
		return
	}
	if err != nil {
		rec.state = Failed
		rec.err = err
		s.log.Warn().Err(err).Str("path", rec.path).Msg("asset: load failed")
		return
	}
	rec.state = Loaded
	rec.scene = sc
	s.log.Info().Str("path", rec.path).Stringer("handle", h).Msg("asset: loaded")
}

// LoadSync loads path on the calling goroutine without tracking it.
func (s *Server) LoadSync(assetPath string) (*scene.Scene, error) {
	file, label, err := scene.SplitLabel(assetPath)
	if err != nil {
		return nil, err
	}
	return s.loadFile(file, label)
}

// Release drops one reference. The last release evicts the scene and leaves
// the handle in the Unloaded state.
func (s *Server) Release(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[h]
	if !ok || rec.refs == 0 {
		return
	}
	rec.refs--
	if rec.refs > 0 {
		return
	}
	rec.state = Unloaded
	rec.scene = nil
	rec.gen++
	delete(s.byPath, rec.path)
	s.log.Debug().Str("path", rec.path).Stringer("handle", h).Msg("asset: unloaded")
}

// Reload restarts the load of every live handle whose file is file. It
// returns the affected handles.
func (s *Server) Reload(file string) []Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Handle
	for h, rec := range s.records {
		if rec.refs == 0 || rec.file != file {
			continue
		}
		s.log.Info().Str("path", rec.path).Msg("asset: reloading")
		s.start(h, rec)
		out = append(out, h)
	}
	return out
}

// Wait blocks until no load is in flight.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) LoadState(h Handle) LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[h]
	if !ok {
		return NotLoaded
	}
	return rec.state
}

// SourcePath returns the file behind h, without any scene label.
func (s *Server) SourcePath(h Handle) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[h]
	if !ok || rec.file == "" {
		return "", false
	}
	return rec.file, true
}

// Scene returns the loaded scene for h. The pointer stays valid after a
// reload swaps in a new one.
func (s *Server) Scene(h Handle) (*scene.Scene, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[h]
	if !ok || rec.state != Loaded || rec.scene == nil {
		return nil, false
	}
	return rec.scene, true
}

// Err returns the failure recorded for h, if any.
func (s *Server) Err(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[h]; ok {
		return rec.err
	}
	return nil
}
