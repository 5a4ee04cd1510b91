// Package inbox implements a file drop-box through which agents running in
// separate processes feed the decision engine. Each request is one JSON
// file written into the requests directory; the watcher ingests it through
// the corresponding engine operation and moves the file to processed/ or
// rejected/. The engine's per-decision locking makes concurrent drops for
// the same decision safe.
package inbox

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// Request kinds accepted by the inbox.
const (
	KindTrigger    = "trigger"
	KindProposal   = "proposal"
	KindVote       = "vote"
	KindSynthesize = "synthesize"
	KindAdvance    = "advance"
	KindFinalize   = "finalize"
)

// Request is the envelope written into the requests directory. Kind decides
// which payload fields apply.
type Request struct {
	Kind string `json:"kind"`

	// Trigger fields.
	ConflictType        string   `json:"conflict_type,omitempty"`
	TriggerReason       string   `json:"trigger_reason,omitempty"`
	Context             string   `json:"context,omitempty"`
	ParticipatingAgents []string `json:"participating_agents,omitempty"`

	// Shared by everything after trigger.
	DecisionID string `json:"decision_id,omitempty"`

	// Proposal and vote fields.
	AgentName     string   `json:"agent_name,omitempty"`
	Proposal      string   `json:"proposal,omitempty"`
	Reasoning     string   `json:"reasoning,omitempty"`
	RankedOptions []string `json:"ranked_options,omitempty"`

	// Synthesize fields.
	MaxOptions int `json:"max_options,omitempty"`

	// Advance fields.
	Phase string `json:"phase,omitempty"`

	// Finalize fields.
	FinalDecision string `json:"final_decision,omitempty"`
}

// Handler executes one ingested request against the engine side. The serve
// command supplies an implementation backed by the decision engine and
// synthesis pipeline.
type Handler interface {
	Handle(req Request) error
}

// Watcher ingests request files from <dir>/requests as they appear.
type Watcher struct {
	dir     string
	handler Handler
	log     *slog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu        sync.Mutex
	processed map[string]struct{}
}

// Dir layout helpers.
func requestsDir(dir string) string  { return filepath.Join(dir, "requests") }
func processedDir(dir string) string { return filepath.Join(dir, "processed") }
func rejectedDir(dir string) string  { return filepath.Join(dir, "rejected") }

// NewWatcher creates (if needed) the inbox directory layout and a watcher
// over its requests directory.
func NewWatcher(dir string, handler Handler, log *slog.Logger) (*Watcher, error) {
	for _, sub := range []string{requestsDir(dir), processedDir(dir), rejectedDir(dir)} {
		if err := os.MkdirAll(sub, 0755); err != nil {
			return nil, fmt.Errorf("create inbox directory: %w", err)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create inbox watcher: %w", err)
	}
	if err := fw.Add(requestsDir(dir)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch inbox requests: %w", err)
	}

	return &Watcher{
		dir:       dir,
		handler:   handler,
		log:       log,
		watcher:   fw,
		done:      make(chan struct{}),
		processed: make(map[string]struct{}),
	}, nil
}

// Start drains any requests already on disk, then watches for new ones.
func (w *Watcher) Start() error {
	if err := w.drainExisting(); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.watchLoop()
	return nil
}

// Close stops the watcher and waits for in-flight ingestion to finish.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// drainExisting ingests request files present before the watch began, in
// name order so earlier drops go first.
func (w *Watcher) drainExisting() error {
	entries, err := os.ReadDir(requestsDir(w.dir))
	if err != nil {
		return fmt.Errorf("read inbox requests: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		w.ingest(filepath.Join(requestsDir(w.dir), name))
	}
	return nil
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			w.ingest(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("inbox watch error", "error", err)
		}
	}
}

// ingest parses and executes one request file, then moves it out of the
// requests directory. Create and Write events can both fire for one file;
// the processed set keeps ingestion single-shot.
func (w *Watcher) ingest(path string) {
	w.mu.Lock()
	if _, done := w.processed[path]; done {
		w.mu.Unlock()
		return
	}
	w.processed[path] = struct{}{}
	w.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		w.log.Warn("inbox read failed", "file", path, "error", err)
		w.forget(path)
		return
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		w.log.Warn("inbox request malformed", "file", path, "error", err)
		w.move(path, rejectedDir(w.dir))
		return
	}

	if err := w.handler.Handle(req); err != nil {
		w.log.Warn("inbox request rejected",
			"file", path, "kind", req.Kind, "decision_id", req.DecisionID, "error", err)
		w.move(path, rejectedDir(w.dir))
		return
	}

	w.log.Info("inbox request processed",
		"file", filepath.Base(path), "kind", req.Kind, "decision_id", req.DecisionID)
	w.move(path, processedDir(w.dir))
}

// forget drops a path from the processed set so a later rewrite can retry.
func (w *Watcher) forget(path string) {
	w.mu.Lock()
	delete(w.processed, path)
	w.mu.Unlock()
}

// move relocates an ingested file under a fresh unique name. Once the file
// has left the requests directory its path is forgotten, so the processed
// set stays bounded by the number of in-flight requests.
func (w *Watcher) move(path, destDir string) {
	dest := filepath.Join(destDir, uuid.NewString()+".json")
	if err := os.Rename(path, dest); err != nil {
		w.log.Warn("inbox move failed", "file", path, "error", err)
		return
	}
	w.forget(path)
}

// WriteRequest drops a request file into the inbox for a running watcher to
// pick up. It returns the path of the written file. This is the client side
// used by the CLI submission commands.
func WriteRequest(dir string, req Request) (string, error) {
	if err := os.MkdirAll(requestsDir(dir), 0755); err != nil {
		return "", fmt.Errorf("create inbox directory: %w", err)
	}
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	path := filepath.Join(requestsDir(dir), fmt.Sprintf("%s_%s.json", req.Kind, uuid.NewString()))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("write request: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("publish request: %w", err)
	}
	return path, nil
}

// Validate checks the envelope fields needed to route the request. Business
// rules stay with the engine; this only rejects shapes that cannot be routed.
func (r Request) Validate() error {
	switch r.Kind {
	case KindTrigger:
		if len(r.ParticipatingAgents) == 0 {
			return fmt.Errorf("trigger request: participating_agents is empty")
		}
	case KindProposal:
		if r.DecisionID == "" || r.AgentName == "" {
			return fmt.Errorf("proposal request: decision_id and agent_name are required")
		}
	case KindVote:
		if r.DecisionID == "" || r.AgentName == "" {
			return fmt.Errorf("vote request: decision_id and agent_name are required")
		}
	case KindSynthesize, KindFinalize:
		if r.DecisionID == "" {
			return fmt.Errorf("%s request: decision_id is required", r.Kind)
		}
	case KindAdvance:
		if r.DecisionID == "" || r.Phase == "" {
			return fmt.Errorf("advance request: decision_id and phase are required")
		}
	default:
		return fmt.Errorf("unknown request kind %q", r.Kind)
	}
	return nil
}
