package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/quorum/internal/archive"
	"github.com/ShayCichocki/quorum/internal/decision"
	"github.com/ShayCichocki/quorum/internal/inbox"
	"github.com/ShayCichocki/quorum/internal/synthesis"
	"github.com/ShayCichocki/quorum/internal/workflow"
	"github.com/ShayCichocki/quorum/pkg/models"
)

var serveVerbose bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host the decision engine and ingest inbox submissions",
	Long: `Host an in-memory decision engine and ingest requests dropped into the
file inbox by agents running in other processes.

After every accepted request the decision's status snapshot is written to
<inbox>/status/<decision_id>.json, so 'quorum status' and 'quorum watch'
can observe progress from outside this process. Finalized decisions are
archived to the SQLite history database.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Log at debug level")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if serveVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	themes := synthesis.DefaultThemeGroups
	if cfg.Synthesis.ThemesFile != "" {
		themes, err = synthesis.LoadThemeGroups(cfg.Synthesis.ThemesFile)
		if err != nil {
			return fmt.Errorf("load theme groups: %w", err)
		}
	}

	store, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	engine := decision.NewEngine(decision.NewStore(), decision.WithLogger(logger))

	handler := &serveHandler{
		engine:              engine,
		archive:             store,
		themes:              themes,
		maxOptions:          cfg.Synthesis.MaxOptions,
		defaultConflictType: cfg.Defaults.ConflictType,
		statusDir:           statusDir(cfg.Inbox.Dir),
		log:                 logger,
	}
	if err := os.MkdirAll(handler.statusDir, 0755); err != nil {
		return fmt.Errorf("create status directory: %w", err)
	}

	watcher, err := inbox.NewWatcher(cfg.Inbox.Dir, handler, logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		watcher.Close()
		return err
	}
	defer watcher.Close()

	logger.Info("quorum serving",
		"inbox", cfg.Inbox.Dir, "archive", cfg.Archive.Path, "max_options", cfg.Synthesis.MaxOptions)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
	return nil
}

// statusDir returns the directory where serve publishes decision snapshots.
func statusDir(inboxDir string) string {
	return filepath.Join(inboxDir, "status")
}

// serveHandler routes ingested inbox requests to engine operations and
// publishes a fresh status snapshot after every accepted request.
type serveHandler struct {
	engine              *decision.Engine
	archive             *archive.Store
	themes              []synthesis.ThemeGroup
	maxOptions          int
	defaultConflictType string
	statusDir           string
	log                 *slog.Logger
}

func (h *serveHandler) Handle(req inbox.Request) error {
	if err := req.Validate(); err != nil {
		return err
	}

	switch req.Kind {
	case inbox.KindTrigger:
		conflictType := req.ConflictType
		if conflictType == "" {
			conflictType = h.defaultConflictType
		}
		id, err := h.engine.Trigger(models.ConflictType(conflictType),
			req.TriggerReason, req.Context, req.ParticipatingAgents)
		if err != nil {
			return err
		}
		// Open the floor immediately; context preparation happens in the
		// request author's process before it drops the trigger.
		if err := h.engine.AdvancePhase(id, models.PhaseIdeaCollection); err != nil {
			return err
		}
		return h.publish(id)

	case inbox.KindProposal:
		if err := h.engine.SubmitProposal(req.DecisionID, req.AgentName, req.Proposal, req.Reasoning); err != nil {
			return err
		}
		return h.publish(req.DecisionID)

	case inbox.KindVote:
		if err := h.engine.SubmitVote(req.DecisionID, req.AgentName, req.RankedOptions, req.Reasoning); err != nil {
			return err
		}
		return h.publish(req.DecisionID)

	case inbox.KindSynthesize:
		maxOptions := req.MaxOptions
		if maxOptions <= 0 {
			maxOptions = h.maxOptions
		}
		if _, err := workflow.RunSynthesis(h.engine, req.DecisionID, h.themes, maxOptions); err != nil {
			return err
		}
		return h.publish(req.DecisionID)

	case inbox.KindAdvance:
		phase := models.Phase(req.Phase)
		if !phase.Valid() {
			return fmt.Errorf("unknown phase %q", req.Phase)
		}
		if err := h.engine.AdvancePhase(req.DecisionID, phase); err != nil {
			return err
		}
		return h.publish(req.DecisionID)

	case inbox.KindFinalize:
		if err := h.engine.Finalize(req.DecisionID, req.FinalDecision); err != nil {
			return err
		}
		snapshot, err := h.engine.Status(req.DecisionID)
		if err != nil {
			return err
		}
		if err := h.archive.Save(snapshot); err != nil {
			h.log.Warn("archive write failed", "decision_id", req.DecisionID, "error", err)
		}
		return h.publish(req.DecisionID)

	default:
		return fmt.Errorf("unknown request kind %q", req.Kind)
	}
}

// publish writes the decision's current snapshot for out-of-process readers.
func (h *serveHandler) publish(decisionID string) error {
	snapshot, err := h.engine.Status(decisionID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	path := filepath.Join(h.statusDir, decisionID+".json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}
