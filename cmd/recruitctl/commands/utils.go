package commands

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-recruit-assistant/internal/agent"
	"github.com/tbourn/go-recruit-assistant/internal/config"
	"github.com/tbourn/go-recruit-assistant/internal/exit"
	"github.com/tbourn/go-recruit-assistant/internal/info"
	"github.com/tbourn/go-recruit-assistant/internal/llm"
	"github.com/tbourn/go-recruit-assistant/internal/repo"
	"github.com/tbourn/go-recruit-assistant/internal/schedule"
	"github.com/tbourn/go-recruit-assistant/internal/search"
	"github.com/tbourn/go-recruit-assistant/internal/services"
)

// openDatabase opens the configured sqlite database and migrates the schema.
func openDatabase(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// buildEngine wires a dialog engine over the given database, mirroring the
// server's composition. Without an API key the LLM-backed pieces stay nil and
// the engine degrades to keyword routing and fixed apologies.
func buildEngine(db *gorm.DB, cfg config.Config) *agent.Engine {
	var oracle exit.Oracle
	var chat agent.Responder
	if cfg.LLM.APIKey != "" {
		chat = llm.NewClient(cfg.LLM.APIKey, cfg.LLM.ChatModels, cfg.LLM.Timeout)
		oracle = llm.NewExitOracle(cfg.LLM.APIKey, cfg.LLM.ExitModel, cfg.LLM.Timeout)
	}

	exitAdv := exit.NewAdvisor(oracle)
	exitAdv.Threshold = cfg.ExitThreshold
	exitAdv.Window = cfg.ExitHistoryWindow

	flow := agent.NewFlow(&schedule.Store{DB: db})
	flow.PageSize = cfg.SlotPageSize

	var infoAdv agent.InfoAdvisor
	if idx, err := search.NewJobSpecIndex(cfg.JobSpecPath); err != nil {
		log.Warn().Err(err).Str("path", cfg.JobSpecPath).Msg("job spec index unavailable")
	} else {
		infoAdv = info.NewAdvisor(idx, cfg.InfoThreshold)
	}

	return agent.NewEngine(
		&agent.Router{Exit: exitAdv},
		flow,
		infoAdv,
		chat,
		&services.TranscriptStore{DB: db},
	)
}
