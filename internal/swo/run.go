package swo

import (
	"io"
	"os"

	"swogen/internal/common"
)

// RunConfig mirrors the swo_gen command line.
type RunConfig struct {
	BoardFile    string // optional board configuration
	CoreHz       int64  // overrides the board core clock when non zero
	TraceHz      int64  // overrides the board SWO clock when non zero
	OutputWriter io.Writer
	Logger       common.Logger
}

// Run loads the board setup, generates the artifacts and writes the report.
func Run(cfg RunConfig) error {
	w := cfg.OutputWriter
	if w == nil {
		w = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = common.NewNoOpLogger()
	}

	board := DefaultBoard()
	if cfg.BoardFile != "" {
		var err error
		board, err = LoadBoardFile(cfg.BoardFile)
		if err != nil {
			return err
		}
		logger.Logf(common.SeverityInfo, "board configuration read from %s", cfg.BoardFile)
	}

	if cfg.CoreHz != 0 {
		board.Clock.CoreHz = cfg.CoreHz
	}
	if cfg.TraceHz != 0 {
		board.Clock.TraceHz = cfg.TraceHz
	}
	if board.Clock.CoreHz != DefaultCoreHz {
		logger.Logf(common.SeverityWarning, "core clock %s: SWO output is most stable at %s",
			common.FormatHz(board.Clock.CoreHz), common.FormatHz(DefaultCoreHz))
	}

	sol := Generate(Config{
		Clock:    &board.Clock,
		ITM:      board.ITM,
		Logger:   logger,
		WriteTCR: board.TraceIDSet,
	})
	return sol.WriteReport(w)
}
